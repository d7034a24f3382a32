package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autosales-dashboard/internal/models"
)

func TestWriteWorkbook(t *testing.T) {
	sel := models.Selection{Report: models.ReportYearly, Year: models.YearOf(1980)}
	charts := []models.ChartSpec{
		{
			Kind:   models.ChartBar,
			Title:  "Average Vehicles Sold by Vehicle Type in 1980",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "Sedan", Value: 15}, {Label: "SUV", Value: 42.5}},
		},
		{
			Kind:        models.ChartPie,
			Title:       "Total Advertisement Expenditure for Each Vehicle in 1980",
			NamesField:  "Vehicle_Type",
			ValuesField: "Advertising_Expenditure",
			Points:      []models.ChartPoint{{Label: "Sedan", Value: 300}},
		},
	}

	var buf bytes.Buffer
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteWorkbook(&buf, sel, charts, now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Chart 1", "Chart 2"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Report", "Yearly Statistics"}, summary[0])
	assert.Equal(t, []string{"Year", "1980"}, summary[1])
	assert.Equal(t, []string{"Charts", "2"}, summary[2])
	assert.Equal(t, []string{"Generated", "2024-05-01T12:00:00Z"}, summary[3])

	bar, err := f.GetRows("Chart 1")
	require.NoError(t, err)
	assert.Equal(t, "Average Vehicles Sold by Vehicle Type in 1980", bar[0][0])
	assert.Equal(t, "bar", bar[1][0])
	assert.Equal(t, []string{"Vehicle_Type", "Automobile_Sales"}, bar[3])
	assert.Equal(t, []string{"Sedan", "15"}, bar[4])
	assert.Equal(t, []string{"SUV", "42.5"}, bar[5])

	pie, err := f.GetRows("Chart 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vehicle_Type", "Advertising_Expenditure"}, pie[3])
	assert.Equal(t, []string{"Sedan", "300"}, pie[4])
}

func TestWriteWorkbook_NoCharts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, models.Selection{}, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary"}, f.GetSheetList())

	report, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "(none)", report)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "automobile-sales-recession.xlsx", Filename(models.Selection{Report: models.ReportRecession}))
	assert.Equal(t, "automobile-sales-2001.xlsx", Filename(models.Selection{Report: models.ReportYearly, Year: models.YearOf(2001)}))
	assert.Equal(t, "automobile-sales.xlsx", Filename(models.Selection{Report: models.ReportYearly}))
	assert.Equal(t, "automobile-sales.xlsx", Filename(models.Selection{}))
}
