package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autosales-dashboard/internal/models"
)

func testRecords() []models.SalesRecord {
	return []models.SalesRecord{
		{Year: 2008, Month: "Jan", Recession: 1, VehicleType: "Sedan", AutomobileSales: 10, AdvertisingExpenditure: 100},
		{Year: 2008, Month: "Feb", Recession: 1, VehicleType: "SUV", AutomobileSales: 20, AdvertisingExpenditure: 200},
		{Year: 2008, Month: "Jan", Recession: 0, VehicleType: "Sedan", AutomobileSales: 30, AdvertisingExpenditure: 300},
		{Year: 2009, Month: "Jan", Recession: 1, VehicleType: "Sedan", AutomobileSales: 40, AdvertisingExpenditure: 400},
		{Year: 2009, Month: "Feb", Recession: 0, VehicleType: "SUV", AutomobileSales: 50, AdvertisingExpenditure: 500},
		{Year: 2009, Month: "Feb", Recession: 1, VehicleType: "SUV", AutomobileSales: 60, AdvertisingExpenditure: 600},
	}
}

func newTestDashboard() *Dashboard {
	return NewDashboard(NewDataset(testRecords()), nil)
}

func TestYearSelectorDisabled(t *testing.T) {
	tests := []struct {
		report models.ReportType
		want   bool
	}{
		{models.ReportYearly, false},
		{models.ReportRecession, true},
		{models.ReportUnset, true},
		{models.ReportType("yearly statistics"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.report), func(t *testing.T) {
			assert.Equal(t, tt.want, YearSelectorDisabled(tt.report))
			assert.Equal(t, tt.want, newTestDashboard().YearSelectorDisabled(tt.report))
		})
	}
}

func TestDashboard_Charts_EmptySelections(t *testing.T) {
	d := newTestDashboard()

	tests := []struct {
		name string
		sel  models.Selection
	}{
		{"nothing selected", models.Selection{}},
		{"year without report", models.Selection{Year: models.YearOf(2009)}},
		{"yearly without year", models.Selection{Report: models.ReportYearly}},
		{"unknown report", models.Selection{Report: "Monthly Statistics", Year: models.YearOf(2009)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, d.Charts(tt.sel))
		})
	}
}

func TestDashboard_Charts_Recession(t *testing.T) {
	d := newTestDashboard()

	charts := d.Charts(models.Selection{Report: models.ReportRecession})
	require.Len(t, charts, 4)

	want := []models.ChartSpec{
		{
			Kind:   models.ChartLine,
			Title:  "Average Automobile Sales Fluctuation Over Recession Period",
			XField: "Year",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "2008", Value: 15}, {Label: "2009", Value: 50}},
		},
		{
			Kind:   models.ChartBar,
			Title:  "Average Number of Vehicles Sold by Vehicle Type",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "SUV", Value: 40}, {Label: "Sedan", Value: 25}},
		},
		{
			Kind:        models.ChartPie,
			Title:       "Total Expenditure Share by Vehicle Type During Recessions",
			NamesField:  "Vehicle_Type",
			ValuesField: "Advertising_Expenditure",
			Points:      []models.ChartPoint{{Label: "SUV", Value: 800}, {Label: "Sedan", Value: 500}},
		},
		{
			Kind:   models.ChartBar,
			Title:  "Effect of Unemployment Rate on Vehicle Type and Sales",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "SUV", Value: 40}, {Label: "Sedan", Value: 25}},
		},
	}

	if diff := cmp.Diff(want, charts); diff != "" {
		t.Errorf("recession charts mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboard_Charts_RecessionIgnoresYear(t *testing.T) {
	d := newTestDashboard()

	withYear := d.Charts(models.Selection{Report: models.ReportRecession, Year: models.YearOf(2008)})
	withoutYear := d.Charts(models.Selection{Report: models.ReportRecession})

	if diff := cmp.Diff(withoutYear, withYear); diff != "" {
		t.Errorf("year should not affect recession charts (-want +got):\n%s", diff)
	}
}

func TestDashboard_Charts_Yearly(t *testing.T) {
	d := newTestDashboard()

	charts := d.Charts(models.Selection{Report: models.ReportYearly, Year: models.YearOf(2009)})
	require.Len(t, charts, 4)

	want := []models.ChartSpec{
		{
			Kind:   models.ChartLine,
			Title:  "Yearly Average Automobile Sales",
			XField: "Year",
			YField: "Automobile_Sales",
			// computed over the full table, not just 2009
			Points: []models.ChartPoint{{Label: "2008", Value: 20}, {Label: "2009", Value: 50}},
		},
		{
			Kind:   models.ChartLine,
			Title:  "Total Monthly Automobile Sales in 2009",
			XField: "Month",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "Feb", Value: 110}, {Label: "Jan", Value: 40}},
		},
		{
			Kind:   models.ChartBar,
			Title:  "Average Vehicles Sold by Vehicle Type in 2009",
			XField: "Vehicle_Type",
			YField: "Automobile_Sales",
			Points: []models.ChartPoint{{Label: "SUV", Value: 55}, {Label: "Sedan", Value: 40}},
		},
		{
			Kind:        models.ChartPie,
			Title:       "Total Advertisement Expenditure for Each Vehicle in 2009",
			NamesField:  "Vehicle_Type",
			ValuesField: "Advertising_Expenditure",
			Points:      []models.ChartPoint{{Label: "SUV", Value: 1100}, {Label: "Sedan", Value: 400}},
		},
	}

	if diff := cmp.Diff(want, charts); diff != "" {
		t.Errorf("yearly charts mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboard_Charts_Idempotent(t *testing.T) {
	d := newTestDashboard()

	selections := []models.Selection{
		{Report: models.ReportRecession},
		{Report: models.ReportYearly, Year: models.YearOf(2008)},
		{Report: models.ReportYearly, Year: models.YearOf(2009)},
	}

	for _, sel := range selections {
		first := d.Charts(sel)
		second := d.Charts(sel)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("charts for %+v changed between calls:\n%s", sel, diff)
		}
	}
}

func TestDashboard_Charts_BoundaryYears(t *testing.T) {
	d := newTestDashboard()

	for _, year := range []int{models.MinYear, models.MaxYear} {
		charts := d.Charts(models.Selection{Report: models.ReportYearly, Year: models.YearOf(year)})
		require.Len(t, charts, 4, "year %d", year)

		assert.Len(t, charts[0].Points, 2, "full-table chart should still have data")
		for _, c := range charts[1:] {
			assert.NotNil(t, c.Points, "points should be an empty slice, not nil")
			assert.Empty(t, c.Points)
			assert.NotEmpty(t, c.Title)
		}
	}
}

func TestDashboard_Charts_EmptyDataset(t *testing.T) {
	d := NewDashboard(nil, nil)

	charts := d.Charts(models.Selection{Report: models.ReportRecession})
	require.Len(t, charts, 4)
	for _, c := range charts {
		assert.Empty(t, c.Points)
	}
}

func TestDashboard_Stats(t *testing.T) {
	stats := newTestDashboard().Stats()

	assert.Equal(t, 6, stats.RecordCount)
	assert.Equal(t, 2008, stats.MinYear)
	assert.Equal(t, 2009, stats.MaxYear)
	assert.Equal(t, []string{"SUV", "Sedan"}, stats.VehicleTypes)
}

func TestGroupBy_SortsKeys(t *testing.T) {
	records := []models.SalesRecord{
		{Year: 2010, AutomobileSales: 1},
		{Year: 1990, AutomobileSales: 2},
		{Year: 2000, AutomobileSales: 3},
		{Year: 1990, AutomobileSales: 4},
	}

	got := GroupBy(records, byYear, automobileSales, Sum)
	want := []models.ChartPoint{
		{Label: "1990", Value: 6},
		{Label: "2000", Value: 3},
		{Label: "2010", Value: 1},
	}
	assert.Equal(t, want, got)
}

func TestGroupBy_SkipsBlankKeys(t *testing.T) {
	records := []models.SalesRecord{
		{Year: 2008, Month: "Jan", VehicleType: "Sedan", AutomobileSales: 10},
		{Year: 2008, Month: "", VehicleType: "", AutomobileSales: 99},
		{Year: 2008, Month: "Jan", VehicleType: "Sedan", AutomobileSales: 30},
	}

	byType := GroupBy(records, byVehicleType, automobileSales, Mean)
	assert.Equal(t, []models.ChartPoint{{Label: "Sedan", Value: 20}}, byType)

	byMon := GroupBy(records, byMonth, automobileSales, Sum)
	assert.Equal(t, []models.ChartPoint{{Label: "Jan", Value: 40}}, byMon)

	// Blank string cells still count toward groups keyed on other columns.
	byYr := GroupBy(records, byYear, automobileSales, Sum)
	assert.Equal(t, []models.ChartPoint{{Label: "2008", Value: 139}}, byYr)
}

func TestDashboard_Charts_BlankVehicleType(t *testing.T) {
	records := append(testRecords(), models.SalesRecord{
		Year: 2008, Month: "", Recession: 1, VehicleType: "", AutomobileSales: 1000, AdvertisingExpenditure: 1000,
	})
	d := NewDashboard(NewDataset(records), nil)

	charts := d.Charts(models.Selection{Report: models.ReportYearly, Year: models.YearOf(2008)})
	require.Len(t, charts, 4)
	for _, c := range charts[1:] {
		for _, p := range c.Points {
			assert.NotEmpty(t, p.Label, c.Title)
		}
	}
	assert.Equal(t, []string{"SUV", "Sedan"}, d.Stats().VehicleTypes)
}

func TestDashboard_ConcurrentAccess(t *testing.T) {
	d := newTestDashboard()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()
			_ = d.Charts(models.Selection{Report: models.ReportRecession})
			_ = d.Charts(models.Selection{Report: models.ReportYearly, Year: models.YearOf(2008)})
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func BenchmarkDashboard_YearlyCharts(b *testing.B) {
	records := make([]models.SalesRecord, 0, 1000)
	types := []string{"Sedan", "SUV", "Sports", "Executivecar", "Mediumfamilycar"}
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for i := 0; i < 1000; i++ {
		records = append(records, models.SalesRecord{
			Year:                   1980 + i%34,
			Month:                  months[i%12],
			Recession:              i % 2,
			VehicleType:            types[i%len(types)],
			AutomobileSales:        float64(i),
			AdvertisingExpenditure: float64(i * 3),
		})
	}
	d := NewDashboard(NewDataset(records), nil)
	sel := models.Selection{Report: models.ReportYearly, Year: models.YearOf(2000)}

	b.ResetTimer()
	for b.Loop() {
		_ = d.Charts(sel)
	}
}
