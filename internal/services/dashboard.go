package services

import (
	"fmt"
	"log/slog"

	"autosales-dashboard/internal/models"
)

const (
	fieldYear                   = "Year"
	fieldMonth                  = "Month"
	fieldVehicleType            = "Vehicle_Type"
	fieldAutomobileSales        = "Automobile_Sales"
	fieldAdvertisingExpenditure = "Advertising_Expenditure"
)

// YearSelectorDisabled reports whether the year dropdown is disabled for
// the given report type.
func YearSelectorDisabled(report models.ReportType) bool {
	return report != models.ReportYearly
}

// Dashboard owns the read-only sales table and computes chart grids from it.
type Dashboard struct {
	data   *Dataset
	logger *slog.Logger
}

func NewDashboard(data *Dataset, logger *slog.Logger) *Dashboard {
	if data == nil {
		data = NewDataset(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		data:   data,
		logger: logger,
	}
}

func (d *Dashboard) YearSelectorDisabled(report models.ReportType) bool {
	return YearSelectorDisabled(report)
}

// Charts returns the four charts for a selection, or nil when the
// selection is incomplete.
func (d *Dashboard) Charts(sel models.Selection) []models.ChartSpec {
	switch {
	case sel.Report == models.ReportRecession:
		return d.recessionCharts()
	case sel.Report == models.ReportYearly && sel.Year.Valid:
		return d.yearlyCharts(sel.Year.Year)
	default:
		return nil
	}
}

func (d *Dashboard) Stats() models.DatasetStats {
	return d.data.Stats()
}

func (d *Dashboard) recessionCharts() []models.ChartSpec {
	recession := Filter(d.data.records, func(r models.SalesRecord) bool {
		return r.Recession == 1
	})

	d.logger.Debug("computing recession charts", "rows", len(recession))

	return []models.ChartSpec{
		lineChart("Average Automobile Sales Fluctuation Over Recession Period", fieldYear,
			GroupBy(recession, byYear, automobileSales, Mean)),
		barChart("Average Number of Vehicles Sold by Vehicle Type",
			GroupBy(recession, byVehicleType, automobileSales, Mean)),
		pieChart("Total Expenditure Share by Vehicle Type During Recessions",
			GroupBy(recession, byVehicleType, advertisingExpenditure, Sum)),
		// Same aggregation as the second chart despite the title; kept so
		// output matches the original dashboard.
		barChart("Effect of Unemployment Rate on Vehicle Type and Sales",
			GroupBy(recession, byVehicleType, automobileSales, Mean)),
	}
}

func (d *Dashboard) yearlyCharts(year int) []models.ChartSpec {
	yearly := Filter(d.data.records, func(r models.SalesRecord) bool {
		return r.Year == year
	})

	d.logger.Debug("computing yearly charts", "year", year, "rows", len(yearly))

	return []models.ChartSpec{
		lineChart("Yearly Average Automobile Sales", fieldYear,
			GroupBy(d.data.records, byYear, automobileSales, Mean)),
		lineChart(fmt.Sprintf("Total Monthly Automobile Sales in %d", year), fieldMonth,
			GroupBy(yearly, byMonth, automobileSales, Sum)),
		barChart(fmt.Sprintf("Average Vehicles Sold by Vehicle Type in %d", year),
			GroupBy(yearly, byVehicleType, automobileSales, Mean)),
		pieChart(fmt.Sprintf("Total Advertisement Expenditure for Each Vehicle in %d", year),
			GroupBy(yearly, byVehicleType, advertisingExpenditure, Sum)),
	}
}

func lineChart(title, xField string, points []models.ChartPoint) models.ChartSpec {
	return models.ChartSpec{
		Kind:   models.ChartLine,
		Title:  title,
		XField: xField,
		YField: fieldAutomobileSales,
		Points: points,
	}
}

func barChart(title string, points []models.ChartPoint) models.ChartSpec {
	return models.ChartSpec{
		Kind:   models.ChartBar,
		Title:  title,
		XField: fieldVehicleType,
		YField: fieldAutomobileSales,
		Points: points,
	}
}

func pieChart(title string, points []models.ChartPoint) models.ChartSpec {
	return models.ChartSpec{
		Kind:        models.ChartPie,
		Title:       title,
		NamesField:  fieldVehicleType,
		ValuesField: fieldAdvertisingExpenditure,
		Points:      points,
	}
}
