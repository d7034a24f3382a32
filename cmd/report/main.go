package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/export"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/report"
	"autosales-dashboard/internal/services"
)

type Params struct {
	Report string `descr:"Report type" alts:"yearly,recession" strict:"true"`
	Year   int    `descr:"Year for the yearly report (1980-2013)" optional:"true"`
	Source string `descr:"CSV file path or http(s) URL, overrides DATA_SOURCE" optional:"true"`
	Format string `descr:"Output format" alts:"table,markdown,csv" default:"table" strict:"true"`
	Xlsx   string `descr:"Also write the charts to this .xlsx file" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("autosales-report").
		WithShort("Print automobile sales report charts as tables").
		WithLong("Loads the historical automobile sales CSV and prints the four charts of the selected report, optionally exporting them to an Excel workbook.").
		WithRunFunc(func(params *Params) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params) error {
	sel, err := selection(params)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if params.Source != "" {
		cfg.Data.Source = params.Source
	}

	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	dataset, err := services.NewLoader(&http.Client{}, cfg.Data.ParseWorkers, logger).Load(ctx, cfg.Data.Source)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.Source, err)
	}

	specs := services.NewDashboard(dataset, logger).Charts(sel)

	if err := report.Print(os.Stdout, specs, report.Format(params.Format)); err != nil {
		return err
	}

	if params.Xlsx != "" {
		if err := writeWorkbook(params.Xlsx, sel, specs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", params.Xlsx)
	}
	return nil
}

func selection(params *Params) (models.Selection, error) {
	reportType, err := report.ParseReport(params.Report)
	if err != nil {
		return models.Selection{}, err
	}

	sel := models.Selection{Report: reportType}
	if params.Year != 0 {
		year, err := models.ParseYearSelection(fmt.Sprint(params.Year))
		if err != nil {
			return models.Selection{}, err
		}
		sel.Year = year
	}

	if sel.Report == models.ReportYearly && !sel.Year.Valid {
		return models.Selection{}, fmt.Errorf("--year is required for the yearly report")
	}
	return sel, nil
}

func writeWorkbook(path string, sel models.Selection, specs []models.ChartSpec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteWorkbook(f, sel, specs, time.Now())
}
