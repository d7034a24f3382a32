// Package report prints chart data as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"autosales-dashboard/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseReport maps the short command line names onto report types.
func ParseReport(s string) (models.ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly":
		return models.ReportYearly, nil
	case "recession":
		return models.ReportRecession, nil
	}
	return models.ParseReportType(s)
}

// Print writes one table per chart. An empty chart list prints a notice.
func Print(w io.Writer, specs []models.ChartSpec, format Format) error {
	if len(specs) == 0 {
		_, err := fmt.Fprintln(w, "No charts for this selection.")
		return err
	}

	for i, spec := range specs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := printChart(w, spec, format); err != nil {
			return err
		}
	}
	return nil
}

func printChart(w io.Writer, spec models.ChartSpec, format Format) error {
	labelField, valueField := spec.XField, spec.YField
	if spec.Kind == models.ChartPie {
		labelField, valueField = spec.NamesField, spec.ValuesField
	}

	var titlePrefix string
	switch format {
	case FormatTable, "":
	case FormatMarkdown:
		titlePrefix = "### "
	case FormatCSV:
		titlePrefix = "# "
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	// go-pretty wraps titles to the table width, so the title goes on its
	// own line.
	if _, err := fmt.Fprintf(w, "%s%s (%s)\n", titlePrefix, spec.Title, spec.Kind); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{labelField, valueField})

	var total float64
	for _, p := range spec.Points {
		t.AppendRow(table.Row{p.Label, fmt.Sprintf("%.2f", p.Value)})
		total += p.Value
	}
	if len(spec.Points) == 0 {
		noData := "no data"
		if format == FormatTable || format == "" {
			noData = text.FgHiBlack.Sprint(noData)
		}
		t.AppendRow(table.Row{noData, ""})
	}
	if spec.Kind == models.ChartPie && len(spec.Points) > 0 {
		t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f", total)})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	switch format {
	case FormatMarkdown:
		t.RenderMarkdown()
	case FormatCSV:
		t.RenderCSV()
	default:
		t.Render()
	}
	return nil
}
