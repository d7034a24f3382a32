package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"autosales-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const rowsPerTask = 256

var requiredColumns = []string{
	"Year",
	"Month",
	"Recession",
	"Advertising_Expenditure",
	"Automobile_Sales",
	"Vehicle_Type",
}

var dateLayouts = []string{"1/2/2006", "2006-01-02", "01/02/2006"}

// FetchError reports a non-2xx response from the dataset source.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// Dataset is the loaded sales table. It is never mutated after construction.
type Dataset struct {
	records      []models.SalesRecord
	source       string
	loadedAt     time.Time
	loadDuration time.Duration
}

func NewDataset(records []models.SalesRecord) *Dataset {
	return &Dataset{
		records:  slices.Clone(records),
		loadedAt: time.Now(),
	}
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Source() string {
	return d.source
}

// Records returns a copy of the table.
func (d *Dataset) Records() []models.SalesRecord {
	return slices.Clone(d.records)
}

func (d *Dataset) Stats() models.DatasetStats {
	stats := models.DatasetStats{
		Source:       d.source,
		RecordCount:  len(d.records),
		LoadDuration: d.loadDuration,
		LoadedAt:     d.loadedAt,
		VehicleTypes: []string{},
	}

	seen := make(map[string]bool)
	for i, r := range d.records {
		if i == 0 || r.Year < stats.MinYear {
			stats.MinYear = r.Year
		}
		if i == 0 || r.Year > stats.MaxYear {
			stats.MaxYear = r.Year
		}
		if r.VehicleType != "" && !seen[r.VehicleType] {
			seen[r.VehicleType] = true
			stats.VehicleTypes = append(stats.VehicleTypes, r.VehicleType)
		}
	}
	slices.Sort(stats.VehicleTypes)
	return stats
}

type Loader struct {
	client  *http.Client
	workers int
	logger  *slog.Logger
}

func NewLoader(client *http.Client, workers int, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client:  client,
		workers: workers,
		logger:  logger,
	}
}

// Load reads the table from an http(s) URL or a local file path.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	start := time.Now()
	l.logger.Info("loading dataset", "source", source)

	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	records, err := ParseCSV(ctx, body, l.workers)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	ds := NewDataset(records)
	ds.source = source
	ds.loadDuration = time.Since(start)

	l.logger.Info("dataset loaded",
		"records", ds.Len(),
		"duration", ds.loadDuration,
	)
	return ds, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

type columnIndex map[string]int

func (c columnIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseCSV parses the sales table, keeping row order. Columns are located
// by header name.
func ParseCSV(ctx context.Context, r io.Reader, workers int) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(columnIndex, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no records found")
	}

	records := make([]models.SalesRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for start := 0; start < len(rows); start += rowsPerTask {
		end := min(start+rowsPerTask, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(columns, rows[i])
				if err != nil {
					// header is line 1
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseRecord(columns columnIndex, row []string) (models.SalesRecord, error) {
	var rec models.SalesRecord
	var err error

	if rec.Year, err = strconv.Atoi(columns.get(row, "Year")); err != nil {
		return rec, fmt.Errorf("column Year: %w", err)
	}
	if rec.Recession, err = strconv.Atoi(columns.get(row, "Recession")); err != nil {
		return rec, fmt.Errorf("column Recession: %w", err)
	}
	if rec.AutomobileSales, err = strconv.ParseFloat(columns.get(row, "Automobile_Sales"), 64); err != nil {
		return rec, fmt.Errorf("column Automobile_Sales: %w", err)
	}
	if rec.AdvertisingExpenditure, err = strconv.ParseFloat(columns.get(row, "Advertising_Expenditure"), 64); err != nil {
		return rec, fmt.Errorf("column Advertising_Expenditure: %w", err)
	}

	rec.Month = columns.get(row, "Month")
	rec.VehicleType = columns.get(row, "Vehicle_Type")
	rec.City = columns.get(row, "City")
	rec.Date = parseDate(columns.get(row, "Date"))

	rec.ConsumerConfidence = parseOptionalFloat(columns.get(row, "Consumer_Confidence"))
	rec.SeasonalityWeight = parseOptionalFloat(columns.get(row, "Seasonality_Weight"))
	rec.Price = parseOptionalFloat(columns.get(row, "Price"))
	rec.Competition = parseOptionalFloat(columns.get(row, "Competition"))
	rec.GDP = parseOptionalFloat(columns.get(row, "GDP"))
	rec.GrowthRate = parseOptionalFloat(columns.get(row, "Growth_Rate"))
	rec.UnemploymentRate = parseOptionalFloat(columns.get(row, "unemployment_rate"))

	return rec, nil
}

func parseOptionalFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
