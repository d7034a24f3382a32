package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 1980
	MaxYear = 2013
)

// SalesRecord is one row of the historical automobile sales table.
type SalesRecord struct {
	Date                   time.Time
	Year                   int
	Month                  string
	Recession              int
	ConsumerConfidence     float64
	SeasonalityWeight      float64
	Price                  float64
	AdvertisingExpenditure float64
	Competition            float64
	GDP                    float64
	GrowthRate             float64
	UnemploymentRate       float64
	AutomobileSales        float64
	VehicleType            string
	City                   string
}

type ReportType string

const (
	ReportUnset     ReportType = ""
	ReportYearly    ReportType = "Yearly Statistics"
	ReportRecession ReportType = "Recession Period Statistics"
)

// ReportTypes lists the selectable report types in dropdown order.
var ReportTypes = []ReportType{ReportYearly, ReportRecession}

func ParseReportType(s string) (ReportType, error) {
	switch ReportType(strings.TrimSpace(s)) {
	case ReportUnset:
		return ReportUnset, nil
	case ReportYearly:
		return ReportYearly, nil
	case ReportRecession:
		return ReportRecession, nil
	}
	return ReportUnset, fmt.Errorf("unknown report type %q", s)
}

// YearSelection is an optional year. The zero value is unset.
type YearSelection struct {
	Year  int
	Valid bool
}

func YearOf(year int) YearSelection {
	return YearSelection{Year: year, Valid: true}
}

func ParseYearSelection(s string) (YearSelection, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return YearSelection{}, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return YearSelection{}, fmt.Errorf("invalid year %q: %w", s, err)
	}
	if year < MinYear || year > MaxYear {
		return YearSelection{}, fmt.Errorf("year %d outside %d-%d", year, MinYear, MaxYear)
	}
	return YearOf(year), nil
}

// UnmarshalJSON accepts a number, a numeric string, "" or null.
func (y *YearSelection) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*y = YearSelection{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := ParseYearSelection(raw)
	if err != nil {
		return err
	}
	*y = parsed
	return nil
}

func (y YearSelection) MarshalJSON() ([]byte, error) {
	if !y.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(y.Year)), nil
}

func (y YearSelection) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Year)
}

// Selection is the pair of dropdown values driving the chart grid.
type Selection struct {
	Report ReportType    `json:"report"`
	Year   YearSelection `json:"year"`
}

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSpec describes one chart. Line and bar charts use XField/YField;
// pie charts use NamesField/ValuesField.
type ChartSpec struct {
	Kind        ChartKind    `json:"kind"`
	Title       string       `json:"title"`
	XField      string       `json:"x_field,omitempty"`
	YField      string       `json:"y_field,omitempty"`
	NamesField  string       `json:"names_field,omitempty"`
	ValuesField string       `json:"values_field,omitempty"`
	Points      []ChartPoint `json:"points"`
}

// DatasetStats summarises the loaded table for monitoring.
type DatasetStats struct {
	Source       string        `json:"source"`
	RecordCount  int           `json:"record_count"`
	MinYear      int           `json:"min_year"`
	MaxYear      int           `json:"max_year"`
	VehicleTypes []string      `json:"vehicle_types"`
	LoadDuration time.Duration `json:"load_duration"`
	LoadedAt     time.Time     `json:"loaded_at"`
}
