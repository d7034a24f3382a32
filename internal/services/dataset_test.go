package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Date,Year,Month,Recession,Consumer_Confidence,Seasonality_Weight,Price,Advertising_Expenditure,Competition,GDP,Growth_Rate,unemployment_rate,Automobile_Sales,Vehicle_Type,City
1/31/1980,1980,Jan,1,108.24,0.5,27483.571,1558,7,60.223,0.01,5.4,456,Supperminicar,Georgia
2/29/1980,1980,Feb,1,98.75,0.75,24308.678,3048,4,45.986,-0.309,4.8,555.9,Supperminicar,New York
3/31/1980,1980,Mar,1,107.48,0.2,28238.443,3137,3,35.141,-0.757,3.4,620,Mediumfamilycar,New York
1/31/1981,1981,Jan,0,115.2,1,26000,2500,5,50,0.2,2.1,1000.5,Sports,California`

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestParseCSV_ValidData(t *testing.T) {
	records, err := ParseCSV(context.Background(), strings.NewReader(sampleCSV), 4)
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	first := records[0]
	if first.Year != 1980 || first.Month != "Jan" || first.Recession != 1 {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.AutomobileSales != 456 || first.AdvertisingExpenditure != 1558 {
		t.Errorf("unexpected first record values: %+v", first)
	}
	if first.VehicleType != "Supperminicar" || first.City != "Georgia" {
		t.Errorf("unexpected first record labels: %+v", first)
	}
	if first.UnemploymentRate != 5.4 {
		t.Errorf("expected unemployment rate 5.4, got %v", first.UnemploymentRate)
	}
	if !first.Date.Equal(time.Date(1980, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", first.Date)
	}

	// order must follow the file
	if records[3].Year != 1981 || records[3].VehicleType != "Sports" {
		t.Errorf("unexpected last record: %+v", records[3])
	}
}

func TestParseCSV_PreservesOrderAcrossWorkers(t *testing.T) {
	var b strings.Builder
	b.WriteString("Year,Month,Recession,Advertising_Expenditure,Automobile_Sales,Vehicle_Type\n")
	const rows = rowsPerTask*3 + 17
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,Jan,0,1,%d,Sedan\n", 1980+i%34, i)
	}

	records, err := ParseCSV(context.Background(), strings.NewReader(b.String()), 8)
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(records) != rows {
		t.Fatalf("expected %d records, got %d", rows, len(records))
	}
	for i, r := range records {
		if r.AutomobileSales != float64(i) {
			t.Fatalf("record %d out of order: sales=%v", i, r.AutomobileSales)
		}
	}
}

func TestParseCSV_InvalidData(t *testing.T) {
	header := "Year,Month,Recession,Advertising_Expenditure,Automobile_Sales,Vehicle_Type"

	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: "empty file",
		},
		{
			name:    "header only",
			csv:     header,
			wantErr: "no records found",
		},
		{
			name:    "missing column",
			csv:     "Year,Month,Recession,Automobile_Sales,Vehicle_Type\n1980,Jan,0,10,Sedan",
			wantErr: "Advertising_Expenditure",
		},
		{
			name:    "invalid year",
			csv:     header + "\nnineteen,Jan,0,1,10,Sedan",
			wantErr: "line 2: column Year",
		},
		{
			name:    "invalid sales",
			csv:     header + "\n1980,Jan,0,1,10,Sedan\n1980,Feb,0,1,lots,Sedan",
			wantErr: "line 3: column Automobile_Sales",
		},
		{
			name:    "invalid recession flag",
			csv:     header + "\n1980,Jan,maybe,1,10,Sedan",
			wantErr: "column Recession",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(context.Background(), strings.NewReader(tt.csv), 2)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	f := createTempCSV(t, sampleCSV)

	ds, err := NewLoader(nil, 2, nil).Load(context.Background(), f)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Len() != 4 {
		t.Errorf("expected 4 records, got %d", ds.Len())
	}
	if ds.Source() != f {
		t.Errorf("expected source %q, got %q", f, ds.Source())
	}

	stats := ds.Stats()
	if stats.MinYear != 1980 || stats.MaxYear != 1981 {
		t.Errorf("unexpected year range %d-%d", stats.MinYear, stats.MaxYear)
	}
	if len(stats.VehicleTypes) != 3 {
		t.Errorf("expected 3 vehicle types, got %v", stats.VehicleTypes)
	}
}

func TestLoader_LoadFromFile_Missing(t *testing.T) {
	_, err := NewLoader(nil, 2, nil).Load(context.Background(), "/does/not/exist.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoader_LoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	ds, err := NewLoader(srv.Client(), 2, nil).Load(context.Background(), srv.URL+"/sales.csv")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 4 {
		t.Errorf("expected 4 records, got %d", ds.Len())
	}
}

func TestLoader_LoadFromURL_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(srv.Client(), 2, nil).Load(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
	}
}

func TestLoader_LoadFromURL_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader(srv.Client(), 2, nil).Load(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestDataset_RecordsIsCopy(t *testing.T) {
	ds := NewDataset(testRecords())

	records := ds.Records()
	records[0].AutomobileSales = -1

	if ds.Records()[0].AutomobileSales == -1 {
		t.Error("Records() should not expose the underlying table")
	}
}
