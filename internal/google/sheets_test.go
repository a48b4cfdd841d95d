package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barokah/internal/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func setupMockServer(ctx context.Context) (*http.ServeMux, *httptest.Server, *SheetsService) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	srv, _ := sheets.NewService(ctx, option.WithEndpoint(server.URL), option.WithoutAuthentication())
	s := &SheetsService{
		service:       srv,
		spreadsheetID: "sheet_tid",
		rowCache:      make(map[string]int),
	}
	return mux, server, s
}

func TestSheetsService_TestConnection(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!A1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"Kode"}}})
	})
	if err := s.TestConnection(ctx); err != nil {
		t.Errorf("TestConnection failed: %v", err)
	}
}

func TestSheetsService_WarmUpCache(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{
			Values: [][]interface{}{{"Kode Booking"}, {"BRK100001"}, {"brk100002"}, {}, {"summary"}},
		})
	})
	if err := s.WarmUpCache(ctx); err != nil {
		t.Errorf("WarmUpCache failed: %v", err)
	}
	if row, ok := s.getCachedRow("BRK100001"); !ok || row != 2 {
		t.Errorf("Expected row 2 for BRK100001, got %d", row)
	}
	if row, ok := s.getCachedRow("BRK100002"); !ok || row != 3 {
		t.Errorf("Expected lowercase codes to be normalized, got %d", row)
	}
	if _, ok := s.getCachedRow("SUMMARY"); ok {
		t.Error("Expected non-booking rows to be skipped")
	}
}

func TestSheetsService_AppendBooking(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!A:A:append", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.AppendValuesResponse{
			Updates: &sheets.UpdateValuesResponse{
				UpdatedRange: "Bookings!A10:L10",
			},
		})
	})
	detail := &models.BookingDetail{
		ID:        "BRK100789",
		Customer:  models.Customer{Name: "Andi Wijaya", Phone: "081234567890"},
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.AppendBooking(ctx, detail); err != nil {
		t.Errorf("AppendBooking failed: %v", err)
	}
	if row, _ := s.getCachedRow("BRK100789"); row != 10 {
		t.Errorf("Expected cached row 10, got %d", row)
	}
}

func TestSheetsService_AppendBooking_Nil(t *testing.T) {
	ctx := context.Background()
	_, server, s := setupMockServer(ctx)
	defer server.Close()
	if err := s.AppendBooking(ctx, nil); err == nil {
		t.Error("Expected error for nil detail")
	}
}

func TestSheetsService_UpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	s.setCachedRow("BRK100123", 2)
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!H2:H2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!L2:L2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})
	if err := s.UpdateBookingStatus(ctx, "brk100123", models.StatusConfirmed); err != nil {
		t.Errorf("UpdateBookingStatus failed: %v", err)
	}
}

func TestSheetsService_FindBookingRow_FullScan(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{
			Values: [][]interface{}{{"Kode Booking"}, {"BRK100999"}},
		})
	})
	row, err := s.FindBookingRow(ctx, "BRK100999")
	if err != nil {
		t.Errorf("FindBookingRow failed: %v", err)
	}
	if row != 2 {
		t.Errorf("Expected row 2, got %d", row)
	}
	if row, _ := s.getCachedRow("BRK100999"); row != 2 {
		t.Errorf("Expected scan result to be cached, got %d", row)
	}
}

func TestSheetsService_FindBookingRow_NotFound(t *testing.T) {
	ctx := context.Background()
	mux, server, s := setupMockServer(ctx)
	defer server.Close()
	mux.HandleFunc("/v4/spreadsheets/sheet_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"Kode Booking"}}})
	})
	if _, err := s.FindBookingRow(ctx, "BRK100000"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("Expected ErrRowNotFound, got %v", err)
	}
}

func TestRowFromRange(t *testing.T) {
	tests := []struct {
		in  string
		row int
		ok  bool
	}{
		{"Bookings!A10:L10", 10, true},
		{"Bookings!A2", 2, true},
		{"no-bang", 0, false},
		{"Bookings!AB", 0, false},
	}
	for _, tc := range tests {
		row, ok := rowFromRange(tc.in)
		if row != tc.row || ok != tc.ok {
			t.Errorf("rowFromRange(%q) = %d, %v; want %d, %v", tc.in, row, ok, tc.row, tc.ok)
		}
	}
}
