package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"barokah/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrRowNotFound means the booking code is not present in the sheet.
var ErrRowNotFound = errors.New("booking row not found")

// SheetsService mirrors bookings into the shop's spreadsheet so the owner
// can keep working in the sheet they are used to. Booking codes live in
// column A; the row cache avoids a full column scan per update.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[string]int
	cacheMu       sync.RWMutex
}

const bookingsRange = "Bookings"

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[string]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = service.WarmUpCache(ctx)
	}()

	return service, nil
}

// TestConnection reads one cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsRange+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// ServiceAccountEmail returns the service-account email, shown to the
// operator so they can share the spreadsheet with it.
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// WarmUpCache populates the row index cache by reading the code column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		code, ok := row[0].(string)
		if !ok {
			continue
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if strings.HasPrefix(code, models.BookingCodePrefix) {
			s.rowCache[code] = i + 1
		}
	}
	return nil
}

// AppendBooking adds a new booking row at the bottom of the sheet.
func (s *SheetsService) AppendBooking(ctx context.Context, detail *models.BookingDetail) error {
	if detail == nil {
		return fmt.Errorf("booking detail is nil")
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(detail)},
	}

	resp, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, bookingsRange+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	if resp.Updates != nil {
		if row, ok := rowFromRange(resp.Updates.UpdatedRange); ok {
			s.setCachedRow(detail.ID, row)
		}
	}
	return nil
}

// UpdateBookingStatus rewrites the status and updated-at cells for the
// booking's row.
func (s *SheetsService) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	rowIdx, err := s.FindBookingRow(ctx, bookingID)
	if err != nil {
		return err
	}

	statusRange := fmt.Sprintf("%s!H%d:H%d", bookingsRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return err
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	updatedRange := fmt.Sprintf("%s!L%d:L%d", bookingsRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, updatedRange, &sheets.ValueRange{
		Values: [][]interface{}{{now}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// FindBookingRow locates the 1-based row index for a booking code in
// column A, scanning the sheet on a cache miss.
func (s *SheetsService) FindBookingRow(ctx context.Context, bookingID string) (int, error) {
	code := strings.ToUpper(strings.TrimSpace(bookingID))
	if code == "" {
		return 0, fmt.Errorf("booking id is required")
	}

	if row, ok := s.getCachedRow(code); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && strings.EqualFold(strings.TrimSpace(v), code) {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(code, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

func bookingRowValues(detail *models.BookingDetail) []interface{} {
	return []interface{}{
		detail.ID,
		detail.Customer.Name,
		detail.Customer.Phone,
		detail.PrinterBrand + " " + detail.PrinterModel,
		detail.ProblemCategory,
		detail.ServiceType,
		detail.AppointmentDate + " " + detail.AppointmentTime,
		detail.Status,
		detail.Technician,
		detail.EstimatedCost,
		detail.CreatedAt.Format("2006-01-02 15:04:05"),
		time.Now().Format("2006-01-02 15:04:05"),
	}
}

// rowFromRange parses "Bookings!A10:L10" into 10.
func rowFromRange(updatedRange string) (int, bool) {
	_, ref, ok := strings.Cut(updatedRange, "!")
	if !ok {
		return 0, false
	}
	first, _, _ := strings.Cut(ref, ":")
	digits := strings.TrimLeft(first, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	var row int
	if _, err := fmt.Sscanf(digits, "%d", &row); err != nil || row <= 0 {
		return 0, false
	}
	return row, true
}

func (s *SheetsService) getCachedRow(code string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[code]
	return row, ok
}

func (s *SheetsService) setCachedRow(code string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[code] = row
}
