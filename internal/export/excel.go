package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"barokah/internal/models"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Booking"

// BookingsWorkbook builds the admin report: one row per booking plus a
// summary block with totals per status and the revenue sum.
func BookingsWorkbook(details []models.BookingDetail, stats models.DashboardStats) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Kode Booking", "Pelanggan", "Telepon", "Printer", "Masalah",
		"Jenis Layanan", "Jadwal", "Status", "Teknisi", "Estimasi Biaya", "Biaya Akhir", "Dibuat",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i, d := range details {
		row := i + 2
		printer := d.PrinterBrand
		if d.PrinterModel != "" {
			printer += " " + d.PrinterModel
		}
		schedule := d.AppointmentDate
		if d.AppointmentTime != "" {
			schedule += " " + d.AppointmentTime
		}

		values := []any{
			d.ID, d.Customer.Name, d.Customer.Phone, printer, d.ProblemCategory,
			d.ServiceType, schedule, d.Status, d.Technician, d.EstimatedCost, d.ActualCost,
			d.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, value)
		}
	}

	writeSummary(f, len(details)+3, stats)

	_ = f.SetColWidth(bookingsSheet, "A", "A", 12)
	_ = f.SetColWidth(bookingsSheet, "B", "E", 22)
	_ = f.SetColWidth(bookingsSheet, "F", "L", 18)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

func writeSummary(f *excelize.File, startRow int, stats models.DashboardStats) {
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	cell, _ := excelize.CoordinatesToCellName(1, startRow)
	_ = f.SetCellValue(bookingsSheet, cell, "Ringkasan")
	_ = f.SetCellStyle(bookingsSheet, cell, cell, boldStyle)

	row := startRow + 1
	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), "Total booking")
	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), stats.TotalBookings)
	row++

	for _, status := range []string{
		models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
		models.StatusServicing, models.StatusCompleted, models.StatusCancelled,
	} {
		if count, ok := stats.ByStatus[status]; ok {
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), status)
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), count)
			row++
		}
	}

	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), "Pendapatan (Rp)")
	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), stats.Revenue)
}

// Summarize builds the report's summary numbers from the exported rows so
// the Ringkasan block always matches them. Revenue sums completed bookings'
// actual costs with non-digits stripped.
func Summarize(details []models.BookingDetail) models.DashboardStats {
	stats := models.DashboardStats{ByStatus: make(map[string]int64)}
	for _, d := range details {
		stats.ByStatus[d.Status]++
		stats.TotalBookings++
		if d.Status == models.StatusCompleted {
			stats.Revenue += digitsOf(d.ActualCost)
		}
	}
	return stats
}

func digitsOf(raw string) int64 {
	var n int64
	seen := false
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			n = n*10 + int64(r-'0')
			seen = true
		}
	}
	if !seen {
		return 0
	}
	return n
}

// SaveReport writes the workbook into dir with a timestamped name and
// returns the full path.
func SaveReport(dir string, details []models.BookingDetail, stats models.DashboardStats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := BookingsWorkbook(details, stats)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}
	return filePath, nil
}
