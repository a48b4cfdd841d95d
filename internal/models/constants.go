package models

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusServicing  = "servicing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusServicing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TimelineStage is one entry of the fixed lifecycle every booking is seeded
// with. Cancellation is a status value only and has no stage of its own.
type TimelineStage struct {
	Status      string
	Title       string
	Description string
}

// TimelineStages is the ordered five-stage lifecycle seeded at booking
// creation. Only the first stage is completed at that point.
var TimelineStages = []TimelineStage{
	{StatusPending, "Booking Diterima", "Booking Anda telah diterima dan sedang diproses"},
	{StatusConfirmed, "Booking Dikonfirmasi", "Teknisi telah ditugaskan dan akan datang sesuai jadwal"},
	{StatusInProgress, "Teknisi Dalam Perjalanan", "Teknisi sedang dalam perjalanan ke lokasi Anda"},
	{StatusServicing, "Sedang Diperbaiki", "Printer sedang dalam proses perbaikan"},
	{StatusCompleted, "Service Selesai", "Printer telah berhasil diperbaiki dan berfungsi normal"},
}

// TechnicianUnassigned is shown when a booking has no technician reference.
const TechnicianUnassigned = "Belum ditugaskan"

// DefaultServiceType is applied when the form leaves the service type empty.
const DefaultServiceType = "Antar ke Toko"

// DefaultEstimatedCost is the fallback range for unrecognized categories.
const DefaultEstimatedCost = "Rp 50.000 - 150.000"

// estimatedCostRanges maps problem category names to display-only cost ranges.
var estimatedCostRanges = map[string]string{
	"Masalah Pencetakan":          "Rp 50.000 - 150.000",
	"Masalah Cartridge / Head":    "Rp 75.000 - 200.000",
	"Masalah Kertas":              "Rp 30.000 - 120.000",
	"Masalah Internal":            "Rp 100.000 - 500.000",
	"Masalah Jaringan / Wireless": "Rp 50.000 - 120.000",
	"Masalah Software / Reset":    "Rp 75.000 - 200.000",
	"Masalah Fisik / Casing":      "Rp 50.000 - 350.000",
	"Masalah Scanner":             "Rp 70.000 - 250.000",
	"Masalah Fax":                 "Rp 50.000 - 120.000",
	"Masalah Maintenance":         "Rp 40.000 - 300.000",
}

// EstimatedCostFor returns the cost range for a problem category name.
func EstimatedCostFor(category string) string {
	if cost, ok := estimatedCostRanges[category]; ok {
		return cost
	}
	return DefaultEstimatedCost
}

const (
	// BookingCodePrefix prefixes every generated booking identifier.
	BookingCodePrefix = "BRK"

	// BookingCodeDigits is the number of digits after the prefix.
	BookingCodeDigits = 6
)
