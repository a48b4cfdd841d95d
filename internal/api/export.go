package api

import (
	"fmt"
	"net/http"
	"time"

	"barokah/internal/export"
	"barokah/internal/metrics"
	"barokah/internal/models"
)

// handleExport streams the bookings report as an xlsx download. Optional
// ?from= and ?to= (YYYY-MM-DD) narrow the report by creation date; with
// ?save=1 a copy is also written to the configured exports directory.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("export")

	details := s.services.Bookings.ListBookings(r.Context())
	details, err := filterByDateRange(details, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats := export.Summarize(details)

	if r.URL.Query().Get("save") == "1" {
		path, err := export.SaveReport(s.cfg.Exports.Path, details, stats)
		if err != nil {
			s.logger.Error().Err(err).Msg("export save failed")
		} else {
			s.logger.Info().Str("file_path", path).Msg("export saved")
		}
	}

	f, err := export.BookingsWorkbook(details, stats)
	if err != nil {
		s.logger.Error().Err(err).Msg("export build failed")
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("export write failed")
	}
}

// filterByDateRange keeps bookings created within [from, to]. Empty bounds
// are open; to is inclusive through the end of its day.
func filterByDateRange(details []models.BookingDetail, from, to string) ([]models.BookingDetail, error) {
	if from == "" && to == "" {
		return details, nil
	}

	var fromTime, toTime time.Time
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %s", from)
		}
		fromTime = parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date: %s", to)
		}
		toTime = parsed.AddDate(0, 0, 1)
	}

	filtered := make([]models.BookingDetail, 0, len(details))
	for _, d := range details {
		if !fromTime.IsZero() && d.CreatedAt.Before(fromTime) {
			continue
		}
		if !toTime.IsZero() && !d.CreatedAt.Before(toTime) {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered, nil
}
