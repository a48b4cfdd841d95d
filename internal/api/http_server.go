package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barokah/internal/config"
	"barokah/internal/domain"
	"barokah/internal/events"
	"barokah/internal/metrics"
	"barokah/internal/models"
	"barokah/internal/service"

	"github.com/rs/zerolog"
)

// Services bundles the business-layer dependencies of the HTTP server.
type Services struct {
	Bookings    domain.BookingService
	Catalog     domain.CatalogService
	Technicians domain.TechnicianService
	Gallery     domain.GalleryService
}

// HTTPServer is the single outward-facing surface: the public booking API,
// the admin API, the realtime event stream and the static frontend.
type HTTPServer struct {
	cfg      *config.Config
	services Services
	bus      *events.Bus
	server   *http.Server
	auth     *HTTPAuth
	static   *staticHandler
	logger   zerolog.Logger
}

func NewHTTPServer(cfg *config.Config, services Services, bus *events.Bus, logger *zerolog.Logger) *HTTPServer {
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "http").Logger()
	}

	srv := &HTTPServer{
		cfg:      cfg,
		services: services,
		bus:      bus,
		auth:     NewHTTPAuth(cfg.Auth),
		static:   newStaticHandler(cfg.Server.StaticDir),
		logger:   log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBooking)
	mux.HandleFunc("/api/v1/catalog", srv.handleCatalog)
	mux.HandleFunc("/api/v1/brands", srv.handleBrands)
	mux.HandleFunc("/api/v1/brands/", srv.handleBrand)
	mux.HandleFunc("/api/v1/models", srv.handleModels)
	mux.HandleFunc("/api/v1/models/", srv.handleModel)
	mux.HandleFunc("/api/v1/categories", srv.handleCategories)
	mux.HandleFunc("/api/v1/categories/", srv.handleCategory)
	mux.HandleFunc("/api/v1/problems", srv.handleProblems)
	mux.HandleFunc("/api/v1/problems/", srv.handleProblem)
	mux.HandleFunc("/api/v1/technicians", srv.handleTechnicians)
	mux.HandleFunc("/api/v1/technicians/", srv.handleTechnician)
	mux.HandleFunc("/api/v1/gallery", srv.handleGallery)
	mux.HandleFunc("/api/v1/gallery/", srv.handleGalleryImage)
	mux.HandleFunc("/api/v1/stats", srv.handleStats)
	mux.HandleFunc("/api/v1/export", srv.handleExport)
	mux.HandleFunc("/api/v1/events", srv.handleEvents)
	mux.HandleFunc("/api/", srv.handleAPINotFound)
	mux.HandleFunc("/", srv.static.ServeHTTP)

	handler := requestIDMiddleware(loggingMiddleware(log, srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return errors.New("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("health")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Barokah Printer API is running",
	})
}

// handleBookings covers POST (public submission) and GET (admin listing).
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodGet:
		metrics.IncHTTP("bookings_list")
		writeJSON(w, http.StatusOK, map[string]any{
			"bookings": s.services.Bookings.ListBookings(r.Context()),
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	var form bookingFormRequest
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	code, err := s.services.Bookings.CreateBooking(r.Context(), form.toModel())
	if err != nil {
		if errors.Is(err, service.ErrMissingContact) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("booking creation failed")
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, map[string]string{"booking_id": code})
}

// handleBooking routes /api/v1/bookings/{code} and its status, technician
// and cost sub-resources.
func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	code, sub, _ := strings.Cut(rest, "/")
	code = strings.TrimSpace(code)
	if code == "" {
		writeError(w, http.StatusBadRequest, "booking code is required")
		return
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.getBooking(w, r, code)
	case "status":
		s.updateBookingStatus(w, r, code)
	case "technician":
		s.assignTechnician(w, r, code)
	case "cost":
		s.setActualCost(w, r, code)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, code string) {
	metrics.IncHTTP("bookings_get")

	detail, err := s.services.Bookings.GetBooking(r.Context(), code)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", code).Msg("booking lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *HTTPServer) updateBookingStatus(w http.ResponseWriter, r *http.Request, code string) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_status")

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ok, err := s.services.Bookings.UpdateStatus(r.Context(), code, body.Status)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("booking_id", code).Msg("status update failed")
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	metrics.IncStatusTransition(body.Status)
	writeJSON(w, http.StatusOK, map[string]string{"booking_id": code, "status": body.Status})
}

func (s *HTTPServer) assignTechnician(w http.ResponseWriter, r *http.Request, code string) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_technician")

	var body struct {
		TechnicianID int64 `json:"technician_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TechnicianID <= 0 {
		writeError(w, http.StatusBadRequest, "technician_id is required")
		return
	}

	ok, err := s.services.Bookings.AssignTechnician(r.Context(), code, body.TechnicianID)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", code).Msg("technician assignment failed")
		writeError(w, http.StatusInternalServerError, "failed to assign technician")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking_id": code, "technician_id": body.TechnicianID})
}

func (s *HTTPServer) setActualCost(w http.ResponseWriter, r *http.Request, code string) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_cost")

	var body struct {
		ActualCost string `json:"actual_cost"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.ActualCost) == "" {
		writeError(w, http.StatusBadRequest, "actual_cost is required")
		return
	}

	ok, err := s.services.Bookings.SetActualCost(r.Context(), code, body.ActualCost)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", code).Msg("cost update failed")
		writeError(w, http.StatusInternalServerError, "failed to update cost")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"booking_id": code, "actual_cost": body.ActualCost})
}

// handleCatalog serves the combined reference payload the booking page
// loads in one request.
func (s *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("catalog")

	writeJSON(w, http.StatusOK, map[string]any{
		"brands":     s.services.Catalog.Brands(r.Context()),
		"categories": s.services.Catalog.ProblemCategories(r.Context()),
	})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("stats")

	writeJSON(w, http.StatusOK, s.services.Bookings.Stats(r.Context()))
}

func (s *HTTPServer) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// bookingFormRequest mirrors the public form payload.
type bookingFormRequest struct {
	CustomerName       string `json:"customer_name"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Address            string `json:"address"`
	PrinterBrand       string `json:"printer_brand"`
	PrinterModel       string `json:"printer_model"`
	ProblemCategory    string `json:"problem_category"`
	ProblemDescription string `json:"problem_description"`
	ServiceType        string `json:"service_type"`
	AppointmentDate    string `json:"appointment_date"`
	AppointmentTime    string `json:"appointment_time"`
	Notes              string `json:"notes"`
}

func (f bookingFormRequest) toModel() models.BookingForm {
	return models.BookingForm{
		CustomerName:       f.CustomerName,
		Phone:              f.Phone,
		Email:              f.Email,
		Address:            f.Address,
		PrinterBrand:       f.PrinterBrand,
		PrinterModel:       f.PrinterModel,
		ProblemCategory:    f.ProblemCategory,
		ProblemDescription: f.ProblemDescription,
		ServiceType:        f.ServiceType,
		AppointmentDate:    f.AppointmentDate,
		AppointmentTime:    f.AppointmentTime,
		Notes:              f.Notes,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// pathID extracts the numeric id from paths like /api/v1/brands/12.
func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if raw == "" || strings.Contains(raw, "/") {
		return 0, errors.New("invalid id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
