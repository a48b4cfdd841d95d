package api

import (
	"net/http"
	"strings"

	"barokah/internal/metrics"
	"barokah/internal/models"
)

// Admin CRUD over the reference tables. Deletes are soft everywhere:
// rows are deactivated so existing bookings keep their references.

func (s *HTTPServer) handleBrands(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("brands")
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"brands": s.services.Catalog.Brands(r.Context())})
	case http.MethodPost:
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		brand, err := s.services.Catalog.CreateBrand(r.Context(), body.Name)
		if err != nil {
			s.logger.Error().Err(err).Msg("brand creation failed")
			writeError(w, http.StatusInternalServerError, "failed to create brand")
			return
		}
		writeJSON(w, http.StatusCreated, brand)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBrand(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("brands")
	id, err := pathID(r.URL.Path, "/api/v1/brands/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		s.respondMutation(w, "brand update", s.services.Catalog.UpdateBrand(r.Context(), id, body.Name))
	case http.MethodDelete:
		s.respondMutation(w, "brand delete", s.services.Catalog.DeleteBrand(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleModels(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("models")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		BrandID int64  `json:"brand_id"`
		Name    string `json:"name"`
		Type    string `json:"type"`
	}
	if err := decodeJSON(r, &body); err != nil || body.BrandID <= 0 || strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "brand_id and name are required")
		return
	}

	model, err := s.services.Catalog.CreateModel(r.Context(), body.BrandID, body.Name, body.Type)
	if err != nil {
		s.logger.Error().Err(err).Msg("model creation failed")
		writeError(w, http.StatusInternalServerError, "failed to create model")
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

func (s *HTTPServer) handleModel(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("models")
	id, err := pathID(r.URL.Path, "/api/v1/models/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		s.respondMutation(w, "model update", s.services.Catalog.UpdateModel(r.Context(), id, body.Name, body.Type))
	case http.MethodDelete:
		s.respondMutation(w, "model delete", s.services.Catalog.DeleteModel(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("categories")
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"categories": s.services.Catalog.ProblemCategories(r.Context())})
	case http.MethodPost:
		var body struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		category, err := s.services.Catalog.CreateProblemCategory(r.Context(), body.Name, body.Icon)
		if err != nil {
			s.logger.Error().Err(err).Msg("category creation failed")
			writeError(w, http.StatusInternalServerError, "failed to create category")
			return
		}
		writeJSON(w, http.StatusCreated, category)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCategory(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("categories")
	id, err := pathID(r.URL.Path, "/api/v1/categories/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		s.respondMutation(w, "category update", s.services.Catalog.UpdateProblemCategory(r.Context(), id, body.Name, body.Icon))
	case http.MethodDelete:
		s.respondMutation(w, "category delete", s.services.Catalog.DeleteProblemCategory(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleProblems(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("problems")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var problem models.Problem
	if err := decodeJSON(r, &problem); err != nil || problem.CategoryID <= 0 || strings.TrimSpace(problem.Name) == "" {
		writeError(w, http.StatusBadRequest, "category_id and name are required")
		return
	}

	if err := s.services.Catalog.CreateProblem(r.Context(), &problem); err != nil {
		s.logger.Error().Err(err).Msg("problem creation failed")
		writeError(w, http.StatusInternalServerError, "failed to create problem")
		return
	}
	writeJSON(w, http.StatusCreated, problem)
}

func (s *HTTPServer) handleProblem(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("problems")
	id, err := pathID(r.URL.Path, "/api/v1/problems/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var problem models.Problem
		if err := decodeJSON(r, &problem); err != nil || strings.TrimSpace(problem.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		problem.ID = id
		s.respondMutation(w, "problem update", s.services.Catalog.UpdateProblem(r.Context(), &problem))
	case http.MethodDelete:
		s.respondMutation(w, "problem delete", s.services.Catalog.DeleteProblem(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("technicians")
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"technicians": s.services.Technicians.Technicians(r.Context())})
	case http.MethodPost:
		var technician models.Technician
		if err := decodeJSON(r, &technician); err != nil || strings.TrimSpace(technician.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.services.Technicians.CreateTechnician(r.Context(), &technician); err != nil {
			s.logger.Error().Err(err).Msg("technician creation failed")
			writeError(w, http.StatusInternalServerError, "failed to create technician")
			return
		}
		writeJSON(w, http.StatusCreated, technician)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTechnician(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("technicians")
	id, err := pathID(r.URL.Path, "/api/v1/technicians/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var technician models.Technician
		if err := decodeJSON(r, &technician); err != nil || strings.TrimSpace(technician.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		technician.ID = id
		s.respondMutation(w, "technician update", s.services.Technicians.UpdateTechnician(r.Context(), &technician))
	case http.MethodDelete:
		s.respondMutation(w, "technician delete", s.services.Technicians.DeleteTechnician(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGallery(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("gallery")
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"images": s.services.Gallery.Images(r.Context())})
	case http.MethodPost:
		var image models.GalleryImage
		if err := decodeJSON(r, &image); err != nil || strings.TrimSpace(image.ImageURL) == "" {
			writeError(w, http.StatusBadRequest, "image_url is required")
			return
		}
		if err := s.services.Gallery.CreateImage(r.Context(), &image); err != nil {
			s.logger.Error().Err(err).Msg("gallery image creation failed")
			writeError(w, http.StatusInternalServerError, "failed to create gallery image")
			return
		}
		writeJSON(w, http.StatusCreated, image)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGalleryImage(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("gallery")
	id, err := pathID(r.URL.Path, "/api/v1/gallery/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var image models.GalleryImage
		if err := decodeJSON(r, &image); err != nil || strings.TrimSpace(image.ImageURL) == "" {
			writeError(w, http.StatusBadRequest, "image_url is required")
			return
		}
		image.ID = id
		s.respondMutation(w, "gallery image update", s.services.Gallery.UpdateImage(r.Context(), &image))
	case http.MethodDelete:
		s.respondMutation(w, "gallery image delete", s.services.Gallery.DeleteImage(r.Context(), id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) respondMutation(w http.ResponseWriter, op string, err error) {
	if err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("mutation failed")
		writeError(w, http.StatusInternalServerError, "operation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
