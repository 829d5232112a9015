package service

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/agrovista/lactoprofile/internal/extraction"
	"github.com/agrovista/lactoprofile/internal/store"
)

// maxUploadBytes caps diet report uploads; real reports are a few hundred
// kilobytes, scans a few megabytes per page.
const maxUploadBytes = 50 << 20

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Router builds the HTTP API.
func (s *DietService) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Route("/diets", func(r chi.Router) {
			r.Post("/extract", s.handleExtract)
			r.Post("/", s.handleCreateDiet)
			r.Get("/", s.handleListDiets)
			r.Route("/{dietID}", func(r chi.Router) {
				r.Get("/", s.handleGetDiet)
				r.Delete("/", s.handleDeleteDiet)
				r.Post("/predict", s.handlePredict)
				r.Get("/predictions", s.handleListPredictions)
			})
		})
	})

	return r
}

func (s *DietService) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *DietService) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "a PDF file is required in the 'file' field", "")
		return
	}
	defer file.Close()

	// tabula and fitz both read from a path, so the upload lands in a
	// temp file for the duration of the request.
	tmp, err := os.CreateTemp("", "diet-report-*.pdf")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "could not buffer upload", "")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, r, http.StatusInternalServerError, "could not buffer upload", "")
		return
	}
	tmp.Close()

	s.log.Info("extracting diet report",
		"filename", filepath.Base(header.Filename), "size", header.Size)

	result, err := s.Extract(r.Context(), tmp.Name())
	if err != nil {
		s.writeExtractionError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (s *DietService) handleCreateDiet(w http.ResponseWriter, r *http.Request) {
	var req CreateDietRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	diet, err := s.CreateDiet(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), "")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, diet)
}

func (s *DietService) handleGetDiet(w http.ResponseWriter, r *http.Request) {
	diet, err := s.GetDiet(r.Context(), chi.URLParam(r, "dietID"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	render.JSON(w, r, diet)
}

func (s *DietService) handleListDiets(w http.ResponseWriter, r *http.Request) {
	diets, err := s.ListDiets(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"diets": diets})
}

func (s *DietService) handleDeleteDiet(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteDiet(r.Context(), chi.URLParam(r, "dietID")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// predictRequest carries optional lab nutrient readings keyed by the
// report's row labels.
type predictRequest struct {
	Nutrients map[string]float64 `json:"nutrients,omitempty"`
}

func (s *DietService) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body", "")
			return
		}
	}
	result, err := s.Predict(r.Context(), chi.URLParam(r, "dietID"), req.Nutrients)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

func (s *DietService) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.ListPredictions(r.Context(), chi.URLParam(r, "dietID"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"predictions": predictions})
}

func (s *DietService) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "diet not found", "")
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal error", "")
}

// writeExtractionError maps the extraction error taxonomy onto HTTP
// statuses: unreadable input is the caller's problem, missing capabilities
// are ours.
func (s *DietService) writeExtractionError(w http.ResponseWriter, r *http.Request, err error) {
	var extErr *extraction.ExtractionError
	if !errors.As(err, &extErr) {
		s.log.Error("extraction failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "extraction failed", "")
		return
	}
	switch extErr.Code {
	case extraction.ErrInvalidInput, extraction.ErrPDFUnreadable:
		writeError(w, r, http.StatusUnprocessableEntity, extErr.Message, string(extErr.Code))
	case extraction.ErrOCRUnavailable:
		writeError(w, r, http.StatusServiceUnavailable, extErr.Message, string(extErr.Code))
	case extraction.ErrTimeout:
		writeError(w, r, http.StatusGatewayTimeout, extErr.Message, string(extErr.Code))
	default:
		s.log.Error("extraction failed", "code", extErr.Code, "error", err)
		writeError(w, r, http.StatusInternalServerError, extErr.Message, string(extErr.Code))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message, Code: code})
}
