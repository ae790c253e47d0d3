package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	apierrors "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/errors"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/exporter"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/middleware"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/services"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// multipartMemory is how much of a multipart form is kept in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// Form field names
const (
	fileField   = "file"
	configField = "config"
)

// DashboardHandler serves dataset uploads, dashboards and exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, query *middleware.QueryParamValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		query:        query,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// DatasetRoutes returns the routes mounted under /api/datasets
func (h *DashboardHandler) DatasetRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.GetDataset)
		r.Delete("/", h.DeleteDataset)
		r.Post("/dashboard", h.GetDashboard)
		r.Get("/export", h.Export)
	})

	return r
}

// DatasetCtx rejects dataset ids that cannot have been issued by the store
func (h *DashboardHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "datasetID")
		if _, err := uuid.Parse(id); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrInvalidParameter.WithDetails(apierrors.ValidationError{Field: "id", Message: "Dataset id must be a UUID"}))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/datasets
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.formFile(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	info, err := h.service.Upload(r.Context(), filename, file)
	if err != nil {
		h.fail(w, r, "upload failed", err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset created",
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("dataset_id", info.ID),
		slog.Int("rows", info.Rows),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// GetDataset handles GET /api/datasets/{datasetID}
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Dataset(r.Context(), chi.URLParam(r, "datasetID"))
	if err != nil {
		h.fail(w, r, "failed to get dataset", err)
		return
	}
	render.JSON(w, r, info)
}

// DeleteDataset handles DELETE /api/datasets/{datasetID}
func (h *DashboardHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "datasetID")); err != nil {
		h.fail(w, r, "failed to delete dataset", err)
		return
	}
	render.NoContent(w, r)
}

// GetDashboard handles POST /api/datasets/{datasetID}/dashboard. An empty
// body selects the defaults.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var cfg domain.DashboardConfig
	if err := render.DecodeJSON(r.Body, &cfg); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), chi.URLParam(r, "datasetID"), cfg)
	if err != nil {
		h.fail(w, r, "failed to build dashboard", err)
		return
	}
	render.JSON(w, r, dashboard)
}

// Export handles GET /api/datasets/{datasetID}/export
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	name, ok := h.query.Enum(w, r, "format", exporter.Formats(), string(exporter.FormatCSV))
	if !ok {
		return
	}
	startRow, ok := h.query.OptionalInt(w, r, "start_row", 0)
	if !ok {
		return
	}
	endRow, ok := h.query.OptionalInt(w, r, "end_row", 0)
	if !ok {
		return
	}

	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	q := r.URL.Query()
	cfg := domain.DashboardConfig{
		StartDate: strings.TrimSpace(q.Get("start")),
		EndDate:   strings.TrimSpace(q.Get("end")),
		StartRow:  startRow,
		EndRow:    endRow,
		Columns:   h.query.List(r, "columns"),
	}

	file, err := h.service.Export(r.Context(), chi.URLParam(r, "datasetID"), cfg, format)
	if err != nil {
		h.fail(w, r, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
}

// DashboardFromUpload handles POST /api/dashboard: a one-shot dashboard for
// an uploaded file that is not kept.
func (h *DashboardHandler) DashboardFromUpload(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.formFile(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	var cfg domain.DashboardConfig
	if raw := strings.TrimSpace(r.FormValue(configField)); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(configField, "config must be a JSON dashboard configuration"))
			return
		}
	}

	dashboard, err := h.service.DashboardFromFile(r.Context(), filename, file, cfg)
	if err != nil {
		h.fail(w, r, "failed to build dashboard", err)
		return
	}
	render.JSON(w, r, dashboard)
}

// formFile parses the multipart form and opens its file part
func (h *DashboardHandler) formFile(r *http.Request) (io.ReadCloser, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, "", apierrors.ErrPayloadTooLarge
		}
		return nil, "", apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, "", apierrors.ErrMissingParameter.WithDetails(apierrors.ValidationError{Field: fileField, Message: "A CSV or XLSX file is required"})
	}
	return file, header.Filename, nil
}

// fail logs a service error and writes its problem response
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	h.errorHandler.HandleError(w, r, mapError(err))
}

// mapError translates service errors to API errors
func mapError(err error) error {
	var (
		apiErr      *apierrors.APIError
		parseErr    *dataprocessing.ParseError
		missingErr  *dataprocessing.MissingColumnsError
		notFoundErr *dataprocessing.ColumnNotFoundError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, services.ErrDatasetNotFound):
		return apierrors.ErrDatasetNotFound
	case errors.Is(err, services.ErrServiceUnavailable):
		return apierrors.ErrServiceUnavailable
	case errors.Is(err, validation.ErrFileTooLarge):
		return apierrors.ErrPayloadTooLarge
	case errors.Is(err, validation.ErrUnsupportedExtension),
		errors.Is(err, dataprocessing.ErrUnsupportedFormat):
		return apierrors.ErrUnsupportedFileType
	case errors.As(err, &parseErr):
		return apierrors.ParseFailure(parseErr)
	case errors.Is(err, validation.ErrEmptyFile):
		return apierrors.ErrValidation(fileField, "The uploaded file is empty")
	case errors.As(err, &missingErr):
		return apierrors.MissingColumns(missingErr.Required, missingErr.Missing)
	case errors.As(err, &notFoundErr):
		return apierrors.ColumnNotFound(notFoundErr.Columns)
	case errors.Is(err, services.ErrInvalidConfig):
		return apierrors.ErrValidationFailed.WithDetails(err.Error())
	default:
		return err
	}
}
