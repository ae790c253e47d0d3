package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/errors"
)

// maxClientMessage caps the length of a logged browser message
const maxClientMessage = 2048

// ClientLogHandler records log lines sent by the dashboard front end
type ClientLogHandler struct {
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// StructValidator validates tagged request structs
type StructValidator interface {
	ValidateStruct(s any) error
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		validator:    validator,
		logger:       logger.With(slog.String("handler", "client_log")),
		errorHandler: errorHandler,
	}
}

// LogRequest is a browser log entry
type LogRequest struct {
	Level     string         `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message   string         `json:"message" validate:"required"`
	Source    string         `json:"source,omitempty" validate:"max=256"`
	DatasetID string         `json:"dataset_id,omitempty" validate:"omitempty,uuid"`
	Data      map[string]any `json:"data,omitempty"`
}

// Handle handles POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	msg := req.Message
	if len(msg) > maxClientMessage {
		msg = msg[:maxClientMessage]
	}

	attrs := []slog.Attr{slog.String("client_source", req.Source)}
	if req.DatasetID != "" {
		attrs = append(attrs, slog.String("dataset_id", req.DatasetID))
	}
	if len(req.Data) > 0 {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), msg, attrs...)

	render.JSON(w, r, map[string]any{"success": true})
}

func clientLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
