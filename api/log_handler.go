package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type logHandler struct {
	responder Responder
	logger    zerolog.Logger
	logRepo   *database.LogRepo
}

func newLogHandler(logRepo *database.LogRepo) logHandler {
	logger := log.With().Str("handlerName", "logHandler").Logger()

	return logHandler{
		responder: NewResponder(logger),
		logger:    logger,
		logRepo:   logRepo,
	}
}

type clientLog struct {
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Context   json.RawMessage `json:"context,omitempty"`
	Component string          `json:"component,omitempty"`
	Route     string          `json:"route,omitempty"`
}

type logBatch struct {
	Logs []clientLog `json:"logs"`
}

// ingestLogs receives a batch of browser log entries
// @Summary Ingest client logs
// @Tags Logs
// @Router /api/logs [post]
func (h logHandler) ingestLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var batch logBatch
		if err := decodeJSON(r, "logs", &batch); err != nil || len(batch.Logs) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("Invalid logs format"))
			return
		}

		entries := make([]*models.LogEntry, 0, len(batch.Logs))
		for _, l := range batch.Logs {
			h.echo(l)
			entries = append(entries, toLogEntry(l))
		}

		// Storage failures are logged, not returned.
		if err := h.logRepo.AddBatch(r.Context(), entries); err != nil {
			h.logger.Error().Err(err).Int("count", len(entries)).Msg("Error storing client logs")
		}

		h.responder.WriteJSON(w, map[string]bool{"success": true})
	}
}

func (h logHandler) echo(l clientLog) {
	var event *zerolog.Event
	switch l.Level {
	case "debug":
		event = h.logger.Debug()
	case "info":
		event = h.logger.Info()
	case "warn":
		event = h.logger.Warn()
	case "error":
		event = h.logger.Error()
	default:
		return
	}
	if len(l.Context) > 0 {
		event = event.RawJSON("context", l.Context)
	}
	event.Str("component", l.Component).Str("route", l.Route).Msg("[client] " + l.Message)
}

func toLogEntry(l clientLog) *models.LogEntry {
	details := datatypes.JSON("{}")
	if len(l.Context) > 0 && json.Valid(l.Context) {
		details = datatypes.JSON(l.Context)
	}
	source := l.Component
	if source == "" {
		source = "client"
	}
	url := l.Route
	if url == "" {
		url = "server"
	}
	return &models.LogEntry{
		Level:   l.Level,
		Message: l.Message,
		Details: details,
		Source:  &source,
		URL:     &url,
	}
}

func (h logHandler) recentLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 1000 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be between 1 and 1000"))
				return
			}
			limit = n
		}
		entries, err := h.logRepo.Recent(r.Context(), r.URL.Query().Get("level"), limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "log entries", err))
			return
		}
		h.responder.WriteJSON(w, entries)
	}
}
