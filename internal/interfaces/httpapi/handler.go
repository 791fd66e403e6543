package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

// TableService is one tier of the table pipeline.
type TableService interface {
	Get(ctx context.Context, key table.Key, opts usecase.TableOptions) (table.Table, error)
}

// RosterService lists the participants flagged active in the registry.
type RosterService interface {
	ListActive(ctx context.Context) ([]registry.Metadata, error)
}

// WeekService finds the week in progress.
type WeekService interface {
	CurrentWeek(ctx context.Context, season int, phase schedule.Phase) (int, error)
}

// Services are the collaborators a Handler serves. Roster and Weeks are
// optional; their routes are not registered when nil.
type Services struct {
	Seasons TableService
	Periods TableService
	Events  TableService
	Roster  RosterService
	Weeks   WeekService
}

type Handler struct {
	seasons   TableService
	periods   TableService
	events    TableService
	roster    RosterService
	weeks     WeekService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(svc Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasons:   svc.Seasons,
		periods:   svc.Periods,
		events:    svc.Events,
		roster:    svc.Roster,
		weeks:     svc.Weeks,
		logger:    logger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetSeasonTable(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, r, "GetSeasonTable", h.seasons, func(req tableRequest) table.Key {
		return table.SeasonKey(req.Season, req.phase())
	})
}

func (h *Handler) GetPeriodTable(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, r, "GetPeriodTable", h.periods, func(req tableRequest) table.Key {
		return table.PeriodKey(req.Season, req.phase(), req.Period)
	})
}

func (h *Handler) GetEventTable(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, r, "GetEventTable", h.events, func(req tableRequest) table.Key {
		return table.EventKey(req.Season, req.phase(), req.Period, req.Team)
	})
}

func (h *Handler) serveTable(w http.ResponseWriter, r *http.Request, name string, svc TableService, keyOf func(tableRequest) table.Key) {
	ctx, span := startHandlerSpan(r.Context(), name)
	defer span.End()

	req, err := h.parseTableRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	key := keyOf(req)
	opts := req.options()
	span.SetAttributes(tableKeyAttributes(key)...)

	result, err := svc.Get(ctx, key, opts)
	if err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "get table failed", "key", key.String(), "refresh", opts.Refresh, "error", err)
		writeError(ctx, w, err)
		return
	}
	span.AddEvent("table served", trace.WithAttributes(tableSizeAttributes(result)...))

	writeSuccess(ctx, w, http.StatusOK, tableToDTO(key, result))
}
