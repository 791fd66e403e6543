package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
)

type rosterEntryDTO struct {
	ParticipantID string `json:"participant_id"`
	RegistryID    int64  `json:"registry_id"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	Position      string `json:"position"`
	Number        int    `json:"number"`
	Status        string `json:"status"`
	Team          string `json:"team"`
	HeightCM      int    `json:"height_cm"`
	WeightKG      int    `json:"weight_kg"`
	Age           int    `json:"age"`
	Experience    int    `json:"experience"`
	College       string `json:"college"`
}

type rosterDTO struct {
	Count        int              `json:"count"`
	Participants []rosterEntryDTO `json:"participants"`
}

type currentWeekDTO struct {
	Season int    `json:"season"`
	Phase  string `json:"phase"`
	Week   int    `json:"week"`
}

type weekRequest struct {
	Season int    `validate:"required,gte=1970,lte=2100"`
	Phase  string `validate:"omitempty,oneof=PRE REG POST"`
}

// GetActiveRoster lists the active registry participants.
func (h *Handler) GetActiveRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetActiveRoster")
	defer span.End()

	items, err := h.roster.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "list active roster failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.Int("registry.active", len(items)))

	out := rosterDTO{Count: len(items), Participants: make([]rosterEntryDTO, 0, len(items))}
	for _, item := range items {
		out.Participants = append(out.Participants, rosterEntryFromMetadata(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// GetCurrentWeek reports the first week of a season phase with an
// unfinished game.
func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetCurrentWeek")
	defer span.End()

	season, err := parseIntParam("season", r.PathValue("season"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := weekRequest{Season: season, Phase: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("phase")))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	phase := schedule.PhaseReg
	if req.Phase != "" {
		phase = schedule.Phase(req.Phase)
	}

	week, err := h.weeks.CurrentWeek(ctx, req.Season, phase)
	if err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "resolve current week failed", "season", req.Season, "phase", string(phase), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, currentWeekDTO{Season: req.Season, Phase: string(phase), Week: week})
}

func rosterEntryFromMetadata(m registry.Metadata) rosterEntryDTO {
	return rosterEntryDTO{
		ParticipantID: m.ParticipantID,
		RegistryID:    m.RegistryID,
		Name:          m.Name,
		ShortName:     m.ShortName,
		Position:      m.Position,
		Number:        m.Number,
		Status:        m.Status,
		Team:          m.Team,
		HeightCM:      m.HeightCM,
		WeightKG:      m.WeightKG,
		Age:           m.Age,
		Experience:    m.Experience,
		College:       m.College,
	}
}
