package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

type tableRequest struct {
	Season  int    `validate:"required,gte=1970,lte=2100"`
	Period  int    `validate:"gte=0,lte=25"`
	Team    string `validate:"omitempty,alphanum,max=4"`
	Phase   string `validate:"omitempty,oneof=PRE REG POST"`
	Refresh bool
}

func (r tableRequest) phase() schedule.Phase {
	if r.Phase == "" {
		return schedule.PhaseReg
	}
	return schedule.Phase(r.Phase)
}

// options maps the request onto pipeline options. The API always persists
// what it builds.
func (r tableRequest) options() usecase.TableOptions {
	return usecase.TableOptions{Refresh: r.Refresh}
}

func (h *Handler) parseTableRequest(ctx context.Context, r *http.Request) (tableRequest, error) {
	var req tableRequest

	season, err := parseIntParam("season", r.PathValue("season"), true)
	if err != nil {
		return req, err
	}
	req.Season = season

	period, err := parseIntParam("period", r.PathValue("period"), false)
	if err != nil {
		return req, err
	}
	req.Period = period

	req.Team = strings.ToUpper(strings.TrimSpace(r.PathValue("team")))
	req.Phase = strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("phase")))

	if raw := strings.TrimSpace(r.URL.Query().Get("refresh")); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("%w: refresh must be a boolean", usecase.ErrInvalidInput)
		}
		req.Refresh = refresh
	}

	if err := h.validateRequest(ctx, req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseIntParam(name, raw string, required bool) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, name)
		}
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

type tableDTO struct {
	Key     string      `json:"key"`
	Level   string      `json:"level"`
	Columns []string    `json:"columns"`
	Rows    []table.Row `json:"rows"`
}

func tableToDTO(key table.Key, t table.Table) tableDTO {
	columns := t.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := t.Rows
	if rows == nil {
		rows = []table.Row{}
	}
	return tableDTO{
		Key:     key.String(),
		Level:   string(key.Level()),
		Columns: columns,
		Rows:    rows,
	}
}
