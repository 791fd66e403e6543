package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	qb "github.com/riskibarqy/gridiron-loader/internal/platform/querybuilder"
)

const (
	registryPlayersTable = "registry_players"
	birthDateLayout      = "2006-01-02"
)

var registryPlayerSelectColumns = []string{
	"id",
	"participant_id",
	"secondary_id",
	"name",
	"short_name",
	"first_name",
	"last_name",
	"position",
	"jersey_number",
	"status",
	"height_cm",
	"weight_kg",
	"birth_date",
	"age",
	"experience",
	"college",
	"team_abbr",
	"is_active",
	"created_at",
	"updated_at",
}

const registryPlayerUpsertSuffix = `ON CONFLICT (participant_id)
DO UPDATE SET
    secondary_id = EXCLUDED.secondary_id,
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    position = EXCLUDED.position,
    jersey_number = EXCLUDED.jersey_number,
    status = EXCLUDED.status,
    height_cm = EXCLUDED.height_cm,
    weight_kg = EXCLUDED.weight_kg,
    birth_date = EXCLUDED.birth_date,
    age = EXCLUDED.age,
    experience = EXCLUDED.experience,
    college = EXCLUDED.college,
    team_abbr = EXCLUDED.team_abbr,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()`

type RegistryRepository struct {
	db *sqlx.DB
}

func NewRegistryRepository(db *sqlx.DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

func (r *RegistryRepository) GetByParticipantIDs(ctx context.Context, participantIDs []string) ([]registry.Metadata, error) {
	if len(participantIDs) == 0 {
		return []registry.Metadata{}, nil
	}

	query, args, err := qb.Select(registryPlayerSelectColumns...).From(registryPlayersTable).
		Where(qb.InStrings("participant_id", participantIDs)).
		OrderBy("participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select registry players by ids query: %w", err)
	}

	var rows []registryPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select registry players by ids: %w", err)
	}

	return registryMetadataFromRows(rows), nil
}

func (r *RegistryRepository) ListActive(ctx context.Context) ([]registry.Metadata, error) {
	query, args, err := qb.Select(registryPlayerSelectColumns...).From(registryPlayersTable).
		Where(qb.Eq("is_active", true)).
		OrderBy("participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active registry players query: %w", err)
	}

	var rows []registryPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active registry players: %w", err)
	}

	return registryMetadataFromRows(rows), nil
}

func (r *RegistryRepository) Upsert(ctx context.Context, items []registry.Metadata) error {
	if len(items) == 0 {
		return nil
	}

	// A single INSERT cannot touch the same conflict key twice.
	latest := make(map[string]int, len(items))
	for i, item := range items {
		latest[strings.TrimSpace(item.ParticipantID)] = i
	}

	models := make([]registryPlayerInsertModel, 0, len(latest))
	for i, item := range items {
		if latest[strings.TrimSpace(item.ParticipantID)] != i {
			continue
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate registry player %q: %w", item.ParticipantID, err)
		}
		model, err := registryInsertModelFromMetadata(item)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	query, args, err := qb.InsertModels(registryPlayersTable, models, registryPlayerUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert registry players query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert registry players: %w", err)
	}

	return nil
}

func registryInsertModelFromMetadata(item registry.Metadata) (registryPlayerInsertModel, error) {
	birthDate, err := parseBirthDate(item.BirthDate)
	if err != nil {
		return registryPlayerInsertModel{}, fmt.Errorf("registry player %q: %w", item.ParticipantID, err)
	}

	return registryPlayerInsertModel{
		ParticipantID: strings.TrimSpace(item.ParticipantID),
		SecondaryID:   optionalString(item.SecondaryID),
		Name:          item.Name,
		ShortName:     item.ShortName,
		FirstName:     item.FirstName,
		LastName:      item.LastName,
		Position:      strings.ToUpper(strings.TrimSpace(item.Position)),
		JerseyNumber:  item.Number,
		Status:        item.Status,
		HeightCM:      item.HeightCM,
		WeightKG:      item.WeightKG,
		BirthDate:     birthDate,
		Age:           item.Age,
		Experience:    item.Experience,
		College:       item.College,
		TeamAbbr:      strings.ToUpper(strings.TrimSpace(item.Team)),
		IsActive:      item.Active,
	}, nil
}

func registryMetadataFromRows(rows []registryPlayerTableModel) []registry.Metadata {
	out := make([]registry.Metadata, 0, len(rows))
	for _, row := range rows {
		item := registry.Metadata{
			ParticipantID: row.ParticipantID,
			RegistryID:    row.ID,
			SecondaryID:   strings.TrimSpace(row.SecondaryID.String),
			Name:          row.Name,
			ShortName:     row.ShortName,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Position:      row.Position,
			Number:        row.JerseyNumber,
			Status:        row.Status,
			HeightCM:      row.HeightCM,
			WeightKG:      row.WeightKG,
			Age:           row.Age,
			Experience:    row.Experience,
			College:       row.College,
			Team:          row.TeamAbbr,
			Active:        row.IsActive,
		}
		if row.BirthDate != nil {
			item.BirthDate = row.BirthDate.Format(birthDateLayout)
		}
		out = append(out, item)
	}
	return out
}

func parseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("parse birth date %q: %w", raw, err)
	}
	return &value, nil
}
