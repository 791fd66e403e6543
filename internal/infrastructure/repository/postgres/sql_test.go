package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	qb "github.com/riskibarqy/gridiron-loader/internal/platform/querybuilder"
)

func TestOptionalString(t *testing.T) {
	if got := optionalString("   "); got != nil {
		t.Fatalf("expected nil for blank value, got %q", *got)
	}
	got := optionalString(" 2504211 ")
	if got == nil || *got != "2504211" {
		t.Fatalf("unexpected optional string: %v", got)
	}
}

func TestRegistryInsertModelFromMetadata(t *testing.T) {
	model, err := registryInsertModelFromMetadata(registry.Metadata{
		ParticipantID: " 00-0019596 ",
		Position:      "qb",
		Team:          "ne",
		BirthDate:     "1977-08-03",
		Active:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.ParticipantID != "00-0019596" || model.Position != "QB" || model.TeamAbbr != "NE" {
		t.Fatalf("unexpected normalized model: %+v", model)
	}
	if model.SecondaryID != nil {
		t.Fatalf("expected nil secondary id")
	}
	if model.BirthDate == nil || model.BirthDate.Format(birthDateLayout) != "1977-08-03" {
		t.Fatalf("unexpected birth date: %v", model.BirthDate)
	}

	if _, err := registryInsertModelFromMetadata(registry.Metadata{ParticipantID: "x", BirthDate: "08/03/1977"}); err == nil {
		t.Fatalf("expected error for malformed birth date")
	}
}

func TestRegistryMetadataFromRows(t *testing.T) {
	birth := time.Date(1977, 8, 3, 0, 0, 0, 0, time.UTC)
	got := registryMetadataFromRows([]registryPlayerTableModel{
		{ID: 7, ParticipantID: "00-0019596", SecondaryID: sql.NullString{String: "BRA371156", Valid: true}, BirthDate: &birth, IsActive: true},
		{ID: 8, ParticipantID: "00-0023459"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].RegistryID != 7 || got[0].SecondaryID != "BRA371156" || got[0].BirthDate != "1977-08-03" || !got[0].Active {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].BirthDate != "" || got[1].SecondaryID != "" {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestRegistryUpsertQuery(t *testing.T) {
	models := []registryPlayerInsertModel{{ParticipantID: "a"}, {ParticipantID: "b"}}
	query, args, err := qb.InsertModels(registryPlayersTable, models, registryPlayerUpsertSuffix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO registry_players (participant_id, secondary_id,") {
		t.Fatalf("unexpected query prefix: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (participant_id)") {
		t.Fatalf("missing conflict clause: %s", query)
	}
	if len(args) != 2*17 {
		t.Fatalf("expected %d args, got %d", 2*17, len(args))
	}
}
