package postgres

import (
	"database/sql"
	"time"
)

type registryPlayerTableModel struct {
	ID            int64          `db:"id"`
	ParticipantID string         `db:"participant_id"`
	SecondaryID   sql.NullString `db:"secondary_id"`
	Name          string         `db:"name"`
	ShortName     string         `db:"short_name"`
	FirstName     string         `db:"first_name"`
	LastName      string         `db:"last_name"`
	Position      string         `db:"position"`
	JerseyNumber  int            `db:"jersey_number"`
	Status        string         `db:"status"`
	HeightCM      int            `db:"height_cm"`
	WeightKG      int            `db:"weight_kg"`
	BirthDate     *time.Time     `db:"birth_date"`
	Age           int            `db:"age"`
	Experience    int            `db:"experience"`
	College       string         `db:"college"`
	TeamAbbr      string         `db:"team_abbr"`
	IsActive      bool           `db:"is_active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type registryPlayerInsertModel struct {
	ParticipantID string     `db:"participant_id"`
	SecondaryID   *string    `db:"secondary_id"`
	Name          string     `db:"name"`
	ShortName     string     `db:"short_name"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	Position      string     `db:"position"`
	JerseyNumber  int        `db:"jersey_number"`
	Status        string     `db:"status"`
	HeightCM      int        `db:"height_cm"`
	WeightKG      int        `db:"weight_kg"`
	BirthDate     *time.Time `db:"birth_date"`
	Age           int        `db:"age"`
	Experience    int        `db:"experience"`
	College       string     `db:"college"`
	TeamAbbr      string     `db:"team_abbr"`
	IsActive      bool       `db:"is_active"`
}
