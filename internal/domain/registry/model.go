package registry

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// PlaceholderRegistryID marks metadata that could not be resolved.
const (
	PlaceholderRegistryID int64 = -1
	PlaceholderStatus           = "UNK"
)

var ErrProfileNotFound = errors.New("registry profile not found")

// Metadata is the registry's view of one participant. Age and Experience are
// stored as of the season the record was fetched in.
type Metadata struct {
	ParticipantID string
	RegistryID    int64
	SecondaryID   string
	Name          string
	ShortName     string
	FirstName     string
	LastName      string
	Position      string
	Number        int
	Status        string
	HeightCM      int
	WeightKG      int
	BirthDate     string
	Age           int
	Experience    int
	College       string
	Team          string
	Active        bool
}

// Placeholder is returned for participants the registry cannot resolve.
func Placeholder(participantID string) Metadata {
	return Metadata{
		ParticipantID: participantID,
		RegistryID:    PlaceholderRegistryID,
		Status:        PlaceholderStatus,
	}
}

func (m Metadata) IsPlaceholder() bool {
	return m.RegistryID == PlaceholderRegistryID
}

// AsOfSeason returns a copy with age and experience rolled back from current
// to requested. Values never drop below zero and the receiver is untouched.
func (m Metadata) AsOfSeason(current, requested int) Metadata {
	if current <= requested {
		return m
	}
	delta := current - requested
	out := m
	out.Age = rollBack(m.Age, delta)
	out.Experience = rollBack(m.Experience, delta)
	return out
}

func rollBack(value, delta int) int {
	if value <= delta {
		return 0
	}
	return value - delta
}

func (m Metadata) Validate() error {
	if strings.TrimSpace(m.ParticipantID) == "" {
		return fmt.Errorf("participant id is required")
	}
	if m.HeightCM < 0 || m.WeightKG < 0 {
		return fmt.Errorf("height and weight must not be negative")
	}
	return nil
}

// ShortNameOf builds the "F.Last" display name used by the statistics feed.
func ShortNameOf(firstName, lastName string) string {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first == "" {
		return last
	}
	r, size := utf8.DecodeRuneInString(first)
	if r == utf8.RuneError && size <= 1 {
		return last
	}
	return first[:size] + "." + last
}

// InchesToCM converts a feet/inches height, truncating like the profile feed.
func InchesToCM(feet, inches int) int {
	return int(float64(feet)*30.48 + float64(inches)*2.54)
}

// PoundsToKG converts pounds, truncating to whole kilograms.
func PoundsToKG(pounds float64) int {
	return int(pounds * 0.4536)
}
