package playerprofile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
)

const (
	upstreamBirthDateLayout = "01/02/2006"
	registryBirthDateLayout = "2006-01-02"
	activeStatus            = "ACT"
)

type profilePayload struct {
	GsisID            string  `json:"gsisId"`
	EsbID             string  `json:"esbId"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	DisplayName       string  `json:"displayName"`
	Position          string  `json:"position"`
	JerseyNumber      int     `json:"jerseyNumber"`
	Status            string  `json:"status"`
	Height            string  `json:"height"`
	Weight            float64 `json:"weight"`
	BirthDate         string  `json:"birthDate"`
	YearsOfExperience int     `json:"yearsOfExperience"`
	College           string  `json:"college"`
	TeamAbbr          string  `json:"teamAbbr"`
}

func (p profilePayload) toMetadata(participantID string, now time.Time) (registry.Metadata, error) {
	if id := strings.TrimSpace(p.GsisID); id != "" && id != participantID {
		return registry.Metadata{}, fmt.Errorf("profile for %s returned participant %s", participantID, id)
	}

	heightCM, err := parseHeight(p.Height)
	if err != nil {
		return registry.Metadata{}, err
	}

	item := registry.Metadata{
		ParticipantID: participantID,
		SecondaryID:   strings.TrimSpace(p.EsbID),
		FirstName:     strings.TrimSpace(p.FirstName),
		LastName:      strings.TrimSpace(p.LastName),
		Position:      strings.ToUpper(strings.TrimSpace(p.Position)),
		Number:        p.JerseyNumber,
		Status:        strings.ToUpper(strings.TrimSpace(p.Status)),
		HeightCM:      heightCM,
		WeightKG:      registry.PoundsToKG(p.Weight),
		Experience:    max(p.YearsOfExperience, 0),
		College:       strings.TrimSpace(p.College),
		Team:          strings.ToUpper(strings.TrimSpace(p.TeamAbbr)),
	}
	item.Active = item.Status == activeStatus
	item.ShortName = registry.ShortNameOf(item.FirstName, item.LastName)
	item.Name = strings.TrimSpace(p.DisplayName)
	if item.Name == "" {
		item.Name = strings.TrimSpace(item.FirstName + " " + item.LastName)
	}

	if raw := strings.TrimSpace(p.BirthDate); raw != "" {
		birth, err := time.Parse(upstreamBirthDateLayout, raw)
		if err != nil {
			return registry.Metadata{}, fmt.Errorf("parse birth date %q: %w", raw, err)
		}
		item.BirthDate = birth.Format(registryBirthDateLayout)
		item.Age = ageAt(birth, now)
	}

	return item, nil
}

// parseHeight accepts "6-4" (feet-inches) or plain inches.
func parseHeight(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if feetRaw, inchRaw, ok := strings.Cut(raw, "-"); ok {
		feet, err := strconv.Atoi(strings.TrimSpace(feetRaw))
		if err != nil {
			return 0, fmt.Errorf("parse height %q: %w", raw, err)
		}
		inches, err := strconv.Atoi(strings.TrimSpace(inchRaw))
		if err != nil {
			return 0, fmt.Errorf("parse height %q: %w", raw, err)
		}
		return registry.InchesToCM(feet, inches), nil
	}
	inches, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse height %q: %w", raw, err)
	}
	return registry.InchesToCM(0, inches), nil
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return max(age, 0)
}
