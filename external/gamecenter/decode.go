package gamecenter

import (
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gridiron-loader/internal/domain/stats"
)

type document struct {
	record stats.EventRecord
	final  bool
}

// decodeDocument reads {eid: {home: side, away: side, qtr}} documents. Any
// other top-level keys are ignored.
func decodeDocument(raw []byte, eventID string) (document, error) {
	var root map[string]any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return document{}, fmt.Errorf("decode game center payload: %w", err)
	}

	node, ok := root[eventID].(map[string]any)
	if !ok {
		return document{}, fmt.Errorf("game center payload has no event %s", eventID)
	}

	home, err := decodeSide(node["home"])
	if err != nil {
		return document{}, fmt.Errorf("decode home side of %s: %w", eventID, err)
	}
	away, err := decodeSide(node["away"])
	if err != nil {
		return document{}, fmt.Errorf("decode away side of %s: %w", eventID, err)
	}

	return document{
		record: stats.EventRecord{EventID: eventID, Home: home, Away: away},
		final:  isFinalQuarter(node["qtr"]),
	}, nil
}

func decodeSide(raw any) (stats.Side, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return stats.Side{}, fmt.Errorf("side is not an object")
	}

	abbr, _ := node["abbr"].(string)
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if abbr == "" {
		return stats.Side{}, fmt.Errorf("side has no team abbreviation")
	}

	side := stats.Side{
		Abbr:       abbr,
		Categories: map[string]stats.CategoryStats{},
	}
	if score, ok := node["score"].(map[string]any); ok {
		side.Score, _ = toFloat(score["T"])
	}

	categories, _ := node["stats"].(map[string]any)
	for name, block := range categories {
		participants, ok := block.(map[string]any)
		if !ok {
			continue
		}
		category := stats.CategoryStats{}
		for participantID, fields := range participants {
			values, ok := fields.(map[string]any)
			if !ok {
				// team totals are flat field maps
				continue
			}
			category[participantID] = decodeLine(values)
		}
		side.Categories[strings.ToLower(name)] = category
	}

	return side, nil
}

func decodeLine(values map[string]any) stats.Line {
	line := stats.Line{Fields: make(map[string]float64, len(values))}
	for field, value := range values {
		if field == "name" {
			line.Name, _ = value.(string)
			continue
		}
		if number, ok := toFloat(value); ok {
			line.Fields[field] = number
		}
	}
	return line
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func isFinalQuarter(value any) bool {
	qtr, _ := value.(string)
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(qtr)), "final")
}
