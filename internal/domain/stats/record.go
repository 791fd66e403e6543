package stats

import "sort"

// Line is one participant's numbers inside a category block.
type Line struct {
	Name   string
	Fields map[string]float64
}

// CategoryStats maps participant id to its line for one category.
type CategoryStats map[string]Line

// Side is one team's half of an event record.
type Side struct {
	Abbr       string
	Score      float64
	Categories map[string]CategoryStats
}

// SortedCategories returns the names of the non-empty participant categories
// in lexical order. Team totals are excluded.
func (s Side) SortedCategories() []string {
	out := make([]string, 0, len(s.Categories))
	for name, block := range s.Categories {
		if Category(name) == CategoryTeam || len(block) == 0 {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EventRecord is the decoded statistics document of one event.
type EventRecord struct {
	EventID string
	Home    Side
	Away    Side
}

// SideOf picks team's side by abbreviation. found is false when neither side
// belongs to team.
func (r EventRecord) SideOf(team string) (own Side, opponent Side, home bool, found bool) {
	switch team {
	case r.Home.Abbr:
		return r.Home, r.Away, true, true
	case r.Away.Abbr:
		return r.Away, r.Home, false, true
	}
	return Side{}, Side{}, false, false
}
