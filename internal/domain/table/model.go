package table

import (
	"sort"
)

// Row is one participant in one event.
type Row struct {
	ParticipantID     string             `json:"participant_id"`
	Name              string             `json:"name"`
	Team              string             `json:"team"`
	Opponent          string             `json:"opponent"`
	Home              bool               `json:"home"`
	Period            int                `json:"period"`
	Date              string             `json:"date"`
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	Day               int                `json:"day"`
	Weekday           int                `json:"weekday"`
	TotalPointsScored float64            `json:"total_points_scored"`
	PointsAllowed     float64            `json:"points_allowed"`
	RegistryID        int64              `json:"registry_id"`
	Position          string             `json:"position"`
	Number            int                `json:"number"`
	Status            string             `json:"status"`
	HeightCM          int                `json:"height_cm"`
	WeightKG          int                `json:"weight_kg"`
	Age               int                `json:"age"`
	Experience        int                `json:"experience"`
	College           string             `json:"college"`
	RosterTeam        string             `json:"roster_team"`
	Stats             map[string]float64 `json:"stats"`
	FantasyPoints     float64            `json:"fpts"`
}

// Stat returns a stat column value, zero when absent.
func (r Row) Stat(column string) float64 {
	return r.Stats[column]
}

func (r Row) clone() Row {
	out := r
	out.Stats = make(map[string]float64, len(r.Stats))
	for column, value := range r.Stats {
		out.Stats[column] = value
	}
	return out
}

// Table is a rectangular set of rows: every row carries every column listed
// in Columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New builds a normalized table from rows. Rows are copied.
func New(rows []Row) Table {
	out := Table{Rows: make([]Row, 0, len(rows))}
	for _, row := range rows {
		out.Rows = append(out.Rows, row.clone())
	}
	out.Normalize()
	return out
}

// Normalize recomputes the column set as the union of all row stat columns
// and the current Columns, then zero-fills every gap.
func (t *Table) Normalize() {
	set := make(map[string]struct{}, len(t.Columns))
	for _, column := range t.Columns {
		set[column] = struct{}{}
	}
	for _, row := range t.Rows {
		for column := range row.Stats {
			set[column] = struct{}{}
		}
	}

	columns := make([]string, 0, len(set))
	for column := range set {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	t.Columns = columns

	for i := range t.Rows {
		if t.Rows[i].Stats == nil {
			t.Rows[i].Stats = make(map[string]float64, len(columns))
		}
		for _, column := range columns {
			if _, ok := t.Rows[i].Stats[column]; !ok {
				t.Rows[i].Stats[column] = 0
			}
		}
	}
}

// HasColumn reports whether column is part of the table's stat columns.
func (t Table) HasColumn(column string) bool {
	idx := sort.SearchStrings(t.Columns, column)
	return idx < len(t.Columns) && t.Columns[idx] == column
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.clone())
	}
	return out
}

// Union concatenates rows of all tables. The resulting columns are the union
// of every input's columns, zero-filled where a row lacks one.
func Union(tables ...Table) Table {
	total := 0
	for _, item := range tables {
		total += len(item.Rows)
	}

	out := Table{Rows: make([]Row, 0, total)}
	for _, item := range tables {
		out.Columns = append(out.Columns, item.Columns...)
		for _, row := range item.Rows {
			out.Rows = append(out.Rows, row.clone())
		}
	}
	out.Normalize()
	return out
}
