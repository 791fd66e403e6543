package table

import (
	"encoding/csv"
	"io"
	"strconv"
)

var fixedColumns = []string{
	"participant_id", "name", "team", "opponent", "home", "period",
	"date", "year", "month", "day", "weekday",
	"total_points_scored", "points_allowed",
	"registry_id", "position", "number", "status", "height_cm", "weight_kg",
	"age", "experience", "college", "roster_team",
}

// Header returns the wide column order used for CSV export.
func (t Table) Header() []string {
	header := make([]string, 0, len(fixedColumns)+len(t.Columns)+1)
	header = append(header, fixedColumns...)
	header = append(header, t.Columns...)
	return append(header, "fpts")
}

// WriteCSV writes the table in wide form: fixed columns, sorted stat columns,
// then fpts.
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header()); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := []string{
			row.ParticipantID,
			row.Name,
			row.Team,
			row.Opponent,
			boolFlag(row.Home),
			strconv.Itoa(row.Period),
			row.Date,
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Month),
			strconv.Itoa(row.Day),
			strconv.Itoa(row.Weekday),
			formatFloat(row.TotalPointsScored),
			formatFloat(row.PointsAllowed),
			strconv.FormatInt(row.RegistryID, 10),
			row.Position,
			strconv.Itoa(row.Number),
			row.Status,
			strconv.Itoa(row.HeightCM),
			strconv.Itoa(row.WeightKG),
			strconv.Itoa(row.Age),
			strconv.Itoa(row.Experience),
			row.College,
			row.RosterTeam,
		}
		for _, column := range t.Columns {
			record = append(record, formatFloat(row.Stat(column)))
		}
		record = append(record, formatFloat(row.FantasyPoints))

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
