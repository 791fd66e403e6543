package scoring

import (
	"strings"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
)

// Engine computes the fpts column. It holds no state beyond its rules and is
// safe for concurrent use.
type Engine struct {
	rules     Rules
	defensive map[string]struct{}
}

func NewEngine(rules Rules) *Engine {
	defensive := make(map[string]struct{}, len(rules.DefensivePositions))
	for _, position := range rules.DefensivePositions {
		defensive[strings.ToUpper(strings.TrimSpace(position))] = struct{}{}
	}
	return &Engine{rules: rules, defensive: defensive}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// IsDefensive reports whether position earns the points-allowed bonus.
func (e *Engine) IsDefensive(position string) bool {
	_, ok := e.defensive[strings.ToUpper(strings.TrimSpace(position))]
	return ok
}

// DefensiveRows counts the rows of t that share the points-allowed bonus.
func (e *Engine) DefensiveRows(t table.Table) int {
	count := 0
	for _, row := range t.Rows {
		if e.IsDefensive(row.Position) {
			count++
		}
	}
	return count
}

// Apply sets FantasyPoints on every row of t.
func (e *Engine) Apply(t *table.Table) {
	defensiveRows := e.DefensiveRows(*t)
	for i := range t.Rows {
		t.Rows[i].FantasyPoints = e.ScoreRow(t.Rows[i], defensiveRows)
	}
}

// ScoreRow computes fpts for one row. Terms whose source columns are absent
// from the row contribute nothing. defensiveRows is the number of defensive
// rows in the row's table.
func (e *Engine) ScoreRow(row table.Row, defensiveRows int) float64 {
	r := e.rules
	pts := 0.0

	pts += row.Stat("pass_yds")/r.PassingYardsPerPoint +
		row.Stat("pass_tds")*r.PassingTouchdown +
		row.Stat("pass_ints")*r.InterceptionThrown
	pts += row.Stat("rush_yds")/r.RushingYardsPerPoint + row.Stat("rush_tds")*r.RushingTouchdown
	pts += row.Stat("rcv_yds")/r.ReceivingYardsPerPoint + row.Stat("rcv_tds")*r.ReceivingTouchdown
	pts += (row.Stat("pass_twoptm") + row.Stat("rush_twoptm") + row.Stat("rcv_twoptm")) * r.TwoPointConversion

	if hasAll(row, "fum_rcv", "fum_trcv", "fum_lost") {
		pts += (row.Stat("fum_rcv") + row.Stat("fum_trcv") - row.Stat("fum_lost")) * r.FumbleRecovery
	}
	if has(row, "k_fgm") {
		pts += row.Stat("k_fgm") * e.fieldGoalValue(row)
	}
	pts += row.Stat("k_xpmade") * r.ExtraPoint
	pts += (row.Stat("pret_tds") + row.Stat("kret_tds")) * r.ReturnTouchdown
	pts += row.Stat("def_sk")*r.Sack + row.Stat("def_int")*r.DefensiveInterception

	if defensiveRows > 0 && e.IsDefensive(row.Position) {
		pts += e.PointsAllowedBonus(row.PointsAllowed) / float64(defensiveRows)
	}

	return pts
}

// PointsAllowedBonus is the undivided team defense bonus for a points-allowed total.
func (e *Engine) PointsAllowedBonus(pointsAllowed float64) float64 {
	allowed := int(pointsAllowed)
	for _, bracket := range e.rules.PointsAllowed {
		if allowed <= bracket.MaxAllowed {
			return bracket.Points
		}
	}
	return e.rules.PointsAllowedFloor
}

func (e *Engine) fieldGoalValue(row table.Row) float64 {
	if e.rules.FieldGoalMode == FieldGoalFlat {
		return e.rules.FieldGoal
	}
	if row.Stat("k_fgyds") >= e.rules.LongFieldGoalYards {
		return e.rules.LongFieldGoal
	}
	return e.rules.FieldGoal
}

func has(row table.Row, column string) bool {
	_, ok := row.Stats[column]
	return ok
}

func hasAll(row table.Row, columns ...string) bool {
	for _, column := range columns {
		if !has(row, column) {
			return false
		}
	}
	return true
}
