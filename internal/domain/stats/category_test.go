package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaFor_KnownCategories(t *testing.T) {
	cases := map[string]string{
		"passing":   "pass_",
		"rushing":   "rush_",
		"receiving": "rcv_",
		"kickret":   "kret_",
		"puntret":   "pret_",
		"kicking":   "k_",
		"punting":   "p_",
		"fumbles":   "fum_",
		"defense":   "def_",
	}
	for name, prefix := range cases {
		schema := SchemaFor(name)
		assert.True(t, schema.Known, name)
		assert.Equal(t, prefix, schema.Prefix, name)
	}
	assert.Equal(t, "pass_yds", SchemaFor("Passing").Column("yds"))
}

func TestSchemaFor_UnknownCategoryPassesThrough(t *testing.T) {
	schema := SchemaFor("airyards")
	assert.False(t, schema.Known)
	assert.Equal(t, "airyards_", schema.Prefix)
	assert.Equal(t, "airyards_total", schema.Column("total"))
}

func TestSide_SortedCategoriesSkipsTeamAndEmptyBlocks(t *testing.T) {
	side := Side{
		Categories: map[string]CategoryStats{
			"team":      {"x": {}},
			"rushing":   {"00-1": {Name: "A.Back"}},
			"passing":   {"00-2": {Name: "B.Arm"}},
			"punting":   {},
			"receiving": {"00-3": {Name: "C.Hands"}},
		},
	}
	assert.Equal(t, []string{"passing", "receiving", "rushing"}, side.SortedCategories())
}

func TestEventRecord_SideOf(t *testing.T) {
	record := EventRecord{
		EventID: "2018090600",
		Home:    Side{Abbr: "PHI", Score: 18},
		Away:    Side{Abbr: "ATL", Score: 12},
	}

	own, opp, home, found := record.SideOf("PHI")
	assert.True(t, found)
	assert.True(t, home)
	assert.Equal(t, "PHI", own.Abbr)
	assert.Equal(t, "ATL", opp.Abbr)

	own, opp, home, found = record.SideOf("ATL")
	assert.True(t, found)
	assert.False(t, home)
	assert.Equal(t, float64(12), own.Score)
	assert.Equal(t, float64(18), opp.Score)

	_, _, home, found = record.SideOf("NE")
	assert.False(t, found)
	assert.False(t, home)
}
