package stats

import "strings"

// Category names one block of the per-event statistics feed.
type Category string

const (
	CategoryPassing   Category = "passing"
	CategoryRushing   Category = "rushing"
	CategoryReceiving Category = "receiving"
	CategoryFumbles   Category = "fumbles"
	CategoryKicking   Category = "kicking"
	CategoryPunting   Category = "punting"
	CategoryKickRet   Category = "kickret"
	CategoryPuntRet   Category = "puntret"
	CategoryDefense   Category = "defense"

	// CategoryTeam carries team totals and never becomes participant rows.
	CategoryTeam Category = "team"
)

// Schema declares the column prefix of a category.
// Known is false for categories outside the enumeration; those pass through
// with their own name as prefix.
type Schema struct {
	Category Category
	Prefix   string
	Known    bool
}

var schemas = map[Category]Schema{
	CategoryPassing: {
		Category: CategoryPassing,
		Prefix:   "pass_",
	},
	CategoryRushing: {
		Category: CategoryRushing,
		Prefix:   "rush_",
	},
	CategoryReceiving: {
		Category: CategoryReceiving,
		Prefix:   "rcv_",
	},
	CategoryFumbles: {
		Category: CategoryFumbles,
		Prefix:   "fum_",
	},
	CategoryKicking: {
		Category: CategoryKicking,
		Prefix:   "k_",
	},
	CategoryPunting: {
		Category: CategoryPunting,
		Prefix:   "p_",
	},
	CategoryKickRet: {
		Category: CategoryKickRet,
		Prefix:   "kret_",
	},
	CategoryPuntRet: {
		Category: CategoryPuntRet,
		Prefix:   "pret_",
	},
	CategoryDefense: {
		Category: CategoryDefense,
		Prefix:   "def_",
	},
}

func init() {
	for category, schema := range schemas {
		schema.Known = true
		schemas[category] = schema
	}
}

// SchemaFor returns the declared schema for name, or a passthrough schema
// prefixed with "<name>_" when the category is not part of the enumeration.
func SchemaFor(name string) Schema {
	category := Category(strings.ToLower(strings.TrimSpace(name)))
	if schema, ok := schemas[category]; ok {
		return schema
	}
	return Schema{
		Category: category,
		Prefix:   string(category) + "_",
	}
}

// Column returns the table column for a field of this category.
func (s Schema) Column(field string) string {
	return s.Prefix + field
}
