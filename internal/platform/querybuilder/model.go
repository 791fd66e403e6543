package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// columnPlan maps db columns to struct field indexes for one model type.
type columnPlan struct {
	columns []string
	fields  []int
}

var plans sync.Map // reflect.Type -> columnPlan

// InsertModels builds one multi-row INSERT from structs (or pointers to
// structs) whose exported fields carry db tags. Tags marked readonly and
// fields tagged "-" are left out.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	plan, err := planFor(typ)
	if err != nil {
		return "", nil, err
	}

	builder := InsertInto(table).Columns(plan.columns...).Suffix(suffix)
	for i, model := range models {
		value := reflect.ValueOf(model)
		for value.Kind() == reflect.Pointer {
			if value.IsNil() {
				return "", nil, fmt.Errorf("model %d is nil", i)
			}
			value = value.Elem()
		}
		row := make([]any, len(plan.fields))
		for j, field := range plan.fields {
			row[j] = value.Field(field).Interface()
		}
		builder.Values(row...)
	}
	return builder.ToSQL()
}

func planFor(typ reflect.Type) (columnPlan, error) {
	if cached, ok := plans.Load(typ); ok {
		return cached.(columnPlan), nil
	}
	if typ.Kind() != reflect.Struct {
		return columnPlan{}, fmt.Errorf("model must be a struct, got %s", typ.Kind())
	}

	var plan columnPlan
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" || slices.Contains(strings.Split(opts, ","), "readonly") {
			continue
		}
		plan.columns = append(plan.columns, name)
		plan.fields = append(plan.fields, i)
	}
	if len(plan.columns) == 0 {
		return columnPlan{}, fmt.Errorf("model %s has no db columns", typ)
	}

	plans.Store(typ, plan)
	return plan, nil
}
