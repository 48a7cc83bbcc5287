package postgres

import (
	"reflect"
	"sync"
)

// Repositories map entities to rows through `db` struct tags. Both helpers
// below flatten embedded structs (entity.Catalog, entity.Document) so a
// domain type contributes one column per tagged field, wherever it sits in
// the embedding chain.

// dbField is one tagged field, addressable through the embedding chain.
type dbField struct {
	column string
	index  []int // for reflect.Value.FieldByIndex
}

var fieldPlans sync.Map // reflect.Type -> []dbField

// fieldsOf returns the flattened tagged fields of t, computing and caching
// the plan on first use.
func fieldsOf(t reflect.Type) []dbField {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := fieldPlans.Load(t); ok {
		return cached.([]dbField)
	}
	plan := walkFields(t, nil)
	fieldPlans.Store(t, plan)
	return plan
}

func walkFields(t reflect.Type, prefix []int) []dbField {
	var plan []dbField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if f.Anonymous {
			et := f.Type
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				plan = append(plan, walkFields(et, path)...)
			}
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		plan = append(plan, dbField{column: tag, index: path})
	}
	return plan
}

// ExtractDBColumns lists the column names of T in declaration order.
// Repositories call it once at construction to build their SELECT lists.
func ExtractDBColumns[T any]() []string {
	var zero T
	plan := fieldsOf(reflect.TypeOf(zero))
	cols := make([]string, len(plan))
	for i, f := range plan {
		cols[i] = f.column
	}
	return cols
}

// StructToMap converts an entity to a column->value map for INSERT/UPDATE
// builders. Untagged fields and `db:"-"` fields are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	plan := fieldsOf(rv.Type())
	res := make(map[string]any, len(plan))
	for _, f := range plan {
		res[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}
