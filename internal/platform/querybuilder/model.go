package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel inserts one struct using its `db` tags as columns.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// InsertModels inserts many structs of the same type in one statement.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}
	b := InsertInto(table).Suffix(suffix)
	for i, m := range models {
		cols, vals, err := columnsAndValues(m)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.Columns(cols...)
		}
		b.Values(vals...)
	}
	return b.ToSQL()
}

// UpsertModels inserts structs and overwrites every non-key column on
// conflict with the given key.
func UpsertModels[T any](table string, models []T, key ...string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("upsert models are required")
	}
	cols, _, err := columnsAndValues(models[0])
	if err != nil {
		return "", nil, err
	}
	return InsertModels(table, models, conflictClause(cols, key))
}

func conflictClause(cols, key []string) string {
	isKey := make(map[string]struct{}, len(key))
	for _, k := range key {
		isKey[k] = struct{}{}
	}
	updates := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := isKey[c]; ok {
			continue
		}
		updates = append(updates, c+" = EXCLUDED."+c)
	}
	if len(updates) == 0 {
		return "ON CONFLICT (" + strings.Join(key, ", ") + ") DO NOTHING"
	}
	return "ON CONFLICT (" + strings.Join(key, ", ") + ") DO UPDATE SET " + strings.Join(updates, ", ")
}

func columnsAndValues(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
