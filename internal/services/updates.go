package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidUpdates is returned when an update names a field outside its allow-list.
var ErrInvalidUpdates = errors.New("invalid updates")

// Updatable fields per entity
var (
	UserUpdatableFields = []string{"name", "email", "password", "age"}
	TaskUpdatableFields = []string{"description", "completed"}
)

// InvalidUpdatesError lists the rejected keys of an update.
type InvalidUpdatesError struct {
	Fields []string
}

func (e *InvalidUpdatesError) Error() string {
	return fmt.Sprintf("invalid updates: %s", strings.Join(e.Fields, ", "))
}

func (e *InvalidUpdatesError) Is(target error) bool {
	return target == ErrInvalidUpdates
}

// decodeUpdates rejects the whole update when any key is not allowed, then
// decodes the body into dst. Present keys carrying null are validation errors.
func decodeUpdates(raw map[string]json.RawMessage, allowed []string, dst interface{}) error {
	var rejected []string
	for key := range raw {
		if !contains(allowed, key) {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return &InvalidUpdatesError{Fields: rejected}
	}

	var errs FieldErrors
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if string(raw[key]) == "null" {
			errs = errs.Add(&FieldError{Field: key, Message: "Value must not be null"})
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to re-encode updates: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return FieldErrors{{Field: typeErr.Field, Message: "Value has the wrong type"}}.Err()
		}
		return fmt.Errorf("failed to decode updates: %w", err)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
