package util

import (
	"reflect"

	"github.com/pkg/errors"
)

// IsStructInitialized reports an error for the first nil pointer, interface, map or slice field
// of the struct pointed to by s. Fields tagged `wire:"-"` are skipped.
func IsStructInitialized(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return errors.New("struct is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := range v.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("wire") == "-" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if v.Field(i).IsNil() {
				return errors.Errorf("struct field %s is not initialized", field.Name)
			}
		default:
		}
	}

	return nil
}
