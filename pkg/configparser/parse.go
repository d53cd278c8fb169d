package configparser

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var ErrNotStructPointer = errors.New("config must be a non-nil pointer to a struct")

// ParseEnv fills fields tagged with `env:"NAME"` from the environment,
// falling back to the `default:"..."` tag. Nested structs are walked recursively.
func ParseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return parseStruct(v.Elem())
}

func parseStruct(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		value := v.Field(i)

		if !field.IsExported() {
			continue
		}

		envName, hasEnv := field.Tag.Lookup("env")
		if !hasEnv {
			if value.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
				if err := parseStruct(value); err != nil {
					return err
				}
			}
			continue
		}

		raw, ok := os.LookupEnv(envName)
		if !ok || raw == "" {
			raw, ok = field.Tag.Lookup("default")
		}
		if !ok {
			continue
		}

		if err := setValue(value, raw); err != nil {
			return fmt.Errorf("%s: %w", envName, err)
		}
	}
	return nil
}

func setValue(v reflect.Value, raw string) error {
	if v.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, v.Type())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(raw)
		if err != nil {
			return err
		}
		if v.OverflowUint(n) {
			return fmt.Errorf("value %d overflows %s", n, v.Type())
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", v.Type())
		}
		v.Set(reflect.ValueOf(cast.ToStringSlice(splitList(raw))))
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
