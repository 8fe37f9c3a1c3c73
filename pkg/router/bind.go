package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// bind fills the request struct from the JSON body (POST), query parameters
// (GET) and path wildcards (`uri` tag).
func bind(req *http.Request, method string, out any) error {
	if method == http.MethodPost && req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}

		if len(body) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return err
			}
		}
	}

	value := reflect.ValueOf(out).Elem()
	if value.Kind() != reflect.Struct {
		return fmt.Errorf("expected a struct request, got %T", out)
	}

	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if uriName := field.Tag.Get("uri"); uriName != "" {
			if v := req.PathValue(uriName); v != "" {
				if err := setField(value.Field(i), v); err != nil {
					return fmt.Errorf("invalid path value %s: %w", uriName, err)
				}
			}
			continue
		}

		if method != http.MethodGet {
			continue
		}

		name := field.Name
		if jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ","); jsonName != "" {
			if jsonName == "-" {
				continue
			}
			name = jsonName
		}

		if v := req.URL.Query().Get(name); v != "" {
			if err := setField(value.Field(i), v); err != nil {
				return fmt.Errorf("invalid query value %s: %w", name, err)
			}
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		field.Set(reflect.ValueOf(strings.Split(raw, ",")))

	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}

	return nil
}
