package bind

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// decodeQuery fills dest (a pointer to struct) from r.URL.Query based
// on `query:"name"` tags. Missing parameters leave zero values.
func decodeQuery(r *http.Request, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: query target must be a pointer to struct, got %T", dest)
	}

	values := r.URL.Query()
	elem := rv.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("query")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		raw := values.Get(name)
		if raw == "" {
			continue
		}

		field := elem.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("bind: query param %q must be an integer", name)
			}
			field.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("bind: query param %q must be a boolean", name)
			}
			field.SetBool(b)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Split(raw, ",")))
			}
		}
	}
	return nil
}
