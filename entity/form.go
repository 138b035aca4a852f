package entity

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const formTag = "form"

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	scannerType         = reflect.TypeFor[sql.Scanner]()
	timeType            = reflect.TypeFor[time.Time]()

	// ErrNotStructPointer is returned by DecodeForm for destinations that
	// are not a pointer to a struct.
	ErrNotStructPointer = errors.New("destination must be a pointer to a struct")
)

// timeLayouts are tried in order when decoding time.Time values, covering
// RFC 3339 and the formats of HTML date and datetime-local inputs.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// DecodeForm fills the fields of dst tagged with `form:"name"` from values.
// Missing and empty values leave the field untouched, so nullable fields
// stay NULL.
func DecodeForm(values url.Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name := sf.Tag.Get(formTag)
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		if err := decodeValue(rv.Field(i), raw); err != nil {
			return &FieldError{Field: name, Err: err}
		}
	}
	return nil
}

func decodeValue(v reflect.Value, raw string) error {
	if v.Type() == timeType {
		t, err := parseTime(raw)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}
	ptr := v.Addr()
	if ptr.Type().Implements(scannerType) {
		return ptr.Interface().(sql.Scanner).Scan(raw)
	}
	if ptr.Type().Implements(textUnmarshalerType) {
		return ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported field type %s", v.Type())
		}
		v.SetBytes([]byte(raw))
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", raw)
}

// EncodeForm is the inverse of DecodeForm: it renders the form tagged fields
// of src as url.Values. NULL values are left out.
func EncodeForm(src any) (url.Values, error) {
	rv := reflect.Indirect(reflect.ValueOf(src))
	if rv.Kind() != reflect.Struct {
		return nil, ErrNotStructPointer
	}
	values := url.Values{}
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name := sf.Tag.Get(formTag)
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		s, ok, err := encodeValue(rv.Field(i))
		if err != nil {
			return nil, &FieldError{Field: name, Err: err}
		}
		if ok {
			values.Set(name, s)
		}
	}
	return values, nil
}

func encodeValue(v reflect.Value) (string, bool, error) {
	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano), true, nil
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil || dv == nil {
			return "", false, err
		}
		return formatDriverValue(dv), true, nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		return string(b), err == nil, err
	}
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return string(v.Bytes()), true, nil
	}
	return fmt.Sprint(v.Interface()), true, nil
}

func formatDriverValue(v driver.Value) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

// ParseID parses a path parameter into an id of type ID. uuid.UUID, string,
// int64 and any encoding.TextUnmarshaler are supported.
func ParseID[ID any](s string) (ID, error) {
	var id ID
	switch p := any(&id).(type) {
	case *uuid.UUID:
		u, err := uuid.Parse(s)
		if err != nil {
			return id, fmt.Errorf("invalid id %q: %w", s, err)
		}
		*p = u
	case *string:
		*p = s
	case *int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return id, fmt.Errorf("invalid id %q: %w", s, err)
		}
		*p = n
	case encoding.TextUnmarshaler:
		if err := p.UnmarshalText([]byte(s)); err != nil {
			return id, fmt.Errorf("invalid id %q: %w", s, err)
		}
	default:
		return id, fmt.Errorf("unsupported id type %T", id)
	}
	return id, nil
}
