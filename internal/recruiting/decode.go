package recruiting

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Ref is a foreign key that the backend renders either as a bare id or as an expanded object.
type Ref int64

var refType = reflect.TypeOf(Ref(0))

// decode normalizes a loosely typed payload into target. Numbers given as strings,
// expanded foreign keys and JSON documents stored in text columns are all accepted.
// Malformed optional values decode to their zero value instead of failing the payload.
func decode(input any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			refHook,
			jsonTextHook,
			scalarHook,
			objectHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// decodeItems decodes every item of a list response into a slice of T.
func decodeItems[T any](items []Item) ([]*T, error) {
	result := make([]*T, 0, len(items))
	for idx, item := range items {
		if item == nil {
			continue
		}
		value := new(T)
		if err := decode(item, value); err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		result = append(result, value)
	}
	return result, nil
}

// refHook collapses expanded objects ({"id": 3, ...}) and numeric strings into a Ref.
func refHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != refType {
		return data, nil
	}

	switch v := data.(type) {
	case nil:
		return Ref(0), nil
	case map[string]any:
		return refFromValue(v["id"]), nil
	default:
		return refFromValue(v), nil
	}
}

func refFromValue(v any) Ref {
	switch val := v.(type) {
	case float64:
		return Ref(val)
	case int:
		return Ref(val)
	case int64:
		return Ref(val)
	case json.Number:
		n, _ := val.Int64()
		return Ref(n)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0
		}
		return Ref(n)
	default:
		return 0
	}
}

// jsonTextHook parses text columns that hold JSON documents when the target is a slice or a map.
// Unparsable text falls back to an empty value.
func jsonTextHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	if to.Kind() != reflect.Slice && to.Kind() != reflect.Map {
		return data, nil
	}

	text := strings.TrimSpace(reflect.ValueOf(data).String())
	if text == "" {
		return emptyOf(to), nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return emptyOf(to), nil
	}

	switch parsed.(type) {
	case []any:
		if to.Kind() == reflect.Slice {
			return parsed, nil
		}
	case map[string]any:
		if to.Kind() == reflect.Map {
			return parsed, nil
		}
	}

	return emptyOf(to), nil
}

// emptyOf returns an empty, non-nil value of a slice or map type. A bare nil would be
// lifted into a one-element slice by weakly typed decoding.
func emptyOf(t reflect.Type) any {
	if t.Kind() == reflect.Map {
		return reflect.MakeMap(t).Interface()
	}
	return reflect.MakeSlice(t, 0, 0).Interface()
}

// scalarHook coerces values of the wrong shape into bool, number and string fields.
// Unparsable text becomes the zero value; nested documents in text fields are kept as JSON.
func scalarHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Bool:
		return boolFromValue(data), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if to == refType {
			return data, nil
		}
		return numberFromValue(data), nil
	case reflect.String:
		switch data.(type) {
		case map[string]any, []any:
			raw, err := json.Marshal(data)
			if err != nil {
				return "", nil
			}
			return string(raw), nil
		}
	}
	return data, nil
}

func boolFromValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val)))
		return err == nil && b
	default:
		return false
	}
}

func numberFromValue(v any) any {
	switch val := v.(type) {
	case float64, float32, int, int64, int32, uint, uint64, json.Number, bool:
		return val
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return float64(0)
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return float64(0)
		}
		return n
	default:
		return float64(0)
	}
}

// objectHook accepts nested objects stored as JSON text and drops anything else that is
// not an object. It must run last: the nil it returns for a dropped object ends the chain.
func objectHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Ptr || to.Elem().Kind() != reflect.Struct {
		return data, nil
	}

	switch val := data.(type) {
	case map[string]any:
		return val, nil
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(val)), &parsed); err != nil {
			return nil, nil
		}
		return parsed, nil
	default:
		return nil, nil
	}
}
