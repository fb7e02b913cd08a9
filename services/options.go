package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// optionShape is the closed set of layouts NormalizeOptions understands.
type optionShape int

const (
	shapeEmpty optionShape = iota
	shapeList
	shapeJSONString
	shapeDelimited
	shapeSingleObject
	shapeObjectValues
	shapeScalar
)

// NormalizeOptions converts any stored or submitted option layout into an
// ordered list of options. It never fails: input it cannot make sense of
// becomes an empty or single-element list.
func NormalizeOptions(raw any) []Option {
	raw = unwrap(raw)

	switch classify(raw) {
	case shapeEmpty:
		return []Option{}
	case shapeList:
		return fromList(raw.([]any))
	case shapeJSONString:
		return fromJSONString(raw.(string))
	case shapeDelimited:
		return fromDelimited(raw.(string))
	case shapeSingleObject:
		m := raw.(map[string]any)
		return []Option{{ID: pickID(m, "0"), Text: pickText(m)}}
	case shapeObjectValues:
		return fromList(orderedValues(raw.(map[string]any)))
	default:
		return []Option{{ID: "0", Text: stringify(raw)}}
	}
}

// unwrap turns typed Go inputs into the generic JSON shapes classify expects.
func unwrap(raw any) any {
	switch v := raw.(type) {
	case datatypes.JSON:
		return decodeBytes(v)
	case json.RawMessage:
		return decodeBytes(v)
	case []byte:
		return string(v)
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case []Option:
		out := make([]any, len(v))
		for i, o := range v {
			out[i] = map[string]any{"id": o.ID, "text": o.Text}
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []any, map[string]any, string, nil, bool, json.Number, float64, float32,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v
	default:
		// Unknown Go values go through their JSON form.
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return decodeBytes(b)
	}
}

// decodeBytes decodes a JSON column value. Bytes that are not valid JSON
// are handed back as a string so the delimited fallback can handle them.
func decodeBytes(b []byte) any {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(b)
	}
	return v
}

func classify(raw any) optionShape {
	switch v := raw.(type) {
	case nil:
		return shapeEmpty
	case []any:
		return shapeList
	case string:
		if strings.TrimSpace(v) == "" {
			return shapeEmpty
		}
		if _, ok := parseJSONContainer(v); ok {
			return shapeJSONString
		}
		return shapeDelimited
	case map[string]any:
		for _, k := range []string{"id", "text", "value"} {
			if _, ok := v[k]; ok {
				return shapeSingleObject
			}
		}
		return shapeObjectValues
	default:
		return shapeScalar
	}
}

// parseJSONContainer reports whether s is JSON encoding a list, an object or
// another string. Bare JSON scalars such as "42" are treated as plain text.
func parseJSONContainer(s string) (any, bool) {
	v := decodeBytes([]byte(s))
	switch t := v.(type) {
	case []any, map[string]any:
		return t, true
	case string:
		// decodeBytes hands invalid JSON back unchanged.
		return t, t != s
	}
	return nil, false
}

func fromJSONString(s string) []Option {
	v, _ := parseJSONContainer(s)
	return NormalizeOptions(v)
}

func fromDelimited(s string) []Option {
	var parts []string
	switch {
	case strings.Contains(s, "|"):
		parts = strings.Split(s, "|")
	case strings.Contains(s, ","):
		parts = strings.Split(s, ",")
	default:
		parts = []string{s}
	}
	out := make([]Option, len(parts))
	for i, p := range parts {
		out[i] = Option{ID: strconv.Itoa(i), Text: strings.TrimSpace(p)}
	}
	return out
}

func fromList(items []any) []Option {
	out := make([]Option, len(items))
	for i, item := range items {
		idx := strconv.Itoa(i)
		switch v := item.(type) {
		case nil:
			out[i] = Option{ID: idx, Text: ""}
		case map[string]any:
			out[i] = Option{ID: pickID(v, idx), Text: pickText(v)}
		default:
			out[i] = Option{ID: idx, Text: stringify(v)}
		}
	}
	return out
}

func pickID(m map[string]any, fallback string) string {
	for _, k := range []string{"id", "key"} {
		if v, ok := m[k]; ok && v != nil {
			return stringify(v)
		}
	}
	return fallback
}

func pickText(m map[string]any) string {
	for _, k := range []string{"text", "label", "value"} {
		if v, ok := m[k]; ok && v != nil {
			return stringify(v)
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// orderedValues returns map values with integer-like keys first in numeric
// order and the remaining keys after them in lexical order.
func orderedValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.ParseUint(keys[i], 10, 64)
		nj, errJ := strconv.ParseUint(keys[j], 10, 64)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// EncodeOptions renders options in their canonical stored form.
func EncodeOptions(opts []Option) datatypes.JSON {
	if opts == nil {
		opts = []Option{}
	}
	b, _ := json.Marshal(opts)
	return datatypes.JSON(b)
}

// HasOption reports whether id names one of opts.
func HasOption(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
