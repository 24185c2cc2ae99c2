// Package docjson maps document fields to and from plain JSON. References and
// timestamps, which JSON has no type for, are written as tagged objects:
//
//	{"$ref": "creators/c1"}
//	{"$timestamp": "2024-05-01T10:00:00Z"}
package docjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

const (
	refKey       = "$ref"
	timestampKey = "$timestamp"
	idKey        = "id"
)

// DecodeFields parses a JSON object into document fields.
func DecodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	out, err := convertMap(raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeFields renders document fields as a JSON object.
func EncodeFields(fields map[string]any) ([]byte, error) {
	enc, err := encodeValue(fields)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// DecodeCollections reads a seed file shaped as
// {"<collection>": [{"id": "...", <fields>}, ...], ...}. Documents keep file order.
func DecodeCollections(r io.Reader) (map[string][]domain.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string][]map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make(map[string][]domain.Document, len(raw))
	for coll, items := range raw {
		docs := make([]domain.Document, 0, len(items))
		for i, item := range items {
			id, _ := item[idKey].(string)
			if id == "" {
				return nil, fmt.Errorf("decode seed: %s[%d] has no id", coll, i)
			}
			delete(item, idKey)
			fields, err := convertMap(item)
			if err != nil {
				return nil, fmt.Errorf("decode seed: %s/%s: %w", coll, id, err)
			}
			docs = append(docs, domain.NewDocument(coll, id, fields))
		}
		out[coll] = docs
	}
	return out, nil
}

func convertMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		c, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = c
	}
	return out, nil
}

func convert(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			c, err := convert(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		// A tag that does not parse stays a plain object so normalization can
		// reject the one document that holds it.
		if len(t) == 1 {
			if path, ok := t[refKey].(string); ok {
				if ref, err := domain.ParseReference(path); err == nil {
					return ref, nil
				}
				return t, nil
			}
			if ts, ok := t[timestampKey].(string); ok {
				if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
					return parsed.UTC(), nil
				}
				return t, nil
			}
		}
		return convertMap(t)
	default:
		return v, nil
	}
}

func encodeValue(v any) (any, error) {
	switch t := v.(type) {
	case domain.Reference:
		return map[string]string{refKey: t.String()}, nil
	case time.Time:
		return map[string]string{timestampKey: t.UTC().Format(time.RFC3339Nano)}, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			enc, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			enc, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	default:
		return v, nil
	}
}
