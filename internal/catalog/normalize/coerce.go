package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

var (
	errMissing = errors.New("is required")
	errType    = errors.New("has an unsupported type")
)

// asString accepts strings and plain numbers.
func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", errType
	}
}

// asFloat accepts numeric values and strings that parse as a finite number.
func asFloat(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case int:
		f = float64(t)
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("is not a number: %q", t.String())
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("is not a number: %q", t)
		}
		f = p
	default:
		return 0, errType
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("is not a finite number")
	}
	return f, nil
}

// asInt accepts integers, integral floats and strings holding either.
func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int64:
		return int(t), nil
	case int:
		return t, nil
	}
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("is not an integer: %v", f)
	}
	if f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("is out of range: %v", f)
	}
	return int(f), nil
}

func asBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("is not a boolean: %q", t)
		}
		return b, nil
	default:
		return false, errType
	}
}

// asTime accepts time.Time, RFC3339 strings and {seconds, nanoseconds} maps.
func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, fmt.Errorf("is not an RFC3339 timestamp: %q", t)
		}
		return ts.UTC(), nil
	case map[string]any:
		secRaw, ok := t["seconds"]
		if !ok {
			return time.Time{}, errType
		}
		sec, err := asInt(secRaw)
		if err != nil {
			return time.Time{}, err
		}
		var nsec int
		if n, ok := t["nanoseconds"]; ok {
			if nsec, err = asInt(n); err != nil {
				return time.Time{}, err
			}
		}
		return time.Unix(int64(sec), int64(nsec)).UTC(), nil
	default:
		return time.Time{}, errType
	}
}

func asStrings(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is not a string", i)
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	default:
		return nil, errType
	}
}

// asReferences accepts a sequence of references or "collection/id" paths. A single
// reference is read as a one-element sequence.
func asReferences(v any) ([]domain.Reference, error) {
	switch t := v.(type) {
	case domain.Reference:
		return asReferences([]any{t})
	case []domain.Reference:
		return asReferences(anySlice(t))
	case []any:
		out := make([]domain.Reference, 0, len(t))
		for i, e := range t {
			ref, err := asReference(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, ref)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: not a reference sequence", domain.ErrMalformedReference)
	}
}

func asReference(v any) (domain.Reference, error) {
	switch t := v.(type) {
	case domain.Reference:
		if !t.Valid() {
			return domain.Reference{}, fmt.Errorf("%w: %q", domain.ErrMalformedReference, t.String())
		}
		return t, nil
	case *domain.Reference:
		if t == nil {
			return domain.Reference{}, fmt.Errorf("%w: nil", domain.ErrMalformedReference)
		}
		return asReference(*t)
	case string:
		return domain.ParseReference(t)
	default:
		return domain.Reference{}, fmt.Errorf("%w: unexpected %T", domain.ErrMalformedReference, v)
	}
}

func anySlice(refs []domain.Reference) []any {
	out := make([]any, len(refs))
	for i, r := range refs {
		out[i] = r
	}
	return out
}

// dedupe keeps the first occurrence of each non-empty string.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
