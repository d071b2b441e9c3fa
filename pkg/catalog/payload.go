package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"

	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
)

var (
	// ErrMalformedPayload is returned if the payload is neither an envelope
	// {"items": [...]} nor a list
	ErrMalformedPayload = errors.New("malformed catalog payload")
	// ErrMalformedItem is returned if the list elements are neither strings
	// nor objects
	ErrMalformedItem = errors.New("malformed catalog item")
)

var (
	itemsPath = jp.MustParseString("$.items")
	totalPath = jp.MustParseString("$.total")
)

// entity is the common shape of cars and tracks within a payload
type entity struct {
	ID      int
	Name    string
	Variant string
}

type parseResult struct {
	items []entity
	total int // -1 if not provided
}

// ParseCars decodes a raw JSON payload of the cars endpoint
func ParseCars(raw []byte) ([]model.CarEntity, error) {
	res, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	return toCars(res.items), nil
}

// ParseTracks decodes a raw JSON payload of the tracks endpoint
func ParseTracks(raw []byte) ([]model.TrackEntity, error) {
	res, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	return toTracks(res.items), nil
}

func toCars(items []entity) []model.CarEntity {
	ret := make([]model.CarEntity, len(items))
	for i, e := range items {
		ret[i] = model.CarEntity{ID: e.ID, Name: e.Name}
	}
	return ret
}

func toTracks(items []entity) []model.TrackEntity {
	ret := make([]model.TrackEntity, len(items))
	for i, e := range items {
		ret[i] = model.TrackEntity{ID: e.ID, Name: e.Name, Variant: e.Variant}
	}
	return ret
}

// parsePayload accepts raw JSON (as []byte, string or json.RawMessage) or an
// already decoded generic value.
//
//nolint:cyclop // type switch
func parsePayload(payload any) (*parseResult, error) {
	var data any
	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrMalformedPayload)
	case []byte:
		return parseRaw(p)
	case json.RawMessage:
		return parseRaw(p)
	case string:
		return parseRaw([]byte(p))
	case []string:
		data = lo.ToAnySlice(p)
	case []map[string]any:
		data = lo.ToAnySlice(p)
	default:
		data = payload
	}
	return parseGeneric(data)
}

func parseRaw(raw []byte) (*parseResult, error) {
	data, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return parseGeneric(data)
}

func parseGeneric(data any) (*parseResult, error) {
	switch d := data.(type) {
	case map[string]any:
		found := itemsPath.Get(d)
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: object without items", ErrMalformedPayload)
		}
		list, ok := found[0].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: items is %T, not a list", ErrMalformedPayload, found[0])
		}
		items, err := parseList(list)
		if err != nil {
			return nil, err
		}
		res := &parseResult{items: items, total: -1}
		if t, ok := toInt(totalPath.First(d)); ok {
			res.total = t
		}
		return res, nil
	case []any:
		items, err := parseList(d)
		if err != nil {
			return nil, err
		}
		return &parseResult{items: items, total: -1}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected type %T", ErrMalformedPayload, data)
	}
}

// parseList decides by the first element: a list of strings is numbered by
// position, a list of objects is mapped field by field. Elements not matching
// the kind of the first element are skipped.
func parseList(list []any) ([]entity, error) {
	if len(list) == 0 {
		return []entity{}, nil
	}
	ret := make([]entity, 0, len(list))
	switch list[0].(type) {
	case string:
		for i, v := range list {
			if s, ok := v.(string); ok {
				ret = append(ret, entity{ID: i, Name: s})
			}
		}
	case map[string]any:
		for _, v := range list {
			if m, ok := v.(map[string]any); ok {
				ret = append(ret, entityFromMap(m))
			}
		}
	default:
		return nil, fmt.Errorf("%w: unexpected element type %T", ErrMalformedItem, list[0])
	}
	return ret, nil
}

func entityFromMap(m map[string]any) entity {
	e := entity{}
	e.ID, _ = toInt(m["id"])
	e.Name, _ = m["name"].(string)
	e.Variant, _ = m["variant"].(string)
	return e
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
