package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	errNotObject    = errors.New("body is not a JSON object")
	errNonFiniteNum = errors.New("number out of range")
)

// DecodeDocument parses a JSON object body into a document. Integral
// numbers become int64 and the rest float64, so values written through the
// API keep the types the seed data uses. Numbers that overflow float64 are
// rejected: a stored infinity cannot be rendered back as JSON.
func DecodeDocument(body []byte) (bson.M, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	if _, err := normalize(obj); err != nil {
		return nil, err
	}
	return bson.M(obj), nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %s", errNonFiniteNum, t)
		}
		return f, nil
	case map[string]any:
		for k, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []any:
		for i, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
