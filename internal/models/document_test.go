package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeDocument(t *testing.T) {
	t.Run("numbers keep integer type", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(`{"spaces": 4, "price": 12.5, "tags": [1, {"n": 2}]}`))
		require.NoError(t, err)

		assert.Equal(t, bson.M{
			"spaces": int64(4),
			"price":  12.5,
			"tags":   []any{int64(1), map[string]any{"n": int64(2)}},
		}, doc)
	})

	t.Run("rejects non objects", func(t *testing.T) {
		for _, body := range []string{`null`, `[]`, `[{"a":1}]`, `"text"`, `4`, ``, `{"a":`, `{} {}`} {
			_, err := DecodeDocument([]byte(body))
			assert.Error(t, err, body)
		}
	})

	t.Run("empty object decodes", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(` {} `))
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("rejects numbers beyond float64", func(t *testing.T) {
		for _, body := range []string{`{"price": 1e400}`, `{"price": -1e400}`, `{"items": [{"n": 2e308}]}`} {
			_, err := DecodeDocument([]byte(body))
			assert.ErrorIs(t, err, errNonFiniteNum, body)
		}
	})

	t.Run("large integers fall back to float", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(`{"n": 99999999999999999999}`))
		require.NoError(t, err)
		assert.Equal(t, 1e20, doc["n"])
	})
}
