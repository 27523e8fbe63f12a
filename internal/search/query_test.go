package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var lessons = []bson.M{
	{"subject": "Math", "location": "London", "price": int64(15), "spaces": int64(8)},
	{"subject": "English", "location": "Leeds", "price": int64(12), "spaces": int64(5)},
	{"subject": "Art", "location": "Lon.don", "price": 10.0, "spaces": int64(15)},
	{"subject": "Room 15", "location": "Bath", "price": int32(9), "spaces": int32(5)},
	{"subject": "Legacy", "location": "Leeds", "price": 30.0, "space": int32(15)},
	{"subject": 15, "location": nil},
}

func matching(f Filter) []string {
	match := f.Matcher()
	var out []string
	for _, doc := range lessons {
		if match(doc) {
			s, _ := doc["subject"].(string)
			out = append(out, s)
		}
	}
	return out
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		q       string
		empty   bool
		numeric bool
		number  float64
		pattern string
	}{
		{name: "blank", q: "   ", empty: true},
		{name: "empty", q: "", empty: true},
		{name: "word", q: " Math ", pattern: "Math"},
		{name: "integer", q: "15", numeric: true, number: 15, pattern: "15"},
		{name: "decimal", q: "12.5", numeric: true, number: 12.5, pattern: `12\.5`},
		{name: "hex", q: "0x0f", numeric: true, number: 15, pattern: "0x0f"},
		{name: "upper hex", q: "0X1F", numeric: true, number: 31, pattern: "0X1F"},
		{name: "octal", q: "0o17", numeric: true, number: 15, pattern: "0o17"},
		{name: "binary", q: "0b101", numeric: true, number: 5, pattern: "0b101"},
		{name: "exponent", q: "1e3", numeric: true, number: 1000, pattern: "1e3"},
		{name: "signed decimal", q: "-2", numeric: true, number: -2, pattern: "-2"},
		{name: "digit separator is text", q: "1_000", pattern: "1_000"},
		{name: "signed hex is text", q: "-0x1f", pattern: "-0x1f"},
		{name: "hex float is text", q: "0x1p4", pattern: "0x1p4"},
		{name: "bare prefix is text", q: "0x", pattern: "0x"},
		{name: "nan is not a number", q: "NaN", pattern: "NaN"},
		{name: "infinity is not a number", q: "Infinity", pattern: "Infinity"},
		{name: "metacharacters escaped", q: "Lon.(", pattern: `Lon\.\(`},
		{name: "partially numeric", q: "15 London", pattern: "15 London"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			f := Parse(testCase.q)

			assert.Equal(t, testCase.empty, f.Empty())
			assert.Equal(t, testCase.numeric, f.IsNumeric)
			assert.Equal(t, testCase.number, f.Number)
			assert.Equal(t, testCase.pattern, f.Pattern)
		})
	}
}

func TestFilter_BSON(t *testing.T) {
	t.Run("empty filter selects everything", func(t *testing.T) {
		assert.Equal(t, bson.M{}, Parse("").BSON())
	})

	t.Run("text query only matches text fields", func(t *testing.T) {
		doc := Parse("lon.").BSON()

		or, ok := doc["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 2)
		assert.Equal(t, bson.M{"subject": bson.M{"$regex": primitive.Regex{Pattern: `lon\.`, Options: "i"}}}, or[0])
		assert.Equal(t, bson.M{"location": bson.M{"$regex": primitive.Regex{Pattern: `lon\.`, Options: "i"}}}, or[1])
	})

	t.Run("numeric query adds equality on price, spaces and space", func(t *testing.T) {
		doc := Parse("15").BSON()

		or, ok := doc["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 5)
		assert.Equal(t, bson.M{"price": 15.0}, or[2])
		assert.Equal(t, bson.M{"spaces": 15.0}, or[3])
		assert.Equal(t, bson.M{"space": 15.0}, or[4])
	})
}

func TestFilter_Matcher(t *testing.T) {
	t.Run("empty query matches all", func(t *testing.T) {
		assert.Len(t, matching(Parse(" ")), len(lessons))
	})

	t.Run("number matches price, spaces, legacy space and substrings", func(t *testing.T) {
		assert.Equal(t, []string{"Math", "Art", "Room 15", "Legacy"}, matching(Parse("15")))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"English", "Legacy"}, matching(Parse("LEEDS")))
	})

	t.Run("dot is literal", func(t *testing.T) {
		assert.Equal(t, []string{"Art"}, matching(Parse("Lon.")))
	})

	t.Run("regex syntax does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			assert.Empty(t, matching(Parse("(a+)+$[")))
		})
	})

	t.Run("invalid utf-8 matches nothing", func(t *testing.T) {
		assert.NotPanics(t, func() {
			assert.Empty(t, matching(Parse("\xff")))
			assert.Empty(t, matching(Parse("Lon\xfe")))
		})
	})
}
