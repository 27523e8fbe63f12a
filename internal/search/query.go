// Package search turns the free-text lesson query into a filter description
// that the stores evaluate. It has no dependency on a live database.
package search

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TextFields are matched case-insensitively as literal substrings.
var TextFields = []string{"subject", "location"}

// NumericFields are matched by exact equality when the query is a number.
// "space" is a legacy spelling still present in older datasets.
var NumericFields = []string{"price", "spaces", "space"}

// Filter describes a lesson search. The zero value matches every lesson.
type Filter struct {
	Text      string
	Pattern   string
	Number    float64
	IsNumeric bool
}

// Parse builds a Filter from the raw q parameter.
func Parse(q string) Filter {
	text := strings.TrimSpace(q)
	if text == "" {
		return Filter{}
	}

	f := Filter{
		Text:    text,
		Pattern: regexp.QuoteMeta(text),
	}
	if n, ok := parseNumber(text); ok {
		f.Number = n
		f.IsNumeric = true
	}
	return f
}

func (f Filter) Empty() bool {
	return f.Text == ""
}

// BSON renders the filter as a MongoDB query document.
func (f Filter) BSON() bson.M {
	if f.Empty() {
		return bson.M{}
	}

	or := bson.A{}
	for _, field := range TextFields {
		or = append(or, bson.M{field: bson.M{"$regex": primitive.Regex{Pattern: f.Pattern, Options: "i"}}})
	}
	if f.IsNumeric {
		for _, field := range NumericFields {
			or = append(or, bson.M{field: f.Number})
		}
	}
	return bson.M{"$or": or}
}

// Matcher returns a predicate equivalent to BSON for documents held in memory.
func (f Filter) Matcher() func(doc bson.M) bool {
	if f.Empty() {
		return func(bson.M) bool { return true }
	}

	// invalid UTF-8 in the query compiles to nothing and matches no text
	re, err := regexp.Compile("(?i)" + f.Pattern)
	if err != nil {
		re = nil
	}
	return func(doc bson.M) bool {
		for _, field := range TextFields {
			if re == nil {
				break
			}
			if s, ok := doc[field].(string); ok && re.MatchString(s) {
				return true
			}
		}
		if !f.IsNumeric {
			return false
		}
		for _, field := range NumericFields {
			if n, ok := toFloat(doc[field]); ok && n == f.Number {
				return true
			}
		}
		return false
	}
}

// parseNumber accepts decimal numbers and unsigned 0x, 0o and 0b integer
// literals. Digit separators, signed prefixed literals and hex floats are
// text.
func parseNumber(s string) (float64, bool) {
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	if base := literalBase(s); base != 0 {
		n, err := strconv.ParseUint(s[2:], base, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	if literalBase(strings.TrimLeft(s, "+-")) != 0 {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func literalBase(s string) int {
	if len(s) < 3 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
