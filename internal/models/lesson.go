package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LessonsCollection = "lessons"
	OrdersCollection  = "orders"
)

// Lesson is the typed shape of a lesson document. Reads return raw
// documents so that fields outside this shape survive the round trip.
type Lesson struct {
	Subject  string  `bson:"subject" json:"subject"`
	Location string  `bson:"location" json:"location"`
	Price    float64 `bson:"price" json:"price"`
	Spaces   int     `bson:"spaces" json:"spaces"`
}

// UpdateResult reports how many lesson documents a partial update matched
// and how many it actually changed.
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

type IDKind int

const (
	IDObject IDKind = iota
	IDString
)

// LessonID is a lesson identifier resolved from a path segment: either a
// native ObjectID or, when the segment is not one, the literal string key.
type LessonID struct {
	Kind   IDKind
	Object primitive.ObjectID
	Raw    string
}

// ParseLessonID tries the ObjectID form first and falls back to the raw string.
func ParseLessonID(s string) LessonID {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return LessonID{Kind: IDObject, Object: oid, Raw: s}
	}
	return LessonID{Kind: IDString, Raw: s}
}

// Value returns the value stored under _id for this identifier.
func (id LessonID) Value() any {
	if id.Kind == IDObject {
		return id.Object
	}
	return id.Raw
}

func (id LessonID) Filter() bson.M {
	return bson.M{"_id": id.Value()}
}

func (k IDKind) String() string {
	if k == IDObject {
		return "objectid"
	}
	return "string"
}
