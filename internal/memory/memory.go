// Package memory implements the lesson and order repositories in process.
// It backs handler tests and local runs without a database.
package memory

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lesson-market/internal/models"
	"lesson-market/internal/search"
)

// Lessons keeps lesson documents in insertion order.
type Lessons struct {
	mu   sync.RWMutex
	docs []bson.M
}

func NewLessons(docs ...bson.M) *Lessons {
	l := &Lessons{}
	for _, doc := range docs {
		l.add(doc)
	}
	return l
}

func (l *Lessons) add(doc bson.M) any {
	doc = maps.Clone(doc)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	l.docs = append(l.docs, doc)
	return doc["_id"]
}

func (l *Lessons) Find(ctx context.Context, filter search.Filter) ([]bson.M, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	match := filter.Matcher()
	out := []bson.M{}
	for _, doc := range l.docs {
		if match(doc) {
			out = append(out, maps.Clone(doc))
		}
	}
	return out, nil
}

func (l *Lessons) Update(ctx context.Context, id models.LessonID, fields bson.M) (models.UpdateResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	want := id.Value()
	for _, doc := range l.docs {
		if doc["_id"] != want {
			continue
		}
		res := models.UpdateResult{Matched: 1}
		for k, v := range fields {
			if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
				res.Modified = 1
			}
			doc[k] = v
		}
		return res, nil
	}
	return models.UpdateResult{}, nil
}

func (l *Lessons) Seed(ctx context.Context, lessons []models.Lesson, keep bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !keep {
		l.docs = nil
	}
	for _, lesson := range lessons {
		l.add(bson.M{
			"subject":  lesson.Subject,
			"location": lesson.Location,
			"price":    lesson.Price,
			"spaces":   lesson.Spaces,
		})
	}
	return len(lessons), nil
}

// Orders stores order documents keyed by _id.
type Orders struct {
	mu     sync.RWMutex
	orders map[string]bson.M
}

func NewOrders() *Orders {
	return &Orders{orders: make(map[string]bson.M)}
}

func (o *Orders) Insert(ctx context.Context, order bson.M) (any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	doc := maps.Clone(order)
	id, ok := doc["_id"]
	if !ok {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	o.orders[key(id)] = doc
	return id, nil
}

func (o *Orders) Get(ctx context.Context, id any) (bson.M, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	doc, ok := o.orders[key(id)]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return maps.Clone(doc), nil
}

func (o *Orders) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.orders)
}

func key(id any) string {
	return fmt.Sprintf("%T:%v", id, id)
}
