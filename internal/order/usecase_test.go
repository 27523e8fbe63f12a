package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lesson-market/internal/memory"
	"lesson-market/internal/models"
	"lesson-market/internal/telemetry"
)

type publisherFunc func(ctx context.Context, event models.OrderPlaced) error

func (f publisherFunc) PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error {
	return f(ctx, event)
}

func newUseCase(t *testing.T, repo Repository, pub Publisher) *UseCase {
	t.Helper()
	tel := telemetry.Nop()
	metrics, err := telemetry.NewMetrics(tel.Meter)
	require.NoError(t, err)
	return NewUseCase(repo, pub, metrics, tel.Log, tel.Tracer)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		order bson.M
		valid bool
	}{
		{name: "minimal", order: bson.M{"name": "Jo", "phone": "123", "items": []any{"Math"}}, valid: true},
		{name: "extra fields allowed", order: bson.M{"name": "Jo", "phone": "123", "items": []any{1}, "note": "x"}, valid: true},
		{name: "empty strings are strings", order: bson.M{"name": "", "phone": "", "items": []any{nil}}, valid: true},
		{name: "nil", order: nil},
		{name: "empty items", order: bson.M{"name": "Jo", "phone": "123", "items": []any{}}},
		{name: "items object", order: bson.M{"name": "Jo", "phone": "123", "items": map[string]any{"a": 1}}},
		{name: "phone number", order: bson.M{"name": "Jo", "phone": int64(123), "items": []any{"Math"}}},
		{name: "name missing", order: bson.M{"phone": "123", "items": []any{"Math"}}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := Validate(testCase.order)
			if testCase.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, models.ErrInvalidOrder)
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and announces", func(t *testing.T) {
		repo := memory.NewOrders()
		var got []models.OrderPlaced
		uc := newUseCase(t, repo, publisherFunc(func(_ context.Context, e models.OrderPlaced) error {
			got = append(got, e)
			return nil
		}))
		placedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return placedAt }

		id, err := uc.PlaceOrder(ctx, bson.M{"name": "Jo", "phone": "123", "items": []any{"Math", "Art"}})
		require.NoError(t, err)

		oid, ok := id.(primitive.ObjectID)
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, oid.Hex(), got[0].OrderID)
		assert.Equal(t, 2, got[0].ItemCount)
		assert.Equal(t, placedAt, got[0].PlacedAt)
		assert.Equal(t, "Jo", got[0].Name)
	})

	t.Run("invalid order never reaches the store", func(t *testing.T) {
		repo := memory.NewOrders()
		uc := newUseCase(t, repo, nil)

		_, err := uc.PlaceOrder(ctx, bson.M{"name": "Jo", "phone": "123", "items": []any{}})
		assert.ErrorIs(t, err, models.ErrInvalidOrder)
		assert.Zero(t, repo.Len())
	})

	t.Run("client supplied id is kept", func(t *testing.T) {
		repo := memory.NewOrders()
		uc := newUseCase(t, repo, NopPublisher{})

		id, err := uc.PlaceOrder(ctx, bson.M{"_id": "order-7", "name": "Jo", "phone": "1", "items": []any{"Math"}})
		require.NoError(t, err)
		assert.Equal(t, "order-7", id)
	})

	t.Run("publish error is swallowed", func(t *testing.T) {
		repo := memory.NewOrders()
		uc := newUseCase(t, repo, publisherFunc(func(context.Context, models.OrderPlaced) error {
			return errors.New("broker down")
		}))

		_, err := uc.PlaceOrder(ctx, bson.M{"name": "Jo", "phone": "1", "items": []any{"Math"}})
		assert.NoError(t, err)
		assert.Equal(t, 1, repo.Len())
	})
}
