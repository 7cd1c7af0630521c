package inventory

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBatch(t *testing.T) *Batch {
	key := BatchKey{
		MedicationID: uuid.New(),
		SupplierID:   uuid.New(),
		BatchNumber:  "LOT-001",
	}
	batch, err := NewBatch(key, PriceInfo{PurchasePrice: decimal.NewFromFloat(12.50)})
	require.NoError(t, err)
	return batch
}

func TestNewBatch(t *testing.T) {
	medicationID := uuid.New()
	supplierID := uuid.New()

	tests := []struct {
		name    string
		key     BatchKey
		wantErr bool
	}{
		{"valid key", BatchKey{medicationID, supplierID, "LOT-001"}, false},
		{"missing medication", BatchKey{uuid.Nil, supplierID, "LOT-001"}, true},
		{"missing supplier", BatchKey{medicationID, uuid.Nil, "LOT-001"}, true},
		{"empty batch number", BatchKey{medicationID, supplierID, ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewBatch(tt.key, PriceInfo{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(0), batch.QuantityOnHand)
			assert.Equal(t, BatchStatusActive, batch.Status)
			assert.Equal(t, tt.key, batch.Key())
			assert.False(t, batch.PurchaseDate.IsZero())
		})
	}
}

func TestBatch_ApplyDelta(t *testing.T) {
	batch := createTestBatch(t)

	batch.ApplyDelta(100)
	assert.Equal(t, int64(100), batch.QuantityOnHand)
	assert.False(t, batch.IsNegative())
	assert.True(t, batch.HasStock())

	batch.ApplyDelta(-40)
	assert.Equal(t, int64(60), batch.QuantityOnHand)

	// Negative intermediate state is allowed; callers gate before commit
	batch.ApplyDelta(-100)
	assert.Equal(t, int64(-40), batch.QuantityOnHand)
	assert.True(t, batch.IsNegative())
	assert.False(t, batch.HasStock())
}

func TestBatch_IsExpired(t *testing.T) {
	batch := createTestBatch(t)
	assert.False(t, batch.IsExpired(), "no expiration date means never expired")

	past := time.Now().Add(-24 * time.Hour)
	batch.ExpirationDate = &past
	assert.True(t, batch.IsExpired())

	future := time.Now().Add(24 * time.Hour)
	batch.ExpirationDate = &future
	assert.False(t, batch.IsExpired())
}

func TestBatchKey_Less(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	tests := []struct {
		name string
		x, y BatchKey
		less bool
	}{
		{"medication orders first", BatchKey{a, b, "Z"}, BatchKey{b, a, "A"}, true},
		{"supplier breaks medication ties", BatchKey{a, a, "Z"}, BatchKey{a, b, "A"}, true},
		{"batch number breaks remaining ties", BatchKey{a, a, "LOT-001"}, BatchKey{a, a, "LOT-002"}, true},
		{"equal keys are not less", BatchKey{a, a, "LOT-001"}, BatchKey{a, a, "LOT-001"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.less, tt.x.Less(tt.y))
			if tt.less {
				assert.False(t, tt.y.Less(tt.x))
			}
		})
	}
}

func TestBatchKey_SortIsDeterministic(t *testing.T) {
	keys := []BatchKey{
		{uuid.MustParse("33333333-3333-3333-3333-333333333333"), uuid.MustParse("11111111-1111-1111-1111-111111111111"), "B"},
		{uuid.MustParse("11111111-1111-1111-1111-111111111111"), uuid.MustParse("22222222-2222-2222-2222-222222222222"), "A"},
		{uuid.MustParse("11111111-1111-1111-1111-111111111111"), uuid.MustParse("11111111-1111-1111-1111-111111111111"), "C"},
	}

	sorted := make([]BatchKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	assert.Equal(t, keys[2], sorted[0])
	assert.Equal(t, keys[1], sorted[1])
	assert.Equal(t, keys[0], sorted[2])
}
