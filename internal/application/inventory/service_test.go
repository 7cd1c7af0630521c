package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBatchRepo is an in-memory stand-in for the ledger
type fakeBatchRepo struct {
	batches map[uuid.UUID]*inventory.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*inventory.Batch)}
}

func (f *fakeBatchRepo) seed(quantity int64) *inventory.Batch {
	key := inventory.BatchKey{MedicationID: uuid.New(), SupplierID: uuid.New(), BatchNumber: "LOT-001"}
	batch, _ := inventory.NewBatch(key, inventory.PriceInfo{})
	batch.QuantityOnHand = quantity
	f.batches[batch.ID] = batch
	return batch
}

func (f *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Batch, error) {
	if b, ok := f.batches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBatchRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBatchRepo) FindByKey(_ context.Context, key inventory.BatchKey) (*inventory.Batch, error) {
	for _, b := range f.batches {
		if b.Key() == key {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBatchRepo) ResolveForUpdate(_ context.Context, key inventory.BatchKey, info inventory.PriceInfo) (inventory.BatchResolution, error) {
	for _, b := range f.batches {
		if b.Key() == key {
			return inventory.BatchResolution{Batch: b}, nil
		}
	}
	batch, err := inventory.NewBatch(key, info)
	if err != nil {
		return inventory.BatchResolution{}, err
	}
	f.batches[batch.ID] = batch
	return inventory.BatchResolution{Batch: batch, Created: true}, nil
}

func (f *fakeBatchRepo) Save(_ context.Context, batch *inventory.Batch) error {
	f.batches[batch.ID] = batch
	return nil
}

func (f *fakeBatchRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.Batch, error) {
	out := make([]inventory.Batch, 0, len(f.batches))
	for _, b := range f.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBatchRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(f.batches)), nil
}

// fakeAuditRepo collects appended entries for assertions
type fakeAuditRepo struct {
	entries []*audit.Entry
}

func (f *fakeAuditRepo) Append(_ context.Context, entries []*audit.Entry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAuditRepo) FindAll(_ context.Context, _ shared.Filter) ([]audit.Entry, error) {
	out := make([]audit.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeAuditRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(f.entries)), nil
}

func newTestService() (*InventoryService, *fakeBatchRepo, *fakeAuditRepo) {
	batchRepo := newFakeBatchRepo()
	auditRepo := &fakeAuditRepo{}
	scope := NewNoOpTransactionScope(batchRepo, auditRepo)
	return NewInventoryService(scope, batchRepo), batchRepo, auditRepo
}

func TestInventoryService_RecordSaleDecrement(t *testing.T) {
	t.Run("sale reduces on-hand quantity", func(t *testing.T) {
		service, batchRepo, auditRepo := newTestService()
		batch := batchRepo.seed(100)

		resp, err := service.RecordSaleDecrement(context.Background(), batch.ID, DecrementRequest{
			Quantity:    30,
			PerformedBy: "pharmacist",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(70), resp.QuantityOnHand)

		require.Len(t, auditRepo.entries, 1)
		entry := auditRepo.entries[0]
		assert.Equal(t, audit.ActionSale, entry.Action)
		assert.Equal(t, int64(-30), entry.QuantityChanged)
		assert.Equal(t, "pharmacist", entry.PerformedBy)
		require.NotNil(t, entry.BatchID)
		assert.Equal(t, batch.ID, *entry.BatchID)
	})

	t.Run("draining the batch to zero is allowed", func(t *testing.T) {
		service, batchRepo, _ := newTestService()
		batch := batchRepo.seed(25)

		resp, err := service.RecordSaleDecrement(context.Background(), batch.ID, DecrementRequest{Quantity: 25})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.QuantityOnHand)
	})

	t.Run("overselling is rejected with INSUFFICIENT_STOCK", func(t *testing.T) {
		service, batchRepo, auditRepo := newTestService()
		batch := batchRepo.seed(10)

		_, err := service.RecordSaleDecrement(context.Background(), batch.ID, DecrementRequest{Quantity: 11})
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeInsufficientStock))
		assert.Empty(t, auditRepo.entries)
	})

	t.Run("zero or negative quantity is rejected with VALIDATION_ERROR", func(t *testing.T) {
		service, batchRepo, auditRepo := newTestService()
		batch := batchRepo.seed(10)

		for _, quantity := range []int64{0, -5} {
			_, err := service.RecordSaleDecrement(context.Background(), batch.ID, DecrementRequest{Quantity: quantity})
			require.Error(t, err)
			assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeValidation))
		}

		// A negative quantity must never reach the ledger as a receipt
		assert.Equal(t, int64(10), batch.QuantityOnHand)
		assert.Empty(t, auditRepo.entries)
	})

	t.Run("unknown batch fails with NOT_FOUND", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.RecordSaleDecrement(context.Background(), uuid.New(), DecrementRequest{Quantity: 1})
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeNotFound))
	})
}

func TestInventoryService_GetByID(t *testing.T) {
	service, batchRepo, _ := newTestService()
	batch := batchRepo.seed(42)

	resp, err := service.GetByID(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.QuantityOnHand)
	assert.Equal(t, "LOT-001", resp.BatchNumber)

	_, err = service.GetByID(context.Background(), uuid.New())
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeNotFound))
}

func TestInventoryService_List(t *testing.T) {
	service, batchRepo, _ := newTestService()
	batchRepo.seed(10)
	batchRepo.seed(20)

	resp, err := service.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Items, 2)
}
