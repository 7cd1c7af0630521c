package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPurchaseTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE purchases (
			id TEXT PRIMARY KEY,
			supplier_id TEXT NOT NULL,
			supplier_name TEXT NOT NULL,
			invoice_number TEXT,
			order_date DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			priority TEXT NOT NULL DEFAULT 'routine',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			total_amount TEXT NOT NULL DEFAULT '0',
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE purchase_line_items (
			id TEXT PRIMARY KEY,
			purchase_id TEXT NOT NULL,
			medication_id TEXT NOT NULL,
			medication_name TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			quantity_ordered INTEGER NOT NULL,
			quantity_received INTEGER NOT NULL DEFAULT 0,
			unit_price TEXT NOT NULL,
			expiration_date DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func buildTestPurchase(t *testing.T, lines int) *purchase.Purchase {
	t.Helper()

	p, err := purchase.NewPurchase(uuid.New(), "Main Pharma Supply", "INV-1001", time.Now(), purchase.PriorityRoutine, "")
	require.NoError(t, err)

	items := make([]purchase.Line, 0, lines)
	for i := 0; i < lines; i++ {
		line, err := purchase.NewLine(p.ID, uuid.New(), "Ibuprofen 200mg", "LOT-00"+string(rune('1'+i)),
			100, 100, decimal.NewFromFloat(1.25), nil)
		require.NoError(t, err)
		items = append(items, *line)
	}
	require.NoError(t, p.SetLines(items))
	return p
}

func TestGormPurchaseRepository_CreateAndFind(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	p := buildTestPurchase(t, 2)
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.SupplierID, found.SupplierID)
	assert.Equal(t, "INV-1001", found.InvoiceNumber)
	assert.Len(t, found.Lines, 2)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromFloat(250)))

	locked, err := repo.FindByIDForUpdate(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, locked.Lines, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPurchaseRepository_Save_ReplacesLines(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	p := buildTestPurchase(t, 2)
	require.NoError(t, repo.Create(ctx, p))

	line, err := purchase.NewLine(p.ID, uuid.New(), "Paracetamol 500mg", "LOT-NEW",
		40, 40, decimal.NewFromFloat(0.80), nil)
	require.NoError(t, err)
	require.NoError(t, p.SetLines([]purchase.Line{*line}))
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "LOT-NEW", found.Lines[0].BatchNumber)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromFloat(32)))

	var lineCount int64
	require.NoError(t, db.Model(&purchase.Line{}).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)
}

func TestGormPurchaseRepository_Delete(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	p := buildTestPurchase(t, 2)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&purchase.Line{}).Where("purchase_id = ?", p.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(0), lineCount)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormPurchaseRepository_FindAll_Filters(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	p1 := buildTestPurchase(t, 1)
	require.NoError(t, repo.Create(ctx, p1))

	p2 := buildTestPurchase(t, 1)
	p2.Status = purchase.StatusCompleted
	require.NoError(t, repo.Create(ctx, p2))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = purchase.StatusCompleted
	purchases, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, p2.ID, purchases[0].ID)
	assert.Len(t, purchases[0].Lines, 1)

	filter = shared.DefaultFilter()
	filter.Filters["supplier_id"] = p1.SupplierID
	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
