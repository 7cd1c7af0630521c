package inventory

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// InventoryService serves the inventory read surface and the sale-side stock
// decrement. Receipts never enter through here; they belong to purchase
// reconciliation.
type InventoryService struct {
	txScope   TransactionScope
	batchRepo inventory.BatchRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(txScope TransactionScope, batchRepo inventory.BatchRepository) *InventoryService {
	return &InventoryService{
		txScope:   txScope,
		batchRepo: batchRepo,
	}
}

// GetByID returns a single inventory batch
func (s *InventoryService) GetByID(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// List returns inventory batches matching the filter
func (s *InventoryService) List(ctx context.Context, filter ListFilter) (*BatchListResponse, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.MedicationID != nil {
		f.Filters["medication_id"] = *filter.MedicationID
	}
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	batches, err := s.batchRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, *toBatchResponse(&batches[i]))
	}
	return &BatchListResponse{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// RecordSaleDecrement removes sold stock from a batch. The batch is locked
// for the duration of the transaction and the decrement is rejected outright
// when it would leave negative stock.
func (s *InventoryService) RecordSaleDecrement(ctx context.Context, batchID uuid.UUID, req DecrementRequest) (*BatchResponse, error) {
	// A non-positive quantity would turn the sale path into a receipt
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}

	var resp *BatchResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForUpdate(ctx, batchID)
		if err != nil {
			return err
		}

		batch.ApplyDelta(-req.Quantity)
		if batch.IsNegative() {
			return shared.NewDomainErrorf(shared.CodeInsufficientStock,
				"Insufficient stock for %s: requested %d, only %d on hand",
				batch.Key(), req.Quantity, batch.QuantityOnHand+req.Quantity)
		}

		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		details, err := saleDetails(batch, req.Reason)
		if err != nil {
			return err
		}
		entry := audit.NewEntry(audit.ActionSale, &batch.ID, -req.Quantity, req.PerformedBy, details)
		if err := repos.AuditRepo().Append(ctx, []*audit.Entry{entry}); err != nil {
			return err
		}

		resp = toBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func saleDetails(batch *inventory.Batch, reason string) (datatypes.JSON, error) {
	payload := map[string]any{
		"medication_id": batch.MedicationID,
		"supplier_id":   batch.SupplierID,
		"batch_number":  batch.BatchNumber,
		"balance":       batch.QuantityOnHand,
	}
	if reason != "" {
		payload["reason"] = reason
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
