package purchase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// PurchaseService handles purchase recording and the stock reconciliation
// that accompanies every purchase mutation. All writes run inside one
// transaction scope: the purchase, the batch deltas and the audit entries
// commit together or not at all.
type PurchaseService struct {
	txScope      TransactionScope
	purchaseRepo purchase.Repository
}

// NewPurchaseService creates a new PurchaseService. purchaseRepo serves the
// read paths; all mutations go through the transaction scope.
func NewPurchaseService(txScope TransactionScope, purchaseRepo purchase.Repository) *PurchaseService {
	return &PurchaseService{
		txScope:      txScope,
		purchaseRepo: purchaseRepo,
	}
}

// Create records a purchase and applies its received quantities to the
// inventory ledger
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	var resp *PurchaseResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, medications, err := s.resolveCatalog(ctx, repos, req.SupplierID, req.Lines)
		if err != nil {
			return err
		}

		orderDate := time.Now()
		if req.OrderDate != nil {
			orderDate = *req.OrderDate
		}

		p, err := purchase.NewPurchase(supplier.ID, supplier.Name, req.InvoiceNumber, orderDate, purchase.Priority(req.Priority), req.Notes)
		if err != nil {
			return err
		}
		lines, err := buildLines(p.ID, req.Lines, medications)
		if err != nil {
			return err
		}
		if err := p.SetLines(lines); err != nil {
			return err
		}

		plan := BuildDeltaPlan(LineSet{}, LineSet{SupplierID: p.SupplierID, Lines: p.Lines})
		if err := s.applyPlan(ctx, repos, plan, audit.ActionPurchaseCreate, req.PerformedBy, p, medications); err != nil {
			return err
		}

		if err := repos.PurchaseRepo().Create(ctx, p); err != nil {
			return err
		}

		resp = toPurchaseResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update replaces a purchase's header and lines, reconciling the ledger
// against the previously applied receipt. The stored lines are reversed and
// the incoming ones applied as one net delta per batch key, so unchanged
// lines touch nothing.
func (s *PurchaseService) Update(ctx context.Context, purchaseID uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	var resp *PurchaseResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Header lock first: concurrent writers on the same purchase
		// serialize here, before any batch lock is taken
		p, err := repos.PurchaseRepo().FindByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}

		supplier, medications, err := s.resolveCatalog(ctx, repos, req.SupplierID, req.Lines)
		if err != nil {
			return err
		}

		stored := LineSet{SupplierID: p.SupplierID, Lines: p.Lines}

		newLines, err := buildLines(p.ID, req.Lines, medications)
		if err != nil {
			return err
		}

		p.SupplierID = supplier.ID
		p.SupplierName = supplier.Name
		p.InvoiceNumber = req.InvoiceNumber
		if req.OrderDate != nil {
			p.OrderDate = *req.OrderDate
		}
		if req.Priority != "" {
			p.Priority = purchase.Priority(req.Priority)
		}
		if req.PaymentStatus != "" {
			if err := p.SetPaymentStatus(purchase.PaymentStatus(req.PaymentStatus)); err != nil {
				return err
			}
		}
		p.Notes = req.Notes
		if err := p.SetLines(newLines); err != nil {
			return err
		}

		plan := BuildDeltaPlan(stored, LineSet{SupplierID: p.SupplierID, Lines: p.Lines})
		if err := s.applyPlan(ctx, repos, plan, audit.ActionPurchaseUpdate, req.PerformedBy, p, medications); err != nil {
			return err
		}

		if err := repos.PurchaseRepo().Save(ctx, p); err != nil {
			return err
		}

		resp = toPurchaseResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a purchase and reverses its receipt from the ledger.
// Reversal can fail with INSUFFICIENT_STOCK when sales have already consumed
// the received stock; the purchase then stays untouched.
func (s *PurchaseService) Delete(ctx context.Context, purchaseID uuid.UUID, performedBy string) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}

		plan := BuildDeltaPlan(LineSet{SupplierID: p.SupplierID, Lines: p.Lines}, LineSet{})
		if err := s.applyPlan(ctx, repos, plan, audit.ActionPurchaseDelete, performedBy, p, nil); err != nil {
			return err
		}

		return repos.PurchaseRepo().Delete(ctx, p.ID)
	})
}

// GetByID returns a purchase with its lines
func (s *PurchaseService) GetByID(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p), nil
}

// List returns purchases matching the filter, newest first by default
func (s *PurchaseService) List(ctx context.Context, filter ListFilter) (*PurchaseListResponse, error) {
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
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		f.Filters["payment_status"] = filter.PaymentStatus
	}

	purchases, err := s.purchaseRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.purchaseRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, *toPurchaseResponse(&purchases[i]))
	}
	return &PurchaseListResponse{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// resolveCatalog validates the supplier and every referenced medication
// against the catalog. A missing reference fails the whole request with
// NOT_FOUND before any ledger row is touched.
func (s *PurchaseService) resolveCatalog(ctx context.Context, repos TransactionalRepositories, supplierID uuid.UUID, lines []LineInput) (*catalog.Supplier, map[uuid.UUID]*catalog.Medication, error) {
	supplier, err := repos.SupplierRepo().FindByID(ctx, supplierID)
	if err != nil {
		if shared.IsDomainErrorWithCode(err, shared.CodeNotFound) {
			return nil, nil, shared.NewDomainErrorf(shared.CodeNotFound, "Supplier %s not found", supplierID)
		}
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.MedicationID] {
			seen[line.MedicationID] = true
			ids = append(ids, line.MedicationID)
		}
	}

	medications, err := repos.MedicationRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		if _, ok := medications[id]; !ok {
			return nil, nil, shared.NewDomainErrorf(shared.CodeNotFound, "Medication %s not found", id)
		}
	}

	return supplier, medications, nil
}

// applyPlan walks a delta plan in key order, locking each batch, applying its
// net delta and recording one audit entry per mutated batch. Any negative
// resulting quantity aborts the transaction.
func (s *PurchaseService) applyPlan(ctx context.Context, repos TransactionalRepositories, plan []PlannedDelta, action audit.Action, performedBy string, p *purchase.Purchase, medications map[uuid.UUID]*catalog.Medication) error {
	if len(plan) == 0 {
		return nil
	}

	entries := make([]*audit.Entry, 0, len(plan))
	for _, d := range plan {
		resolution, err := repos.BatchRepo().ResolveForUpdate(ctx, d.Key, priceInfo(d, p.OrderDate, medications))
		if err != nil {
			return err
		}

		if resolution.Created && d.Delta < 0 {
			// A reversal against a key with no ledger row means a previously
			// applied receipt has vanished outside this system's control
			return shared.NewDomainErrorf(shared.CodeInvariantViolation,
				"Cannot reverse receipt for %s: batch record no longer exists", d.Key)
		}

		batch := resolution.Batch
		batch.ApplyDelta(d.Delta)
		if batch.IsNegative() {
			return shared.NewDomainErrorf(shared.CodeInsufficientStock,
				"Insufficient stock for %s: change of %d leaves %d on hand", d.Key, d.Delta, batch.QuantityOnHand)
		}

		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		details, err := auditDetails(p.ID, batch)
		if err != nil {
			return err
		}
		batchID := batch.ID
		entries = append(entries, audit.NewEntry(action, &batchID, d.Delta, performedBy, details))
	}

	return repos.AuditRepo().Append(ctx, entries)
}

func auditDetails(purchaseID uuid.UUID, batch *inventory.Batch) (datatypes.JSON, error) {
	raw, err := json.Marshal(map[string]any{
		"purchase_id":   purchaseID,
		"medication_id": batch.MedicationID,
		"supplier_id":   batch.SupplierID,
		"batch_number":  batch.BatchNumber,
		"balance":       batch.QuantityOnHand,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// priceInfo derives the seed fields for a batch that a receipt may create.
// Reversal-only deltas have no source line; they never legitimately create a
// batch, so empty info suffices.
func priceInfo(d PlannedDelta, orderDate time.Time, medications map[uuid.UUID]*catalog.Medication) inventory.PriceInfo {
	if d.Source == nil {
		return inventory.PriceInfo{PurchaseDate: orderDate}
	}
	info := inventory.PriceInfo{
		PurchasePrice:  d.Source.UnitPrice,
		PurchaseDate:   orderDate,
		ExpirationDate: d.Source.ExpirationDate,
	}
	if med, ok := medications[d.Source.MedicationID]; ok {
		info.CodeSystem = med.CodeSystem
		info.CodeValue = med.CodeValue
		info.CodeDisplay = med.CodingDisplay()
	}
	return info
}

func buildLines(purchaseID uuid.UUID, inputs []LineInput, medications map[uuid.UUID]*catalog.Medication) ([]purchase.Line, error) {
	lines := make([]purchase.Line, 0, len(inputs))
	for _, in := range inputs {
		med := medications[in.MedicationID]
		line, err := purchase.NewLine(purchaseID, in.MedicationID, med.Name, in.BatchNumber, in.QuantityOrdered, in.QuantityReceived, in.UnitPrice, in.ExpirationDate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}
