package purchase

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/purchase"
)

// LineSet is one side of a reconciliation: a purchase's lines together with
// the supplier they were (or will be) received from. The supplier lives on
// the purchase header, so a supplier change moves every line to new batch keys.
type LineSet struct {
	SupplierID uuid.UUID
	Lines      []purchase.Line
}

// PlannedDelta is one entry of a delta plan: the net signed stock movement
// for a single batch key. Source points at the incoming line that contributes
// to the key, nil when the key is touched by reversal only.
type PlannedDelta struct {
	Key    inventory.BatchKey
	Delta  int64
	Source *purchase.Line
}

// BuildDeltaPlan computes the net stock movement per batch key for a
// reconciliation: the stored lines are reversed (negative) and the incoming
// lines applied (positive), merged per key so each batch is visited exactly
// once. Creation passes an empty reversal, deletion an empty application.
//
// Keys whose contributions cancel out are dropped: a no-op update touches no
// batch and writes no audit entry. The plan is sorted in BatchKey order, which
// is also the lock acquisition order.
func BuildDeltaPlan(reversal, application LineSet) []PlannedDelta {
	plan := make(map[inventory.BatchKey]*PlannedDelta)

	for i := range reversal.Lines {
		line := &reversal.Lines[i]
		key := inventory.BatchKey{
			MedicationID: line.MedicationID,
			SupplierID:   reversal.SupplierID,
			BatchNumber:  line.BatchNumber,
		}
		entry, ok := plan[key]
		if !ok {
			entry = &PlannedDelta{Key: key}
			plan[key] = entry
		}
		entry.Delta -= line.QuantityReceived
	}

	for i := range application.Lines {
		line := &application.Lines[i]
		key := inventory.BatchKey{
			MedicationID: line.MedicationID,
			SupplierID:   application.SupplierID,
			BatchNumber:  line.BatchNumber,
		}
		entry, ok := plan[key]
		if !ok {
			entry = &PlannedDelta{Key: key}
			plan[key] = entry
		}
		entry.Delta += line.QuantityReceived
		// Last contributing line wins; only its price info seeds a new batch
		entry.Source = line
	}

	deltas := make([]PlannedDelta, 0, len(plan))
	for _, entry := range plan {
		if entry.Delta == 0 {
			continue
		}
		deltas = append(deltas, *entry)
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Key.Less(deltas[j].Key)
	})

	return deltas
}
