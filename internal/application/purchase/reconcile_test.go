package purchase

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planLine(medicationID uuid.UUID, batchNumber string, received int64) purchase.Line {
	return purchase.Line{
		ID:               uuid.New(),
		MedicationID:     medicationID,
		BatchNumber:      batchNumber,
		QuantityOrdered:  received,
		QuantityReceived: received,
	}
}

func TestBuildDeltaPlan_Creation(t *testing.T) {
	supplierID := uuid.New()
	medA := uuid.New()
	medB := uuid.New()

	plan := BuildDeltaPlan(LineSet{}, LineSet{
		SupplierID: supplierID,
		Lines: []purchase.Line{
			planLine(medA, "LOT-001", 100),
			planLine(medB, "LOT-002", 50),
		},
	})

	require.Len(t, plan, 2)
	total := int64(0)
	for _, d := range plan {
		assert.Positive(t, d.Delta)
		assert.NotNil(t, d.Source)
		assert.Equal(t, supplierID, d.Key.SupplierID)
		total += d.Delta
	}
	assert.Equal(t, int64(150), total)
}

func TestBuildDeltaPlan_DuplicateKeysMerge(t *testing.T) {
	supplierID := uuid.New()
	med := uuid.New()

	// Two incoming lines for the same (medication, supplier, batch) key
	plan := BuildDeltaPlan(LineSet{}, LineSet{
		SupplierID: supplierID,
		Lines: []purchase.Line{
			planLine(med, "LOT-001", 30),
			planLine(med, "LOT-001", 20),
		},
	})

	require.Len(t, plan, 1)
	assert.Equal(t, int64(50), plan[0].Delta)
}

func TestBuildDeltaPlan_Deletion(t *testing.T) {
	supplierID := uuid.New()
	med := uuid.New()

	plan := BuildDeltaPlan(LineSet{
		SupplierID: supplierID,
		Lines:      []purchase.Line{planLine(med, "LOT-001", 100)},
	}, LineSet{})

	require.Len(t, plan, 1)
	assert.Equal(t, int64(-100), plan[0].Delta)
	assert.Nil(t, plan[0].Source, "reversal-only keys carry no source line")
}

func TestBuildDeltaPlan_UpdateMergesReversalAndApplication(t *testing.T) {
	supplierID := uuid.New()
	medKept := uuid.New()
	medDropped := uuid.New()
	medAdded := uuid.New()

	stored := LineSet{
		SupplierID: supplierID,
		Lines: []purchase.Line{
			planLine(medKept, "LOT-001", 100),
			planLine(medDropped, "LOT-002", 40),
		},
	}
	incoming := LineSet{
		SupplierID: supplierID,
		Lines: []purchase.Line{
			planLine(medKept, "LOT-001", 120), // quantity bump: net +20
			planLine(medAdded, "LOT-003", 10),
		},
	}

	plan := BuildDeltaPlan(stored, incoming)
	require.Len(t, plan, 3)

	byKey := make(map[uuid.UUID]PlannedDelta)
	for _, d := range plan {
		byKey[d.Key.MedicationID] = d
	}
	assert.Equal(t, int64(20), byKey[medKept].Delta)
	assert.Equal(t, int64(-40), byKey[medDropped].Delta)
	assert.Equal(t, int64(10), byKey[medAdded].Delta)
	assert.Nil(t, byKey[medDropped].Source)
	assert.NotNil(t, byKey[medKept].Source)
}

func TestBuildDeltaPlan_NoOpUpdateProducesEmptyPlan(t *testing.T) {
	supplierID := uuid.New()
	med := uuid.New()

	same := LineSet{
		SupplierID: supplierID,
		Lines:      []purchase.Line{planLine(med, "LOT-001", 75)},
	}

	plan := BuildDeltaPlan(same, same)
	assert.Empty(t, plan, "identical lines cancel out entirely")
}

func TestBuildDeltaPlan_SupplierChangeMovesKeys(t *testing.T) {
	oldSupplier := uuid.New()
	newSupplier := uuid.New()
	med := uuid.New()

	plan := BuildDeltaPlan(
		LineSet{SupplierID: oldSupplier, Lines: []purchase.Line{planLine(med, "LOT-001", 60)}},
		LineSet{SupplierID: newSupplier, Lines: []purchase.Line{planLine(med, "LOT-001", 60)}},
	)

	// Same medication, batch and quantity, but different suppliers: the stock
	// must move between two distinct batch keys
	require.Len(t, plan, 2)
	byKey := make(map[uuid.UUID]int64)
	for _, d := range plan {
		byKey[d.Key.SupplierID] = d.Delta
	}
	assert.Equal(t, int64(-60), byKey[oldSupplier])
	assert.Equal(t, int64(60), byKey[newSupplier])
}

func TestBuildDeltaPlan_IsSorted(t *testing.T) {
	supplierID := uuid.New()
	lines := make([]purchase.Line, 0, 8)
	for i := 0; i < 8; i++ {
		lines = append(lines, planLine(uuid.New(), "LOT-001", int64(i+1)))
	}

	plan := BuildDeltaPlan(LineSet{}, LineSet{SupplierID: supplierID, Lines: lines})

	sorted := sort.SliceIsSorted(plan, func(i, j int) bool {
		return plan[i].Key.Less(plan[j].Key)
	})
	assert.True(t, sorted)
}
