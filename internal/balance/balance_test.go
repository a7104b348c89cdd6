package balance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/registry"
)

func item(label, price string, payers ...string) models.Item {
	return models.Item{
		ID:     label,
		Label:  label,
		Price:  decimal.RequireFromString(price),
		Payers: payers,
	}
}

func wantAmount(t *testing.T, snap Snapshot, name, want string) {
	t.Helper()
	got, ok := snap.Amount(name)
	if !ok {
		t.Fatalf("no share for %s", name)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("share for %s = %s, want %s", name, got, want)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.Item
		payers    []string
		wantTotal string
		validate  func(t *testing.T, snap Snapshot)
	}{
		{
			name: "two items, shared and solo",
			items: []models.Item{
				item("Pizza", "10", "A", "B"),
				item("Salad", "5", "A"),
			},
			payers:    []string{"A", "B"},
			wantTotal: "15",
			validate: func(t *testing.T, snap Snapshot) {
				wantAmount(t, snap, "A", "10")
				wantAmount(t, snap, "B", "5")
			},
		},
		{
			name:      "no items, everyone zero",
			items:     nil,
			payers:    []string{"A", "B"},
			wantTotal: "0",
			validate: func(t *testing.T, snap Snapshot) {
				wantAmount(t, snap, "A", "0")
				wantAmount(t, snap, "B", "0")
			},
		},
		{
			name: "registered payer with no items keeps zero share",
			items: []models.Item{
				item("Coffee", "3", "A"),
			},
			payers:    []string{"A", "B"},
			wantTotal: "3",
			validate: func(t *testing.T, snap Snapshot) {
				wantAmount(t, snap, "B", "0")
			},
		},
		{
			name: "shares for names outside the registry are dropped",
			items: []models.Item{
				item("Wine", "12", "A", "Ghost"),
			},
			payers:    []string{"A"},
			wantTotal: "12",
			validate: func(t *testing.T, snap Snapshot) {
				wantAmount(t, snap, "A", "6")
				if _, ok := snap.Amount("Ghost"); ok {
					t.Error("Ghost appeared in shares despite missing from registry")
				}
			},
		},
		{
			name: "malformed zero-payer item counts toward total only",
			items: []models.Item{
				item("Orphan", "7"),
				item("Coffee", "3", "A"),
			},
			payers:    []string{"A"},
			wantTotal: "10",
			validate: func(t *testing.T, snap Snapshot) {
				wantAmount(t, snap, "A", "3")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			for _, p := range tt.payers {
				reg.Register(p)
			}

			snap := Compute(tt.items, reg)
			if !snap.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", snap.Total, tt.wantTotal)
			}
			if tt.validate != nil {
				tt.validate(t, snap)
			}
		})
	}
}

func TestComputeSharesSumToTotal(t *testing.T) {
	// With every payer set non-empty and inside the registry, and every
	// price exactly divisible by its payer count, the shares must sum
	// exactly to the total, with no rounding drift.
	items := []models.Item{
		item("A1", "10.50", "A", "B", "C"),
		item("A2", "0.01", "A"),
		item("A3", "99.99", "C"),
		item("A4", "1", "A", "B"),
	}
	reg := registry.New()
	for _, p := range []string{"A", "B", "C"} {
		reg.Register(p)
	}

	snap := Compute(items, reg)

	sum := decimal.Zero
	for _, share := range snap.Shares {
		sum = sum.Add(share.Amount)
	}
	if !sum.Equal(snap.Total) {
		t.Errorf("sum of shares = %s, total = %s", sum, snap.Total)
	}
}

func TestComputeOrderInvariant(t *testing.T) {
	items := []models.Item{
		item("A1", "10", "A", "B"),
		item("A2", "5", "A"),
		item("A3", "2.50", "B"),
	}
	reg := registry.New()
	reg.Register("A")
	reg.Register("B")

	forward := Compute(items, reg)
	reversed := Compute([]models.Item{items[2], items[1], items[0]}, reg)

	if !forward.Total.Equal(reversed.Total) {
		t.Errorf("totals differ under reordering: %s vs %s", forward.Total, reversed.Total)
	}
	for _, name := range []string{"A", "B"} {
		f, _ := forward.Amount(name)
		r, _ := reversed.Amount(name)
		if !f.Equal(r) {
			t.Errorf("share for %s differs under reordering: %s vs %s", name, f, r)
		}
	}
}

func TestComputeRemovalReducesTotal(t *testing.T) {
	items := []models.Item{
		item("Keep", "10", "A"),
		item("Drop", "4.20", "A", "B"),
	}
	reg := registry.New()
	reg.Register("A")
	reg.Register("B")

	before := Compute(items, reg)
	after := Compute(items[:1], reg)

	diff := before.Total.Sub(after.Total)
	if !diff.Equal(decimal.RequireFromString("4.20")) {
		t.Errorf("total reduced by %s, want 4.20", diff)
	}
}

func TestDisplayRounding(t *testing.T) {
	// 10 / 3 keeps full precision internally and rounds only for display.
	items := []models.Item{item("Pizza", "10", "A", "B", "C")}
	reg := registry.New()
	for _, p := range []string{"A", "B", "C"} {
		reg.Register(p)
	}

	snap := Compute(items, reg)
	share := snap.Shares[0]
	if share.Display() != "3.33" {
		t.Errorf("Display() = %s, want 3.33", share.Display())
	}
	if share.Amount.Equal(decimal.RequireFromString("3.33")) {
		t.Error("internal amount was rounded, expected full precision")
	}
	if snap.DisplayTotal() != "10.00" {
		t.Errorf("DisplayTotal() = %s, want 10.00", snap.DisplayTotal())
	}
}
