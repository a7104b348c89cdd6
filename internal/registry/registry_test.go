package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
)

func item(label string, payers ...string) models.Item {
	return models.Item{Label: label, Price: decimal.NewFromInt(1), Payers: payers}
}

func TestFromItems(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.Item
		wantOrder []string
	}{
		{
			name:      "empty ledger",
			items:     nil,
			wantOrder: nil,
		},
		{
			name: "union preserves first-seen order",
			items: []models.Item{
				item("Pizza", "Aino", "Bea"),
				item("Beer", "Bea", "Carl"),
				item("Salad", "Aino"),
			},
			wantOrder: []string{"Aino", "Bea", "Carl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromItems(tt.items)
			if got := r.Names(); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("Names() = %v, want %v", got, tt.wantOrder)
			}
			// Everyone starts included.
			if got := r.Selected(); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("Selected() = %v, want %v", got, tt.wantOrder)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	r := New()
	r.Register("Aino")
	r.Register("Bea")

	if got := r.Names(); !reflect.DeepEqual(got, []string{"Aino", "Bea"}) {
		t.Fatalf("Names() = %v", got)
	}

	// Re-registering must not reset the flag.
	if err := r.Toggle("Bea"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	r.Register("Bea")
	if r.Included("Bea") {
		t.Error("Register reset Bea's flag")
	}

	// Blank and whitespace-only names are ignored.
	r.Register("")
	r.Register("   ")
	if r.Len() != 2 {
		t.Errorf("blank names registered, Len() = %d, want 2", r.Len())
	}
}

func TestToggle(t *testing.T) {
	r := New()
	r.Register("Aino")

	if err := r.Toggle("Aino"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if r.Included("Aino") {
		t.Error("Aino still included after toggle")
	}
	if err := r.Toggle("Aino"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !r.Included("Aino") {
		t.Error("Aino not included after second toggle")
	}

	if err := r.Toggle("Nobody"); !errors.Is(err, ErrUnknownPayer) {
		t.Errorf("Toggle unknown payer: err = %v, want ErrUnknownPayer", err)
	}
}

func TestSelected(t *testing.T) {
	r := New()
	for _, name := range []string{"Aino", "Bea", "Carl"} {
		r.Register(name)
	}
	if err := r.Toggle("Bea"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if got := r.Selected(); !reflect.DeepEqual(got, []string{"Aino", "Carl"}) {
		t.Errorf("Selected() = %v, want [Aino Carl]", got)
	}
	if !r.AnySelected() {
		t.Error("AnySelected() = false")
	}

	r.Toggle("Aino")
	r.Toggle("Carl")
	if r.AnySelected() {
		t.Error("AnySelected() = true with everyone excluded")
	}
	if got := r.Selected(); got != nil {
		t.Errorf("Selected() = %v, want nil", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := New()
	r.Register("Aino")
	r.Register("Bea")
	r.Toggle("Aino")

	flags := r.Snapshot()
	want := []Flag{{Name: "Aino", Included: false}, {Name: "Bea", Included: true}}
	if !reflect.DeepEqual(flags, want) {
		t.Fatalf("Snapshot() = %v, want %v", flags, want)
	}

	// FromFlags preserves the caller-supplied flags, unlike FromItems.
	r2 := FromFlags(flags)
	if r2.Included("Aino") {
		t.Error("FromFlags reset Aino to included")
	}
	if !r2.Included("Bea") {
		t.Error("FromFlags dropped Bea's inclusion")
	}
}

func TestIncludeAll(t *testing.T) {
	r := New()
	r.Register("Aino")
	r.Register("Bea")
	r.Toggle("Aino")
	r.Toggle("Bea")

	r.IncludeAll()
	if got := r.Selected(); !reflect.DeepEqual(got, []string{"Aino", "Bea"}) {
		t.Errorf("Selected() after IncludeAll = %v", got)
	}
}
