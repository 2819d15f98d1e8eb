package taxonomy

import (
	"errors"
	"testing"
)

func TestRemap_AllKnownCategoriesMapToCoarseLabel(t *testing.T) {
	cats := Categories()
	if len(cats) != 79 {
		t.Fatalf("expected 79 known categories, got %d", len(cats))
	}
	for _, c := range cats {
		got := Remap(c)
		if _, ok := DefaultEncoding().ID(got); !ok {
			t.Errorf("Remap(%q) = %q, not a coarse label", c, got)
		}
	}
}

func TestRemap_Examples(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"card_payment_fee_charged", Billing},
		{"transaction_charged_twice", Billing},
		{"pin_blocked", Technical},
		{"face_id_not_working", Technical},
		{"terminate_account", General},
		{"ATMs_support", General},
		{"unknown_tag_xyz", Unmapped},
		{"", Unmapped},
		{"Card_Payment_Fee_Charged", Unmapped},
		{"declined_card_payment", Unmapped},
		{" pin_blocked", Unmapped},
	}
	for _, tt := range tests {
		if got := Remap(tt.in); got != tt.want {
			t.Errorf("Remap(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemap_Distribution(t *testing.T) {
	counts := map[string]int{}
	for _, c := range Categories() {
		counts[Remap(c)]++
	}
	if counts[Billing] != 39 || counts[Technical] != 8 || counts[General] != 32 {
		t.Fatalf("unexpected distribution: %v", counts)
	}
}

func TestEncoding_StableOrder(t *testing.T) {
	want := []string{"Billing Question", "Technical Issue", "General Inquiry"}
	enc := DefaultEncoding()
	if enc.Len() != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), enc.Len())
	}
	for i, l := range want {
		id, ok := enc.ID(l)
		if !ok || id != i {
			t.Errorf("ID(%q) = %d, %v; want %d", l, id, ok, i)
		}
	}
}

func TestEncoding_RoundTrip(t *testing.T) {
	enc := DefaultEncoding()
	for _, l := range Labels() {
		id, ok := enc.ID(l)
		if !ok {
			t.Fatalf("ID(%q) not found", l)
		}
		back, ok := enc.Label(id)
		if !ok || back != l {
			t.Errorf("Label(ID(%q)) = %q, want %q", l, back, l)
		}
	}
	for id := 0; id < enc.Len(); id++ {
		l, _ := enc.Label(id)
		if got, _ := enc.ID(l); got != id {
			t.Errorf("ID(Label(%d)) = %d", id, got)
		}
	}
}

func TestEncoding_Invalid(t *testing.T) {
	enc := DefaultEncoding()
	if _, ok := enc.ID(Unmapped); ok {
		t.Error("Unmapped must not have an id")
	}
	for _, id := range []int{-1, 3, 100} {
		if _, ok := enc.Label(id); ok {
			t.Errorf("Label(%d) should be invalid", id)
		}
	}
}

func TestEncoding_LabelsIsCopy(t *testing.T) {
	l := Labels()
	l[0] = "mutated"
	if Labels()[0] != Billing {
		t.Fatal("Labels() must return a copy")
	}
}

func TestRemapID(t *testing.T) {
	id, err := RemapID("card_payment_fee_charged")
	if err != nil || id != 0 {
		t.Fatalf("RemapID = %d, %v; want 0, nil", id, err)
	}
	id, err = RemapID("app_does_not_work")
	if err != nil || id != 1 {
		t.Fatalf("RemapID = %d, %v; want 1, nil", id, err)
	}

	_, err = RemapID("unknown_tag_xyz")
	if !errors.Is(err, ErrUnmapped) {
		t.Fatalf("expected ErrUnmapped, got %v", err)
	}
	var dq *DataQualityError
	if !errors.As(err, &dq) || dq.Category != "unknown_tag_xyz" {
		t.Fatalf("expected DataQualityError for unknown_tag_xyz, got %v", err)
	}
}

func TestKnown(t *testing.T) {
	if !Known("exchange_rate") {
		t.Error("exchange_rate should be known")
	}
	if Known("unknown_tag_xyz") {
		t.Error("unknown_tag_xyz should not be known")
	}
}
