package validator

import (
	"errors"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name   string
		status string
		holder string
		want   error
		ok     bool
	}{
		{name: "CheckOut", status: "assigned", holder: "J. Doe", ok: true},
		{name: "CheckIn", status: "available", holder: "", ok: true},
		{name: "MaintenanceWithoutHolder", status: "maintenance", holder: "", ok: true},
		{name: "MaintenanceWithHolder", status: "maintenance", holder: "Workshop", ok: true},
		{name: "AssignedBlankHolder", status: "assigned", holder: "   ", want: ErrHolderRequired},
		{name: "AvailableWithHolder", status: "available", holder: "J. Doe", want: ErrHolderNotAllowed},
		{name: "UnknownStatus", status: "lost", holder: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.status, tc.holder)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error for %s/%q", tc.status, tc.holder)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateKindAndQuantity(t *testing.T) {
	if err := ValidateKind("stock"); err != nil {
		t.Fatalf("stock should be valid: %v", err)
	}
	if err := ValidateKind("consumable"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := ValidateQuantity(0); err != nil {
		t.Fatalf("zero quantity should be valid: %v", err)
	}
	if err := ValidateQuantity(-1); !errors.Is(err, ErrNegativeQuantity) {
		t.Fatalf("expected ErrNegativeQuantity, got %v", err)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Laptop\x00 A "); got != "Laptop A" {
		t.Fatalf("unexpected cleaned text %q", got)
	}
	if err := ValidateName(" \t"); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}
