package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yi-nology/asset_tracker/pkg/constants"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrHolderRequired   = errors.New("assignedTo is required when status is assigned")
	ErrHolderNotAllowed = errors.New("assignedTo must be empty when status is available")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// CleanText trims whitespace and drops NUL bytes from free text input.
func CleanText(input string) string {
	return strings.ReplaceAll(strings.TrimSpace(input), "\x00", "")
}

// ValidateName rejects blank asset names.
func ValidateName(name string) error {
	if CleanText(name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateStatus checks that status is one of the known values.
func ValidateStatus(status string) error {
	if !constants.ValidStatuses[status] {
		return fmt.Errorf("unknown status %q", status)
	}
	return nil
}

// ValidateKind checks that kind is either asset or stock.
func ValidateKind(kind string) error {
	if !constants.ValidKinds[kind] {
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

// ValidateQuantity rejects negative quantities. Zero is a legal resting value.
func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// ValidateTransition checks the pairing of status and holder.
// assigned needs a holder, available must not carry one, maintenance accepts either.
func ValidateTransition(status, assignedTo string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	holder := CleanText(assignedTo)
	switch status {
	case constants.StatusAssigned:
		if holder == "" {
			return ErrHolderRequired
		}
	case constants.StatusAvailable:
		if holder != "" {
			return ErrHolderNotAllowed
		}
	}
	return nil
}
