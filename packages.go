package creditpane

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// Package is a purchasable bundle of credits at a fixed price. Values are
// immutable once handed to the component; the supplied slice is rendered in
// order and never sorted or mutated.
type Package struct {
	ID       string
	Credits  int
	Price    decimal.Decimal // currency-agnostic, displayed to two decimals
	Featured bool
	Savings  string // optional savings tag, e.g. "Save 20%"
}

// Receipt is the result of a completed purchase, produced by the purchase
// collaborator. NewBalance is the credit balance after the purchase; the
// panel readout adopts it on success.
type Receipt struct {
	ID         string
	NewBalance int
}

// DefaultPackages returns the built-in package set used when the caller
// supplies none: 20/50/100/200 credits. Only the 50-credit entry carries the
// featured badge; the larger bundles are discounted via savings tags.
func DefaultPackages() []Package {
	return []Package{
		{ID: "credits-20", Credits: 20, Price: decimal.RequireFromString("1.99")},
		{ID: "credits-50", Credits: 50, Price: decimal.RequireFromString("3.99"), Featured: true, Savings: "Save 20%"},
		{ID: "credits-100", Credits: 100, Price: decimal.RequireFromString("6.99"), Savings: "Save 30%"},
		{ID: "credits-200", Credits: 200, Price: decimal.RequireFromString("12.99"), Savings: "Save 35%"},
	}
}

// ValidatePackages checks a caller-supplied package set: IDs must be unique
// and non-empty, credit amounts and prices positive.
func ValidatePackages(pkgs []Package) error {
	seen := make(map[string]struct{}, len(pkgs))
	for i, p := range pkgs {
		if p.ID == "" {
			return fmt.Errorf("package %d: empty id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("package %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Credits <= 0 {
			return fmt.Errorf("package %q: credits must be positive, got %d", p.ID, p.Credits)
		}
		if !p.Price.IsPositive() {
			return fmt.Errorf("package %q: price must be positive, got %s", p.ID, p.Price)
		}
	}
	return nil
}

func formatPrice(p Package) string {
	return p.Price.StringFixed(2)
}
