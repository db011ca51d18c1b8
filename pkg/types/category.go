package types

import (
	"fmt"
	"strings"
)

// Category groups install items that share one adapter.
type Category string

const (
	CategoryBootstrap  Category = "bootstrap"
	CategoryTap        Category = "tap"
	CategoryFormula    Category = "formula"
	CategoryCask       Category = "cask"
	CategoryAppStore   Category = "mas"
	CategoryDotfile    Category = "dotfile"
	CategoryPreference Category = "preference"
	CategoryManual     Category = "manual"
)

// DefaultCategoryOrder is the processing order used when settings don't
// override it. Taps must precede formulas and casks that live in them.
var DefaultCategoryOrder = []Category{
	CategoryBootstrap,
	CategoryTap,
	CategoryFormula,
	CategoryCask,
	CategoryAppStore,
	CategoryDotfile,
	CategoryPreference,
	CategoryManual,
}

// AllCategories returns every known category in default order.
func AllCategories() []Category {
	out := make([]Category, len(DefaultCategoryOrder))
	copy(out, DefaultCategoryOrder)
	return out
}

// ParseCategory converts a string into a Category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DefaultCategoryOrder {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// NetworkDependent reports whether applying items of this category talks to
// the network, and therefore goes through the retry policy.
func (c Category) NetworkDependent() bool {
	switch c {
	case CategoryTap, CategoryFormula, CategoryCask, CategoryAppStore:
		return true
	}
	return false
}

// NeedsAdapter reports whether the plan must bind an adapter to c.
func (c Category) NeedsAdapter() bool {
	return c != CategoryManual && c != CategoryBootstrap
}

func (c Category) String() string {
	return string(c)
}

// DisplayName is the human label used in progress output.
func (c Category) DisplayName() string {
	switch c {
	case CategoryBootstrap:
		return "Bootstrap"
	case CategoryTap:
		return "Homebrew taps"
	case CategoryFormula:
		return "Homebrew formulas"
	case CategoryCask:
		return "Homebrew casks"
	case CategoryAppStore:
		return "App Store apps"
	case CategoryDotfile:
		return "Dotfiles"
	case CategoryPreference:
		return "Preferences"
	case CategoryManual:
		return "Manual installs"
	}
	return string(c)
}
