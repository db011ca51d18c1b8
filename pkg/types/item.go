package types

import (
	"fmt"
	"strings"
)

// Identifier is the stable "<category>:<name>" key of an install item.
type Identifier string

// NewIdentifier builds the identifier for name in category c.
func NewIdentifier(c Category, name string) Identifier {
	return Identifier(string(c) + ":" + name)
}

// Category returns the category prefix of the identifier.
func (id Identifier) Category() Category {
	c, _, _ := strings.Cut(string(id), ":")
	return Category(c)
}

// Name returns everything after the category prefix.
func (id Identifier) Name() string {
	_, name, _ := strings.Cut(string(id), ":")
	return name
}

func (id Identifier) String() string {
	return string(id)
}

// DotfileMode selects how a dotfile is materialized in the home directory.
type DotfileMode string

const (
	DotfileSymlink DotfileMode = "symlink"
	DotfileCopy    DotfileMode = "copy"
)

// DotfileParams locates a dotfile source inside the config directory and
// its target in the home directory.
type DotfileParams struct {
	Source string
	Target string
	Mode   DotfileMode
}

// PreferenceParams describes one `defaults write` call.
// Type is one of bool, int, float, string, array, dict or empty for auto.
type PreferenceParams struct {
	Domain string
	Key    string
	Value  interface{}
	Type   string
}

// AppStoreParams identifies a Mac App Store application.
type AppStoreParams struct {
	ID   int64
	Name string
}

// ManualParams carries the instructions shown for apps macsetup can't install.
type ManualParams struct {
	URL          string
	Instructions string
}

// InstallItem is one unit of work in a plan.
type InstallItem struct {
	Category Category
	Name     string
	// Params is nil for taps, formulas, casks and bootstrap items, and one
	// of the *Params structs above otherwise.
	Params interface{}
}

// ID returns the identifier of the item.
func (i InstallItem) ID() Identifier {
	return NewIdentifier(i.Category, i.Name)
}

func (i InstallItem) String() string {
	return string(i.ID())
}

// Dotfile returns the dotfile parameters of the item.
func (i InstallItem) Dotfile() (DotfileParams, error) {
	p, ok := i.Params.(DotfileParams)
	if !ok {
		return DotfileParams{}, fmt.Errorf("item %s has no dotfile parameters", i.ID())
	}
	return p, nil
}

// Preference returns the preference parameters of the item.
func (i InstallItem) Preference() (PreferenceParams, error) {
	p, ok := i.Params.(PreferenceParams)
	if !ok {
		return PreferenceParams{}, fmt.Errorf("item %s has no preference parameters", i.ID())
	}
	return p, nil
}

// AppStore returns the App Store parameters of the item.
func (i InstallItem) AppStore() (AppStoreParams, error) {
	p, ok := i.Params.(AppStoreParams)
	if !ok {
		return AppStoreParams{}, fmt.Errorf("item %s has no app store parameters", i.ID())
	}
	return p, nil
}

// Manual returns the manual-install parameters of the item. Items without
// parameters yield the zero value.
func (i InstallItem) Manual() ManualParams {
	p, _ := i.Params.(ManualParams)
	return p
}
