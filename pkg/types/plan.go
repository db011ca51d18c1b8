package types

import "fmt"

// ExecutionPlan is the ordered list of items for one profile, with every
// category bound to the adapter that handles it.
type ExecutionPlan struct {
	Profile  string
	Items    []InstallItem
	Adapters map[Category]Adapter
}

// Validate checks the structural invariants the orchestrator relies on:
// a non-empty item list, unique identifiers, items grouped by category and
// an adapter per category.
func (p *ExecutionPlan) Validate() error {
	if p == nil || len(p.Items) == 0 {
		return fmt.Errorf("plan is empty")
	}
	seen := make(map[Identifier]struct{}, len(p.Items))
	closed := map[Category]bool{}
	for i, item := range p.Items {
		id := item.ID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate identifier %s", id)
		}
		seen[id] = struct{}{}
		if i > 0 && p.Items[i-1].Category != item.Category {
			closed[p.Items[i-1].Category] = true
			if closed[item.Category] {
				return fmt.Errorf("items of category %s are not contiguous (at %s)", item.Category, id)
			}
		}
		if item.Category.NeedsAdapter() && p.Adapters[item.Category] == nil {
			return fmt.Errorf("no adapter for category %s", item.Category)
		}
	}
	return nil
}

// Identifiers returns the identifiers of all items in plan order.
func (p *ExecutionPlan) Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID())
	}
	return ids
}

// Categories returns the distinct categories of the plan in the order they
// first appear.
func (p *ExecutionPlan) Categories() []Category {
	var out []Category
	seen := map[Category]bool{}
	for _, item := range p.Items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// CountByCategory returns how many items of c the plan holds.
func (p *ExecutionPlan) CountByCategory(c Category) int {
	n := 0
	for _, item := range p.Items {
		if item.Category == c {
			n++
		}
	}
	return n
}
