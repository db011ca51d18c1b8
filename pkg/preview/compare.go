package preview

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/macsetup/pkg/types"
)

// Difference lists the items of one category that only one of two plans
// contains.
type Difference struct {
	Category   types.Category `json:"category"`
	OnlyFirst  []Entry        `json:"only_first"`
	OnlySecond []Entry        `json:"only_second"`
}

// Compare reports, per category, the items found in only one of the two
// plans. Bootstrap items depend on the rest of the plan and are ignored.
// Categories without differences are left out.
func Compare(first, second *types.ExecutionPlan) []Difference {
	a, b := byIdentifier(first), byIdentifier(second)

	var order []types.Category
	seen := map[types.Category]bool{}
	for _, p := range []*types.ExecutionPlan{first, second} {
		for _, c := range p.Categories() {
			if c != types.CategoryBootstrap && !seen[c] {
				seen[c] = true
				order = append(order, c)
			}
		}
	}

	var diffs []Difference
	for _, c := range order {
		d := Difference{
			Category:   c,
			OnlyFirst:  missingFrom(first, c, b),
			OnlySecond: missingFrom(second, c, a),
		}
		if len(d.OnlyFirst) > 0 || len(d.OnlySecond) > 0 {
			diffs = append(diffs, d)
		}
	}
	return diffs
}

func byIdentifier(p *types.ExecutionPlan) map[types.Identifier]bool {
	ids := make(map[types.Identifier]bool, len(p.Items))
	for _, item := range p.Items {
		ids[item.ID()] = true
	}
	return ids
}

func missingFrom(p *types.ExecutionPlan, c types.Category, other map[types.Identifier]bool) []Entry {
	out := []Entry{}
	for _, item := range p.Items {
		if item.Category == c && !other[item.ID()] {
			out = append(out, entry(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RenderCompare prints the output of Compare: "-" for items only in the
// first profile and "+" for items only in the second.
func RenderCompare(w io.Writer, first, second string, diffs []Difference) error {
	if _, err := fmt.Fprintf(w, "Comparing %s vs %s:\n", first, second); err != nil {
		return err
	}
	if len(diffs) == 0 {
		_, err := fmt.Fprintln(w, "  No differences.")
		return err
	}
	for _, d := range diffs {
		if _, err := fmt.Fprintf(w, "\n  %s:\n", d.Category.DisplayName()); err != nil {
			return err
		}
		for _, e := range d.OnlyFirst {
			if _, err := fmt.Fprintf(w, "    - %s (only in %s)\n", label(e), first); err != nil {
				return err
			}
		}
		for _, e := range d.OnlySecond {
			if _, err := fmt.Fprintf(w, "    + %s (only in %s)\n", label(e), second); err != nil {
				return err
			}
		}
	}
	return nil
}
