package manifest

import (
	"iter"
	"slices"
)

// NavPage is one flattened navigation entry: the ordered ancestor group
// labels and the leaf's document target.
type NavPage struct {
	Breadcrumb []string
	Target     string
}

// FlattenNav yields one NavPage per leaf in pre-order, matching declaration
// order exactly. The sequence is finite and restartable; each yielded
// breadcrumb is an independent copy.
func FlattenNav(root *NavNode) iter.Seq[NavPage] {
	return func(yield func(NavPage) bool) {
		var crumb []string
		var walk func(n *NavNode) bool
		walk = func(n *NavNode) bool {
			if n.Leaf() {
				return yield(NavPage{Breadcrumb: slices.Clone(crumb), Target: n.Target})
			}
			if n.Label != "" {
				crumb = append(crumb, n.Label)
				defer func() { crumb = crumb[:len(crumb)-1] }()
			}
			for _, c := range n.Children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

// Pages collects the flattened navigation into a slice.
func Pages(root *NavNode) []NavPage {
	return slices.Collect(FlattenNav(root))
}

// MarshalYAML serializes the node back to the manifest mapping form: the
// unlabeled root becomes a sequence, leaves become single-key label-to-path
// mappings, groups become single-key label-to-sequence mappings. Re-loading
// the output yields identical breadcrumb/target pairs.
func (n *NavNode) MarshalYAML() (any, error) {
	if n.Label == "" && !n.Leaf() {
		return marshalChildren(n.Children), nil
	}
	return n.mappingForm(), nil
}

func (n *NavNode) mappingForm() any {
	if n.Leaf() {
		return map[string]any{n.Label: n.Target}
	}
	return map[string]any{n.Label: marshalChildren(n.Children)}
}

func marshalChildren(children []*NavNode) []any {
	out := make([]any, 0, len(children))
	for _, c := range children {
		out = append(out, c.mappingForm())
	}
	return out
}
