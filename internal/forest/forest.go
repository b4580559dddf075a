// Package forest groups resolved event ranges into containment trees for
// hierarchical timeline display.
package forest

import (
	"cmp"
	"slices"

	"timeliner/internal/temporal"
)

// Entry is anything placed on the timeline by its resolved range.
type Entry interface {
	Range() temporal.Range
}

// Node holds the entries whose range equals Range exactly, and child nodes
// whose ranges lie inside Range.
type Node[E Entry] struct {
	Range    temporal.Range
	Bucket   []E
	Children []*Node[E]
}

// Forest is an ordered list of root nodes.
type Forest[E Entry] struct {
	Roots []*Node[E]
}

// Build inserts entries narrowest first. Entries of equal width keep their
// input order.
func Build[E Entry](entries []E) *Forest[E] {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b E) int {
		return cmp.Compare(a.Range().WidthDays(), b.Range().WidthDays())
	})

	f := &Forest[E]{}
	for _, e := range sorted {
		f.Insert(e)
	}
	return f
}

// Insert places e in the forest. It returns false only for entries without
// a start date.
func (f *Forest[E]) Insert(e E) bool {
	r := e.Range()
	if r.Start.IsZero() {
		return false
	}

	if n := f.Find(r); n != nil {
		n.Bucket = append(n.Bucket, e)
		return true
	}

	for i, root := range f.Roots {
		if next, ok := root.add(e, r); ok {
			f.Roots[i] = next
			return true
		}
	}
	f.Roots = append(f.Roots, newLeaf(e, r))
	return true
}

// Find returns the first node, depth first, whose range equals r.
func (f *Forest[E]) Find(r temporal.Range) *Node[E] {
	var found *Node[E]
	f.Walk(func(n *Node[E], _ int) bool {
		if n.Range == r {
			found = n
		}
		return found == nil
	})
	return found
}

// Walk visits nodes parent before children. Returning false from fn stops
// the walk.
func (f *Forest[E]) Walk(fn func(n *Node[E], depth int) bool) {
	for _, root := range f.Roots {
		if !root.walk(fn, 0) {
			return
		}
	}
}

// Len counts the entries held in all buckets.
func (f *Forest[E]) Len() int {
	total := 0
	f.Walk(func(n *Node[E], _ int) bool {
		total += len(n.Bucket)
		return true
	})
	return total
}

func (n *Node[E]) walk(fn func(*Node[E], int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

func newLeaf[E Entry](e E, r temporal.Range) *Node[E] {
	return &Node[E]{Range: r, Bucket: []E{e}}
}

// add places e at or below n. The returned node replaces n in its parent's
// slot, since grafting may put a wider node in n's place.
func (n *Node[E]) add(e E, r temporal.Range) (*Node[E], bool) {
	if n.Range == r {
		n.Bucket = append(n.Bucket, e)
		return n, true
	}

	// Descending only into nodes that contain r keeps every child inside its
	// parent after grafting.
	if n.Range.Contains(r) {
		for i, c := range n.Children {
			if next, ok := c.add(e, r); ok {
				n.Children[i] = next
				return n, true
			}
		}
	}
	return n.addChild(newLeaf(e, r))
}

// addChild grafts leaf by containment:
//   - leaf inside n: offered to the children first, else attached to n;
//   - leaf enclosing n: n is replaced by leaf, with n as its child;
//   - one leaf bound inside n: n is replaced by a node spanning both, with
//     n and leaf as its children;
//   - otherwise the graft fails.
//
// n itself is never modified on replacement; it moves down one level.
func (n *Node[E]) addChild(leaf *Node[E]) (*Node[E], bool) {
	startIn := within(leaf.Range.Start, n.Range)
	endIn := within(leaf.Range.End, n.Range)
	encloses := leaf.Range.HasEnd() && leaf.Range.Contains(n.Range)
	if !startIn && !endIn && !encloses {
		return n, false
	}

	span := n.Range.Span(leaf.Range)
	switch {
	case startIn && endIn, span == n.Range:
		for i, c := range n.Children {
			if next, ok := c.addChild(leaf); ok {
				n.Children[i] = next
				return n, true
			}
		}
		n.Children = append(n.Children, leaf)
		return n, true

	case span == leaf.Range:
		return &Node[E]{Range: leaf.Range, Bucket: leaf.Bucket, Children: []*Node[E]{n}}, true
	}
	return &Node[E]{Range: span, Children: []*Node[E]{n, leaf}}, true
}

// within compares inclusively when probe and both bounds are present;
// otherwise probe must equal one of the bounds, so an absent probe only
// matches an absent bound.
func within(probe temporal.CalendarDate, bounds temporal.Range) bool {
	lo, hi := bounds.Start, bounds.End
	if !probe.IsZero() && !lo.IsZero() && !hi.IsZero() {
		return lo.Compare(probe) <= 0 && probe.Compare(hi) <= 0
	}
	return probe == lo || probe == hi
}
