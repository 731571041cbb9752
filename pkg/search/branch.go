package search

import "github.com/jwebster45206/wayfinder/pkg/world"

// Branch is one node of a BranchTree: the edge that led here (nil at the
// root), its parent's index (-1 at the root), the hop count and the
// directions still permitted onward.
type Branch struct {
	Edge      *world.Edge
	Location  *world.Location
	Parent    int
	Hops      int
	Permitted world.DirectionSet

	children []int
}

// BranchTree is the result of a direction-constrained vicinity query. It is
// an arena: branches are addressed by index, the root is index 0, and links
// are plain indices so the whole tree is released with the slice.
type BranchTree struct {
	Origin   *world.Location
	branches []Branch
	byLoc    map[string][]int
	order    []string
}

func newBranchTree(origin *world.Location) *BranchTree {
	t := &BranchTree{
		Origin: origin,
		byLoc:  make(map[string][]int),
	}
	t.branches = append(t.branches, Branch{Location: origin, Parent: -1, Permitted: world.AllDirections})
	t.byLoc[origin.ID] = []int{0}
	t.order = append(t.order, origin.ID)
	return t
}

// grow adds a child of parent reached over edge and returns its index.
func (t *BranchTree) grow(parent int, edge *world.Edge, permitted world.DirectionSet) int {
	i := len(t.branches)
	t.branches = append(t.branches, Branch{
		Edge:      edge,
		Location:  edge.To,
		Parent:    parent,
		Hops:      t.branches[parent].Hops + 1,
		Permitted: permitted,
	})
	t.branches[parent].children = append(t.branches[parent].children, i)
	if _, ok := t.byLoc[edge.To.ID]; !ok {
		t.order = append(t.order, edge.To.ID)
	}
	t.byLoc[edge.To.ID] = append(t.byLoc[edge.To.ID], i)
	return i
}

// dominated reports whether some branch already at locID permits at least
// the directions in permitted.
func (t *BranchTree) dominated(locID string, permitted world.DirectionSet) bool {
	for _, i := range t.byLoc[locID] {
		if t.branches[i].Permitted.IsSupersetOf(permitted) {
			return true
		}
	}
	return false
}

// Len returns the number of branches, root included.
func (t *BranchTree) Len() int {
	return len(t.branches)
}

// Branch returns the branch at index i. The children list is not exposed;
// use Children.
func (t *BranchTree) Branch(i int) Branch {
	b := t.branches[i]
	b.children = nil
	return b
}

// Children returns the indices of the branches grown from i.
func (t *BranchTree) Children(i int) []int {
	out := make([]int, len(t.branches[i].children))
	copy(out, t.branches[i].children)
	return out
}

// Leaves returns the indices of branches with no children.
func (t *BranchTree) Leaves() []int {
	var out []int
	for i, b := range t.branches {
		if len(b.children) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Path returns the edges from the root to branch i.
func (t *BranchTree) Path(i int) *Path {
	var edges []*world.Edge
	for ; i > 0; i = t.branches[i].Parent {
		edges = append(edges, t.branches[i].Edge)
	}
	for l, r := 0, len(edges)-1; l < r; l, r = l+1, r-1 {
		edges[l], edges[r] = edges[r], edges[l]
	}
	return &Path{Origin: t.Origin, Edges: edges}
}

// Directions returns the direction sequence from the root to branch i.
func (t *BranchTree) Directions(i int) []world.Direction {
	return t.Path(i).Directions()
}

// BranchesAt returns every branch that entered the location, in discovery order.
func (t *BranchTree) BranchesAt(locID string) []int {
	out := make([]int, len(t.byLoc[locID]))
	copy(out, t.byLoc[locID])
	return out
}

// Locations returns each reached location once, with the hop count of the
// first branch to enter it, in discovery order.
func (t *BranchTree) Locations() []Reached {
	out := make([]Reached, 0, len(t.order))
	for _, id := range t.order {
		first := t.branches[t.byLoc[id][0]]
		out = append(out, Reached{Location: first.Location, Hops: first.Hops})
	}
	return out
}
