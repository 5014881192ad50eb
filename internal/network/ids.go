package network

// IDAllocator issues synthetic node ids that cannot collide with ids already
// present in a network. Ids are handed out monotonically and never reused.
type IDAllocator struct {
	next uint64
}

// NewIDAllocator seeds an allocator one above the largest id used by any
// node or edge endpoint of r, including recurrent edges.
func NewIDAllocator(r Recurrent) *IDAllocator {
	var max uint64
	seen := false
	observe := func(id uint64) {
		if !seen || id > max {
			max = id
			seen = true
		}
	}
	for _, n := range Nodes(r) {
		observe(n.ID())
	}
	for _, e := range r.Edges() {
		observe(e.Start())
		observe(e.End())
	}
	for _, e := range r.RecurrentEdges() {
		observe(e.Start())
		observe(e.End())
	}
	if !seen {
		return &IDAllocator{}
	}
	return &IDAllocator{next: max + 1}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() uint64 {
	if a.next == ^uint64(0) {
		panic("network: synthetic id space exhausted")
	}
	id := a.next
	a.next++
	return id
}
