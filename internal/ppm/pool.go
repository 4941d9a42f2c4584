package ppm

// pool is the append-only node arena. It is sized once from a memory
// budget and never frees or relocates a Node once allocated, matching
// spec.md's "arena, not a pointer graph" data model. This keeps only the
// bump-allocation idea from the teacher's subAllocator.AllocContext (take
// the next unit off the top); the rest of that allocator exists to reclaim
// and coalesce variable-sized blocks, which this arena never needs to do.
type pool struct {
	nodes []Node
	top   uint32
	limit uint32
}

// newPool allocates a pool with capacity for nodesLimit nodes.
func newPool(nodesLimit uint32) *pool {
	return &pool{
		nodes: make([]Node, nodesLimit),
		limit: nodesLimit,
	}
}

// full reports whether the arena has no room left for another node.
func (p *pool) full() bool {
	return p.top >= p.limit
}

// alloc appends n to the arena and returns its index. Callers must check
// full() first; alloc does not grow the underlying slice.
func (p *pool) alloc(n Node) uint32 {
	idx := p.top
	p.nodes[idx] = n
	p.top++
	return idx
}

func (p *pool) get(i uint32) *Node {
	return &p.nodes[i]
}

// usedNodes returns how many nodes have been allocated so far.
func (p *pool) usedNodes() uint32 {
	return p.top
}
