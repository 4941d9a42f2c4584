package ppm

// Model is the pool of nodes together with the "active" node — the
// longest currently-matching context — that drives every prediction. It is
// the direct binary-alphabet analogue of the teacher's ModelPpm: a struct
// owning its allocator and its walk-state fields directly, rather than
// scattering them across globals.
type Model struct {
	pool *pool

	act   uint32 // index of the active (longest-matching) context
	order int    // length of act's context, in bits

	orderLimitBits int
}

// NewModel builds a model whose arena can hold nodesLimit nodes and whose
// contexts never grow past orderLimitBits bits deep. Growth beyond either
// bound is silently disabled rather than treated as an error, per spec.md
// §4.4's "the PPM never fails" failure model.
func NewModel(nodesLimit uint32, orderLimitBits int) *Model {
	m := &Model{
		pool:           newPool(nodesLimit),
		orderLimitBits: orderLimitBits,
	}
	m.init()
	return m
}

// init builds the fixed order-0 byte-wise binary decision trie described in
// spec.md §4.4: a root, 127 internal bit-decision nodes, and 128 leaves,
// with act starting at the root's bit-0 child.
func (m *Model) init() {
	p := m.pool

	// Index 0: root and universal null sentinel.
	p.alloc(newInitialNode(1, 1, 0))

	// Indices 1..127: internal bit-decision nodes.
	for dst := uint32(2); dst <= 254; dst += 2 {
		p.alloc(newInitialNode(dst, dst+1, 0))
	}

	// Indices 128..255: leaves, reached on the 8th bit of a byte.
	for i := 0; i < 128; i++ {
		p.alloc(newInitialNode(0, 0, 0))
	}

	m.act = 1
	m.order = 0
}

// Predict returns the active node's probability of the next bit being 1,
// rescaled from the model's 22-bit fixed-point scale to the range coder's
// 12-bit scale with zero-avoidance (spec.md §4.4).
func (m *Model) Predict() uint32 {
	return Fit0(m.pool.get(m.act).predict(), ppmPBits, AriPBits)
}

// Update folds the observed bit into the model: it updates every node
// visited along the suffix chain, then either grows a new context (if the
// chain descended and both the order and memory budgets allow it) or
// simply descends to the existing child. This must reproduce spec.md
// §4.4's algorithm bit-exactly, since the sequence of predicted
// probabilities is indirectly observable in the coded output.
func (m *Model) Update(bit int) {
	p := m.pool

	act := m.act
	p.get(act).update(bit)

	lst := act
	for edge(p.get(act), bit) == 0 {
		lst = act
		act = p.get(act).sfx
		m.order -= 8
		p.get(act).update(bit)
	}

	ext := edge(p.get(act), bit)

	if act != lst && m.order+9 <= m.orderLimitBits && !p.full() {
		parent := p.get(ext)
		n := newInheritedNode(parent.ctr, ext)
		newIdx := p.alloc(n)
		setEdge(p.get(lst), bit, newIdx)
		act = newIdx
		m.order += 9
	} else {
		act = ext
		m.order++
	}

	m.act = act
}

// edge returns n's child index on the observed bit.
func edge(n *Node, bit int) uint32 {
	if bit == 0 {
		return n.ext0
	}
	return n.ext1
}

// setEdge redirects n's edge on the observed bit to child.
func setEdge(n *Node, bit int, child uint32) {
	if bit == 0 {
		n.ext0 = child
	} else {
		n.ext1 = child
	}
}

// GetUsedMemory returns the arena's current footprint in MiB, for the
// progress reporter only; it does not affect encoding or decoding.
func (m *Model) GetUsedMemory() uint32 {
	return (m.pool.usedNodes() * nodeSize) >> 20
}
