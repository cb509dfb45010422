package tree

// IDGenerator hands out monotonically increasing node ids.
// It is not safe for concurrent use; callers serialize access.
type IDGenerator struct {
	next int
}

// NewIDGenerator returns a generator whose first candidate is start.
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{next: start}
}

// Next returns the next counter value not already used in root.
// Skipping present values protects against imported data that reuses ids.
func (g *IDGenerator) Next(root *Node) int {
	used := IDs(root)
	for {
		id := g.next
		g.next++
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

// Peek returns the next candidate without consuming it.
func (g *IDGenerator) Peek() int { return g.next }

// Reset sets the next candidate.
func (g *IDGenerator) Reset(next int) { g.next = next }
