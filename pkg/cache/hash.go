package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/arbor/pkg/tree"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashedNode is the part of a node that influences a layout result.
// Positions are excluded: every layout pass starts from scratch.
type hashedNode struct {
	ID        int             `json:"i"`
	Text      string          `json:"t"`
	Highlight *tree.Highlight `json:"h,omitempty"`
	Children  []hashedNode    `json:"c,omitempty"`
}

func hashable(n *tree.Node) hashedNode {
	h := hashedNode{ID: n.ID, Text: n.Text, Highlight: n.Highlight}
	for _, c := range n.Children {
		h.Children = append(h.Children, hashable(c))
	}
	return h
}

// TreeHash hashes the structure, ids, labels and highlights of a tree.
// Trees that differ only in stored positions hash equally.
func TreeHash(root *tree.Node) string {
	if root == nil {
		return Hash(nil)
	}
	data, _ := json.Marshal(hashable(root))
	return Hash(data)
}
