package btree

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// Has reports whether key is stored in the tree.
func (t *Tree[K]) Has(key K) bool {
	for n := t.root; ; {
		pos, found := n.search(key, t.compare)
		if found {
			return true
		}
		if n.leaf {
			return false
		}
		// On a miss the lower bound is also the first key greater than key,
		// which is the child whose range covers it.
		n = n.children[pos]
	}
}

// Min returns the smallest key, or ErrEmptyTree.
func (t *Tree[K]) Min() (K, error) {
	if t.length == 0 {
		var zero K
		return zero, ErrEmptyTree
	}
	return minKey(t.root), nil
}

// Max returns the largest key, or ErrEmptyTree.
func (t *Tree[K]) Max() (K, error) {
	if t.length == 0 {
		var zero K
		return zero, ErrEmptyTree
	}
	return maxKey(t.root), nil
}

func minKey[K any](n *node[K]) K {
	for !n.leaf {
		n = n.children[0]
	}
	return n.keys[0]
}

func maxKey[K any](n *node[K]) K {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	return n.keys[len(n.keys)-1]
}

// Len returns the number of keys stored, counting duplicates.
func (t *Tree[K]) Len() int {
	return t.length
}

// Height returns the number of levels; an empty tree has height 1.
func (t *Tree[K]) Height() int {
	h := 1
	for n := t.root; !n.leaf; n = n.children[0] {
		h++
	}
	return h
}

// Ascend calls fn for every key in ascending order until fn returns false.
func (t *Tree[K]) Ascend(fn func(K) bool) {
	t.root.ascend(fn)
}

func (n *node[K]) ascend(fn func(K) bool) bool {
	for i, key := range n.keys {
		if !n.leaf && !n.children[i].ascend(fn) {
			return false
		}
		if !fn(key) {
			return false
		}
	}
	if n.leaf {
		return true
	}
	return n.children[len(n.keys)].ascend(fn)
}

// Keys returns every key in ascending order.
func (t *Tree[K]) Keys() []K {
	keys := make([]K, 0, t.length)
	t.Ascend(func(k K) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

/*
Levels enumerates the tree breadth-first, root level first.
Each step yields the depth and, for every node at that depth from left to right, a copy of its keys.
The sequence is computed lazily one level at a time and never mutates the tree;
the tree must not be modified while the sequence is being consumed.
*/
func (t *Tree[K]) Levels() iter.Seq2[int, [][]K] {
	return func(yield func(int, [][]K) bool) {
		level := []*node[K]{t.root}
		for depth := 0; len(level) > 0; depth++ {
			var next []*node[K]
			keys := make([][]K, 0, len(level))
			for _, n := range level {
				keys = append(keys, slices.Clone(n.keys))
				if !n.leaf {
					next = append(next, n.children...)
				}
			}
			if !yield(depth, keys) {
				return
			}
			level = next
		}
	}
}

// PrintLevels writes one line per level, each node's keys in brackets: "[4] [2 3] [6 7]".
func (t *Tree[K]) PrintLevels(w io.Writer) error {
	for _, level := range t.Levels() {
		parts := make([]string, len(level))
		for i, keys := range level {
			parts[i] = fmt.Sprint(keys)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Keys   int
	Height int
	Nodes  int
	Leaves int
}

// Stats walks the whole tree; it costs O(nodes).
func (t *Tree[K]) Stats() Stats {
	s := Stats{Keys: t.length}
	for depth, level := range t.Levels() {
		s.Height = depth + 1
		s.Nodes += len(level)
		// All leaves share the deepest level.
		s.Leaves = len(level)
	}
	return s
}
