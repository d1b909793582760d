// Package skiplist implements an ordered multiset on a skip list.
// It is deliberately independent of the btree package so it can serve as a
// reference model when checking the tree's behaviour.
package skiplist

import (
	"cmp"
	"math"
	"math/rand/v2"
)

const (
	MaxHeight = 16
	p         = 0.5
)

var probabilities [MaxHeight]uint32

type node[K any] struct {
	key   K
	count int // occurrences of key
	tower [MaxHeight]*node[K]
}

type SkipList[K any] struct {
	head    *node[K] // starting head node
	height  int      // current height
	length  int      // total occurrences
	compare func(a, b K) int
}

func init() {
	probability := 1.0

	for level := 0; level < MaxHeight; level++ {
		probabilities[level] = uint32(probability * float64(math.MaxUint32))
		probability *= p
	}
}

func randomHeight() int {
	seed := rand.Uint32()

	height := 1
	for height < MaxHeight && seed <= probabilities[height] {
		height++
	}

	return height
}

func New[K cmp.Ordered]() *SkipList[K] {
	return NewFunc[K](cmp.Compare[K])
}

func NewFunc[K any](compare func(a, b K) int) *SkipList[K] {
	return &SkipList[K]{
		head:    &node[K]{},
		height:  1,
		compare: compare,
	}
}

// search returns the node holding key (or nil) and, per level, the last node before it.
func (sl *SkipList[K]) search(key K) (*node[K], [MaxHeight]*node[K]) {
	var next *node[K]
	var journey [MaxHeight]*node[K]

	prev := sl.head
	// top to bottom level
	for level := sl.height - 1; level >= 0; level-- {
		for next = prev.tower[level]; next != nil; next = prev.tower[level] {
			// key <= next.key
			if sl.compare(key, next.key) <= 0 {
				break
			}
			// key > next.key
			prev = next
		}
		journey[level] = prev
	}

	if next != nil && sl.compare(key, next.key) == 0 {
		return next, journey
	}
	return nil, journey
}

func (sl *SkipList[K]) Has(key K) bool {
	n, _ := sl.search(key)
	return n != nil
}

// Count returns how many times key was inserted and not yet deleted.
func (sl *SkipList[K]) Count(key K) int {
	n, _ := sl.search(key)
	if n == nil {
		return 0
	}
	return n.count
}

func (sl *SkipList[K]) Len() int {
	return sl.length
}

func (sl *SkipList[K]) Insert(key K) {
	n, journey := sl.search(key)
	sl.length++

	// another occurrence of an existing key
	if n != nil {
		n.count++
		return
	}

	height := randomHeight()
	newNode := &node[K]{
		key:   key,
		count: 1,
	}

	//bottom to top level
	for level := 0; level < height; level++ {
		prev := journey[level]
		if prev == nil {
			// prev is nil if we extend the height of the list
			// journey array won't have an entry for it.
			prev = sl.head
		}
		newNode.tower[level] = prev.tower[level]
		prev.tower[level] = newNode
	}

	// update current height of skiplist
	if height > sl.height {
		sl.height = height
	}
}

func (sl *SkipList[K]) shrink() {
	for level := sl.height - 1; level > 0; level-- {
		if sl.head.tower[level] == nil {
			sl.height--
		} else {
			break
		}
	}
}

// Delete removes one occurrence of key and reports whether there was one.
func (sl *SkipList[K]) Delete(key K) bool {
	n, journey := sl.search(key)

	// no such key exists
	if n == nil {
		return false
	}
	sl.length--
	if n.count > 1 {
		n.count--
		return true
	}

	//bottom to top level
	for level := 0; level < sl.height; level++ {
		prev := journey[level]

		if prev.tower[level] != n {
			break
		}

		prev.tower[level] = n.tower[level]
		n.tower[level] = nil
	}

	// shrink height if the removed node was the only node residing on
	// that particular level of the skip list.
	sl.shrink()
	return true
}

// Keys returns every occurrence in ascending order.
func (sl *SkipList[K]) Keys() []K {
	keys := make([]K, 0, sl.length)
	for n := sl.head.tower[0]; n != nil; n = n.tower[0] {
		for i := 0; i < n.count; i++ {
			keys = append(keys, n.key)
		}
	}
	return keys
}

func (sl *SkipList[K]) Min() (K, bool) {
	if n := sl.head.tower[0]; n != nil {
		return n.key, true
	}
	var zero K
	return zero, false
}

func (sl *SkipList[K]) Max() (K, bool) {
	prev := sl.head
	for level := sl.height - 1; level >= 0; level-- {
		for prev.tower[level] != nil {
			prev = prev.tower[level]
		}
	}
	if prev == sl.head {
		var zero K
		return zero, false
	}
	return prev.key, true
}
