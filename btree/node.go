package btree

/*
A node holds its keys in non-decreasing order.
Internal nodes hold exactly len(keys)+1 children; leaves hold none.
There are no parent pointers: a node is owned by its parent's children slice
(or by the Tree, for the root) and operations that need the parent carry it
down the call chain.
*/
type node[K any] struct {
	keys     []K
	children []*node[K]
	leaf     bool
}

func newLeaf[K any]() *node[K] {
	return &node[K]{leaf: true}
}

// full reports whether n holds 2t keys and must be split before a key may descend into it.
func (n *node[K]) full(t int) bool {
	return len(n.keys) >= 2*t
}

/*
If key is found in node n, return its index i.
Else, return the index j where the key would have resided if it was present in the node.
Basically, lower bound of the key in the node -- this coincides with position of the child pointer,
so we can continue the traversal down the tree if the returned boolean value is false.
*/
func (n *node[K]) search(key K, compare func(a, b K) int) (int, bool) {
	low, high := 0, len(n.keys)
	for low < high {
		mid := int(uint(low+high) >> 1)
		switch c := compare(key, n.keys[mid]); {
		case c > 0:
			low = mid + 1
		case c < 0:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// upperBound returns the first index i with key < keys[i], or len(keys).
func (n *node[K]) upperBound(key K, compare func(a, b K) int) int {
	low, high := 0, len(n.keys)
	for low < high {
		mid := int(uint(low+high) >> 1)
		if compare(key, n.keys[mid]) < 0 {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}

func (n *node[K]) insertKeyAt(pos int, key K) {
	var zero K
	n.keys = append(n.keys, zero)
	if pos < len(n.keys)-1 {
		copy(n.keys[pos+1:], n.keys[pos:])
	}
	n.keys[pos] = key
}

func (n *node[K]) removeKeyAt(pos int) K {
	key := n.keys[pos]
	copy(n.keys[pos:], n.keys[pos+1:])
	var zero K
	n.keys[len(n.keys)-1] = zero
	n.keys = n.keys[:len(n.keys)-1]
	return key
}

func (n *node[K]) insertChildAt(pos int, child *node[K]) {
	n.children = append(n.children, nil)
	if pos < len(n.children)-1 {
		copy(n.children[pos+1:], n.children[pos:])
	}
	n.children[pos] = child
}

func (n *node[K]) removeChildAt(pos int) *node[K] {
	child := n.children[pos]
	copy(n.children[pos:], n.children[pos+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	return child
}

/*
split divides a full node (2t keys) in two.
The node keeps its first t-1 keys (and first t children), keys[t-1] is returned for promotion into the parent,
and the new right sibling takes the upper t keys (and the remaining t+1 children).
Linking the results into the parent is the caller's job; see Tree.splitChild.
*/
func (n *node[K]) split(t int) (K, *node[K]) {
	mid := n.keys[t-1]

	right := &node[K]{leaf: n.leaf}
	right.keys = append(make([]K, 0, 2*t), n.keys[t:]...)
	if !n.leaf {
		right.children = append(make([]*node[K], 0, 2*t+1), n.children[t:]...)
		clear(n.children[t:])
		n.children = n.children[:t]
	}

	// Drop references held by the moved tail so they can be collected.
	clear(n.keys[t-1:])
	n.keys = n.keys[:t-1]

	return mid, right
}
