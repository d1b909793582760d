package btree

// frame records one step of a descent: the walk went from parent into parent.children[index].
type frame[K any] struct {
	parent *node[K]
	index  int
}

/*
Delete removes one occurrence of key and reports whether it was present.
Deleting an absent key is a no-op.

The descent is top-down. Before stepping into a child that holds only the minimum number of keys,
the child is topped up from a sibling or merged with one, so the leaf a key is finally removed from
can afford to lose it. The path taken is kept so that the one case which removes a key below the
fixed-up region (predecessor/successor substitution) can rebalance bottom-up without parent pointers.
*/
func (t *Tree[K]) Delete(key K) bool {
	removed := t.delete(key)
	if removed {
		t.length--
	}
	t.checkInvariants()
	return removed
}

func (t *Tree[K]) delete(key K) bool {
	var path []frame[K]
	n := t.root
	for {
		pos, found := n.search(key, t.compare)

		switch {
		case found && n.leaf:
			n.removeKeyAt(pos)
			t.rebalance(path, n)
			return true

		case found:
			// key is a separator in an internal node: replace it with a neighbour taken from a leaf.
			pred, succ := n.children[pos], n.children[pos+1]
			switch {
			case t.canLend(pred):
				leaf, leafPath := rightmostLeaf(pred, append(path, frame[K]{n, pos}))
				n.keys[pos] = leaf.removeKeyAt(len(leaf.keys) - 1)
				t.rebalance(leafPath, leaf)
				return true

			case t.canLend(succ):
				leaf, leafPath := leftmostLeaf(succ, append(path, frame[K]{n, pos + 1}))
				n.keys[pos] = leaf.removeKeyAt(0)
				t.rebalance(leafPath, leaf)
				return true

			default:
				// Neither side can spare a key: pull the separator down between them and
				// keep looking for it inside the merged node.
				merged := t.merge(n, pos)
				if merged != t.root {
					path = append(path, frame[K]{n, pos})
				}
				n = merged
			}

		case n.leaf:
			return false

		default:
			if !t.canLend(n.children[pos]) {
				// Fix the child before descending, then resolve the position again since
				// keys and children of n may have shifted (or n may no longer be the root).
				if t.fill(n, pos) {
					n = t.root
				}
				continue
			}
			path = append(path, frame[K]{n, pos})
			n = n.children[pos]
		}
	}
}

func leftmostLeaf[K any](n *node[K], path []frame[K]) (*node[K], []frame[K]) {
	for !n.leaf {
		path = append(path, frame[K]{n, 0})
		n = n.children[0]
	}
	return n, path
}

func rightmostLeaf[K any](n *node[K], path []frame[K]) (*node[K], []frame[K]) {
	for !n.leaf {
		last := len(n.children) - 1
		path = append(path, frame[K]{n, last})
		n = n.children[last]
	}
	return n, path
}

/*
rebalance restores minimum occupancy after a key was removed from n, walking back up the recorded path.
Each underfull node borrows from a sibling when one can lend, otherwise it is merged with a sibling,
which takes a key from the parent, so the check repeats one level up.
The root is exempt; a root left without keys collapses onto its only child.
*/
func (t *Tree[K]) rebalance(path []frame[K], n *node[K]) {
	for len(path) > 0 && len(n.keys) < t.minKeys() {
		f := path[len(path)-1]
		path = path[:len(path)-1]
		if t.fill(f.parent, f.index) {
			return
		}
		n = f.parent
	}
}

/*
fill brings parent.children[i] up by at least one key:
  - borrow from the left sibling if it can lend (rotate right),
  - else borrow from the right sibling if it can lend (rotate left),
  - else merge with the right sibling, or with the left one when i is the last child.

It reports whether the merge emptied the root and the tree lost a level.
*/
func (t *Tree[K]) fill(parent *node[K], i int) bool {
	switch {
	case i > 0 && t.canLend(parent.children[i-1]):
		t.rotateRight(parent, i)
	case i < len(parent.keys) && t.canLend(parent.children[i+1]):
		t.rotateLeft(parent, i)
	default:
		if i == len(parent.keys) {
			i--
		}
		return t.merge(parent, i) == t.root
	}
	return false
}

// rotateRight moves the left sibling's last key up into the parent and the parent's separator down
// to the front of parent.children[i], along with the sibling's last child for internal nodes.
func (t *Tree[K]) rotateRight(parent *node[K], i int) {
	target, left := parent.children[i], parent.children[i-1]
	target.insertKeyAt(0, parent.keys[i-1])
	parent.keys[i-1] = left.removeKeyAt(len(left.keys) - 1)
	if !target.leaf {
		target.insertChildAt(0, left.removeChildAt(len(left.children)-1))
	}
	t.notify(EventBorrowLeft)
}

// rotateLeft is the mirror image of rotateRight, taking from the right sibling.
func (t *Tree[K]) rotateLeft(parent *node[K], i int) {
	target, right := parent.children[i], parent.children[i+1]
	target.keys = append(target.keys, parent.keys[i])
	parent.keys[i] = right.removeKeyAt(0)
	if !target.leaf {
		target.children = append(target.children, right.removeChildAt(0))
	}
	t.notify(EventBorrowRight)
}

/*
merge folds the separator parent.keys[i] and the whole of parent.children[i+1] into parent.children[i].
The right node becomes unreachable. If parent was the root and has no keys left,
the merged node becomes the new root. merge returns the merged node.
*/
func (t *Tree[K]) merge(parent *node[K], i int) *node[K] {
	left, right := parent.children[i], parent.children[i+1]

	left.keys = append(left.keys, parent.removeKeyAt(i))
	left.keys = append(left.keys, right.keys...)
	if !left.leaf {
		left.children = append(left.children, right.children...)
	}
	parent.removeChildAt(i + 1)
	t.notify(EventMerge)

	if parent == t.root {
		t.collapseRoot()
	}
	return left
}
