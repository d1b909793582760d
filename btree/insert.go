package btree

/*
Insert adds key to the tree.
Duplicates are not rejected: inserting a key that is already present stores a second copy,
and each Delete removes one copy. Callers wanting set semantics should check Has first.
*/
func (t *Tree[K]) Insert(key K) {
	// The tree root is full, so perform a split on the root.
	// This guarantees the descent below never starts at a full node.
	if t.root.full(t.order) {
		t.splitRoot()
	}

	t.insertNonFull(t.root, key)
	t.length++
	t.checkInvariants()
}

/*
insertNonFull inserts key into the subtree rooted at n, which is known not to be full.
The algo keeps walking down the tree until it reaches the leaf suitable for insertion,
splitting any full child before stepping into it, so a leaf always has room for one more key.
*/
func (t *Tree[K]) insertNonFull(n *node[K], key K) {
	pos := n.upperBound(key, t.compare)

	// If we reach a leaf node -> it has sufficient space for the new key, so insert it.
	if n.leaf {
		n.insertKeyAt(pos, key)
		return
	}

	// If the next node on the traversal path is already full, split it.
	if n.children[pos].full(t.order) {
		t.splitChild(n, pos)

		// We may need to change our direction after promoting the middle key to the parent.
		// Keys equal to the promoted one stay on its left, which the ordering invariant allows.
		if t.compare(key, n.keys[pos]) > 0 {
			pos++
		}
	}

	t.insertNonFull(n.children[pos], key)
}
