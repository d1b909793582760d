package btree

import "github.com/cockroachdb/errors"

/*
Verify walks the whole tree and checks its structural invariants:
  - internal nodes hold exactly one more child than keys, leaves hold none;
  - keys are non-decreasing within a node and lie between the separators that lead to it;
  - every non-root node holds between t-1 and 2t keys, the root at most 2t;
  - an internal root holds at least one key;
  - all leaves are at the same depth;
  - the cached key count matches.

A violation is reported as an assertion failure (see errors.IsAssertionFailure):
it means the tree is corrupt, not that the caller did something wrong.
*/
func (t *Tree[K]) Verify() error {
	v := verifier[K]{tree: t, leafDepth: -1}
	if err := v.walk(t.root, 0, nil, nil); err != nil {
		return err
	}
	if v.count != t.length {
		return errors.AssertionFailedf("btree: counted %d keys, tree reports %d", v.count, t.length)
	}
	return nil
}

type verifier[K any] struct {
	tree      *Tree[K]
	leafDepth int
	count     int
}

func (v *verifier[K]) walk(n *node[K], depth int, lo, hi *K) error {
	t := v.tree
	isRoot := n == t.root

	if len(n.keys) > 2*t.order {
		return errors.AssertionFailedf("btree: node at depth %d holds %d keys, max is %d", depth, len(n.keys), 2*t.order)
	}
	if !isRoot && len(n.keys) < t.minKeys() {
		return errors.AssertionFailedf("btree: node at depth %d holds %d keys, min is %d", depth, len(n.keys), t.minKeys())
	}
	if isRoot && !n.leaf && len(n.keys) == 0 {
		return errors.AssertionFailedf("btree: internal root holds no keys")
	}

	for i, key := range n.keys {
		if i > 0 && t.compare(n.keys[i-1], key) > 0 {
			return errors.AssertionFailedf("btree: keys out of order at depth %d, index %d", depth, i)
		}
		if lo != nil && t.compare(key, *lo) < 0 {
			return errors.AssertionFailedf("btree: key at depth %d, index %d is below its lower separator", depth, i)
		}
		if hi != nil && t.compare(key, *hi) > 0 {
			return errors.AssertionFailedf("btree: key at depth %d, index %d is above its upper separator", depth, i)
		}
	}
	v.count += len(n.keys)

	if n.leaf {
		if len(n.children) != 0 {
			return errors.AssertionFailedf("btree: leaf at depth %d has %d children", depth, len(n.children))
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.AssertionFailedf("btree: leaves at depths %d and %d", v.leafDepth, depth)
		}
		return nil
	}

	if len(n.children) != len(n.keys)+1 {
		return errors.AssertionFailedf("btree: internal node at depth %d has %d keys and %d children",
			depth, len(n.keys), len(n.children))
	}
	for i, child := range n.children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			childHi = &n.keys[i]
		}
		if err := v.walk(child, depth+1, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}
