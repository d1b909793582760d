package btree

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// minOrder is the smallest branching parameter for which a split leaves both halves non-empty.
const minOrder = 2

var (
	// ErrInvalidConfig is returned by New and NewFunc for an unusable branching parameter or comparator.
	ErrInvalidConfig = errors.New("btree: invalid configuration")
	// ErrEmptyTree is returned by Min and Max when the tree holds no keys.
	ErrEmptyTree = errors.New("btree: empty tree")
)

/*
Tree is an in-memory multiway search tree over ordered keys.
It only keeps a pointer to the root node; every node holds between t-1 and 2t keys, except the root which may hold fewer.
Nodes are split on the way down during insertion and fixed up on the way down during deletion,
so no mutation ever has to walk back up to repair an ancestor it already left.

A Tree is not safe for concurrent use. Callers that share one must serialize access themselves.
*/
type Tree[K any] struct {
	root     *node[K]
	order    int
	compare  func(a, b K) int
	length   int
	observer Observer
}

type options struct {
	observer Observer
}

// Option configures a Tree at construction time.
type Option func(*options)

// WithObserver installs an Observer notified of every structural change.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// New returns an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered](order int, opts ...Option) (*Tree[K], error) {
	return NewFunc[K](order, cmp.Compare[K], opts...)
}

// NewFunc returns an empty tree ordered by compare, which must return a negative number, zero
// or a positive number when a < b, a == b or a > b respectively.
func NewFunc[K any](order int, compare func(a, b K) int, opts ...Option) (*Tree[K], error) {
	if order < minOrder {
		return nil, errors.Wrapf(ErrInvalidConfig, "order %d is below the minimum of %d", order, minOrder)
	}
	if compare == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil compare function")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Tree[K]{
		root:     newLeaf[K](),
		order:    order,
		compare:  compare,
		observer: o.observer,
	}, nil
}

// Order returns the branching parameter t the tree was built with.
func (t *Tree[K]) Order() int {
	return t.order
}

// minKeys is the occupancy floor for every non-root node.
func (t *Tree[K]) minKeys() int {
	return t.order - 1
}

// canLend reports whether n may give up a key to a sibling or ancestor without underflowing.
func (t *Tree[K]) canLend(n *node[K]) bool {
	return len(n.keys) > t.minKeys()
}

func (t *Tree[K]) notify(e Event) {
	if t.observer != nil {
		t.observer.Observe(e)
	}
}

/*
splitChild splits the full child parent.children[i].
The child's middle key moves into parent at index i and the new right half is linked in at i+1.
*/
func (t *Tree[K]) splitChild(parent *node[K], i int) {
	mid, right := parent.children[i].split(t.order)
	parent.insertKeyAt(i, mid)
	parent.insertChildAt(i+1, right)
	t.notify(EventSplit)
}

/*
Create a new root node.
The existing root then becomes the new root's only child and is split immediately,
so the new root ends up with one key and two children.
*/
func (t *Tree[K]) splitRoot() {
	newRoot := &node[K]{children: []*node[K]{t.root}}
	t.root = newRoot
	t.notify(EventRootGrow)
	t.splitChild(newRoot, 0)
}

// collapseRoot replaces a key-less internal root with its only child.
func (t *Tree[K]) collapseRoot() bool {
	if t.root.leaf || len(t.root.keys) > 0 {
		return false
	}
	t.root = t.root.children[0]
	t.notify(EventRootCollapse)
	return true
}

func (t *Tree[K]) checkInvariants() {
	if !invariantsEnabled {
		return
	}
	if err := t.Verify(); err != nil {
		panic(err)
	}
}

// String renders the tree with each subtree in braces, e.g. {[1 2] 3 [4 5]}.
func (t *Tree[K]) String() string {
	var b strings.Builder
	t.root.writeString(&b)
	return b.String()
}

func (n *node[K]) writeString(b *strings.Builder) {
	if n.leaf {
		fmt.Fprint(b, n.keys)
		return
	}
	b.WriteByte('{')
	for i, key := range n.keys {
		n.children[i].writeString(b)
		fmt.Fprintf(b, " %v ", key)
	}
	n.children[len(n.keys)].writeString(b)
	b.WriteByte('}')
}
