package btree

// Event identifies a structural change made to a tree.
type Event uint8

const (
	// EventSplit is emitted once per node split, including root splits.
	EventSplit Event = iota
	// EventRootGrow is emitted when a full root gets a new parent and the tree grows by one level.
	EventRootGrow
	// EventBorrowLeft is emitted when a node takes a key from its left sibling through the parent.
	EventBorrowLeft
	// EventBorrowRight is emitted when a node takes a key from its right sibling through the parent.
	EventBorrowRight
	// EventMerge is emitted when two siblings and their separator are combined into one node.
	EventMerge
	// EventRootCollapse is emitted when a key-less root is replaced by its only child.
	EventRootCollapse
)

var eventNames = [...]string{
	EventSplit:        "split",
	EventRootGrow:     "root_grow",
	EventBorrowLeft:   "borrow_left",
	EventBorrowRight:  "borrow_right",
	EventMerge:        "merge",
	EventRootCollapse: "root_collapse",
}

// Events lists every event a tree can emit.
var Events = []Event{EventSplit, EventRootGrow, EventBorrowLeft, EventBorrowRight, EventMerge, EventRootCollapse}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Observer receives structural events synchronously, on the goroutine that mutates the tree.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}
