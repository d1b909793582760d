package btree

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"
)

// DotGraph renders the tree as a Graphviz digraph, one box per node labelled with its keys.
func (t *Tree[K]) DotGraph() string {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	id := 0
	var traverse func(n *node[K]) dot.Node
	traverse = func(n *node[K]) dot.Node {
		gn := graph.Node(fmt.Sprintf("n%d", id)).
			Label(keysLabel(n.keys)).
			Attr("shape", "box")
		id++
		if n.leaf {
			gn.Attr("style", "rounded")
			return gn
		}
		for i, child := range n.children {
			gn.Edge(traverse(child), fmt.Sprint(i))
		}
		return gn
	}
	traverse(t.root)

	return graph.String()
}

func keysLabel[K any](keys []K) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, " | ")
}
