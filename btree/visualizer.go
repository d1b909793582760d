package btree

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	levelColors = []*color.Color{
		color.New(color.FgCyan, color.Bold),
		color.New(color.FgMagenta),
		color.New(color.FgYellow),
		color.New(color.FgBlue),
	}
	leafColor  = color.New(color.FgGreen)
	labelColor = color.New(color.Faint)
)

// Visualizer renders a tree level by level for a terminal, one colour per depth and green leaves.
type Visualizer[K any] struct {
	Tree *Tree[K]
}

func (v *Visualizer[K]) Visualize() string {
	var b strings.Builder
	height := v.Tree.Height()
	for depth, level := range v.Tree.Levels() {
		c := levelColors[depth%len(levelColors)]
		if depth == height-1 {
			c = leafColor
		}
		b.WriteString(labelColor.Sprintf("L%d", depth))
		for _, keys := range level {
			b.WriteByte(' ')
			b.WriteString(c.Sprint(fmt.Sprint(keys)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
