package cli

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"btreeindex/btree"
	"btreeindex/metrics"
)

var (
	promptColor = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed)
	okColor     = color.New(color.FgGreen)
)

// ParseFunc turns one command argument into a key.
type ParseFunc[K any] func(string) (K, error)

func ParseInt(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer key %q", s)
	}
	return k, nil
}

func ParseString(s string) (string, error) {
	return s, nil
}

type Cli[K cmp.Ordered] struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree[K]
	visualizer *btree.Visualizer[K]
	parse      ParseFunc[K]
	metrics    *metrics.Collector
	log        zerolog.Logger
}

func NewCli[K cmp.Ordered](s *bufio.Scanner, out io.Writer, t *btree.Tree[K], parse ParseFunc[K], log zerolog.Logger) *Cli[K] {
	v := &btree.Visualizer[K]{
		Tree: t,
	}
	return &Cli[K]{scanner: s, out: out, tree: t, visualizer: v, parse: parse, log: log}
}

// WithMetrics makes the CLI refresh c's shape gauges after every mutating command.
func (c *Cli[K]) WithMetrics(m *metrics.Collector) *Cli[K] {
	c.metrics = m
	if m != nil {
		m.Track(c.tree)
	}
	return c
}

// Start runs the read-eval-print loop until EXIT or the end of input.
func (c *Cli[K]) Start() error {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return nil
		}
		c.printPrompt()
	}
	return errors.Wrap(c.scanner.Err(), "reading input")
}

func (c *Cli[K]) printHelp() {
	fmt.Fprint(c.out, `
B-Tree Index CLI

Available Commands:
  INS <key>...    Insert one or more keys
  DEL <key>...    Remove one occurrence of each key
  HAS <key>       Report whether a key is stored
  MIN             Print the smallest key
  MAX             Print the largest key
  LEVELS          Print the keys of every node, level by level
  DOT             Print the tree as a Graphviz digraph
  STATS           Print size and shape of the tree
  VERIFY          Check the tree's structural invariants
  HELP            Print this message
  EXIT            Terminate this session
`)
}

func (c *Cli[K]) printPrompt() {
	promptColor.Fprint(c.out, "> ")
}

func (c *Cli[K]) printError(format string, args ...any) {
	errorColor.Fprintf(c.out, format+"\n", args...)
}

// processInput executes one line and reports whether the session should continue.
func (c *Cli[K]) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		c.printError("Unknown command %q", command)
	case "ins", "insert":
		c.processInsertCommand(fields[1:])
	case "del", "delete":
		c.processDeleteCommand(fields[1:])
	case "has", "get":
		c.processHasCommand(fields[1:])
	case "min":
		c.processBoundCommand(c.tree.Min)
	case "max":
		c.processBoundCommand(c.tree.Max)
	case "levels":
		if err := c.tree.PrintLevels(c.out); err != nil {
			c.log.Error().Err(err).Msg("printing levels")
		}
	case "dot":
		fmt.Fprintln(c.out, c.tree.DotGraph())
	case "stats":
		c.processStatsCommand()
	case "verify":
		c.processVerifyCommand()
	case "help":
		c.printHelp()
	case "exit", "quit":
		return false
	}
	return true
}

func (c *Cli[K]) parseKeys(args []string) ([]K, bool) {
	keys := make([]K, 0, len(args))
	for _, arg := range args {
		k, err := c.parse(arg)
		if err != nil {
			c.printError("%v", err)
			return nil, false
		}
		keys = append(keys, k)
	}
	return keys, true
}

func (c *Cli[K]) processInsertCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: INS <key>...")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	for _, k := range keys {
		c.tree.Insert(k)
	}
	c.log.Debug().Int("count", len(keys)).Int("len", c.tree.Len()).Msg("inserted keys")
	c.afterMutation()
}

func (c *Cli[K]) processDeleteCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: DEL <key>...")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	removed := 0
	for _, k := range keys {
		if !c.tree.Delete(k) {
			fmt.Fprintf(c.out, "Key %v not found.\n", k)
			continue
		}
		removed++
	}
	c.log.Debug().Int("removed", removed).Int("len", c.tree.Len()).Msg("deleted keys")
	if removed > 0 {
		c.afterMutation()
	}
}

func (c *Cli[K]) afterMutation() {
	if c.metrics != nil {
		c.metrics.Track(c.tree)
	}
	fmt.Fprint(c.out, c.visualizer.Visualize())
}

func (c *Cli[K]) processHasCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: HAS <key>")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	fmt.Fprintln(c.out, c.tree.Has(keys[0]))
}

func (c *Cli[K]) processBoundCommand(bound func() (K, error)) {
	k, err := bound()
	if errors.Is(err, btree.ErrEmptyTree) {
		fmt.Fprintln(c.out, "Tree is empty.")
		return
	}
	fmt.Fprintln(c.out, k)
}

func (c *Cli[K]) processStatsCommand() {
	s := c.tree.Stats()
	fmt.Fprintf(c.out, "keys:   %s\n", humanize.Comma(int64(s.Keys)))
	fmt.Fprintf(c.out, "order:  %d\n", c.tree.Order())
	fmt.Fprintf(c.out, "height: %d\n", s.Height)
	fmt.Fprintf(c.out, "nodes:  %s (%s leaves)\n", humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.Leaves)))
}

func (c *Cli[K]) processVerifyCommand() {
	if err := c.tree.Verify(); err != nil {
		c.log.Error().Err(err).Msg("tree failed verification")
		c.printError("%v", err)
		return
	}
	okColor.Fprintln(c.out, "OK")
}
