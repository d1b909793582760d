package btree

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func newIntTree(t testing.TB, order int, opts ...Option) *Tree[int] {
	tr, err := New[int](order, opts...)
	require.NoError(t, err)
	return tr
}

// levels collects the whole breadth-first enumeration.
func levels[K any](tr *Tree[K]) [][][]K {
	var out [][][]K
	for _, level := range tr.Levels() {
		out = append(out, level)
	}
	return out
}

// rang returns an ordered list of ints in the range [from, to].
func rang(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

type eventCounter map[Event]int

func (c eventCounter) Observe(e Event) {
	c[e]++
}

func TestNewRejectsBadOrder(t *testing.T) {
	for _, order := range []int{-3, 0, 1} {
		_, err := New[int](order)
		require.ErrorIs(t, err, ErrInvalidConfig, "order %d", order)
	}
	_, err := NewFunc[int](3, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	tr, err := New[int](2)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Order())
}

func TestEmptyTree(t *testing.T) {
	tr := newIntTree(t, 3)
	require.Zero(t, tr.Len())
	require.Equal(t, 1, tr.Height())
	require.False(t, tr.Has(1))
	require.False(t, tr.Delete(1))

	_, err := tr.Min()
	require.ErrorIs(t, err, ErrEmptyTree)
	_, err = tr.Max()
	require.ErrorIs(t, err, ErrEmptyTree)

	lv := levels(tr)
	require.Len(t, lv, 1)
	require.Len(t, lv[0], 1)
	require.Empty(t, lv[0][0])
	require.NoError(t, tr.Verify())
}

func TestInsertOneToNine(t *testing.T) {
	events := eventCounter{}
	tr := newIntTree(t, 3, WithObserver(events))
	for _, k := range rang(1, 9) {
		tr.Insert(k)
	}

	// The root leaf fills up at 2t=6 keys; inserting 7 splits it around keys[t-1]=3.
	require.Equal(t, [][][]int{
		{{3}},
		{{1, 2}, {4, 5, 6, 7, 8, 9}},
	}, levels(tr))
	require.Equal(t, "{[1 2] 3 [4 5 6 7 8 9]}", tr.String())
	require.Equal(t, 1, events[EventRootGrow])
	require.Equal(t, 1, events[EventSplit])

	var buf bytes.Buffer
	require.NoError(t, tr.PrintLevels(&buf))
	require.Equal(t, "[3]\n[1 2] [4 5 6 7 8 9]\n", buf.String())

	for _, k := range rang(1, 9) {
		require.True(t, tr.Has(k), "key %d", k)
	}
	require.False(t, tr.Has(0))
	require.False(t, tr.Has(10))
	require.NoError(t, tr.Verify())
}

func TestDeleteSeparatorTakesSuccessor(t *testing.T) {
	tr := newIntTree(t, 3)
	for _, k := range rang(1, 9) {
		tr.Insert(k)
	}

	require.True(t, tr.Delete(3))
	require.Equal(t, [][][]int{
		{{4}},
		{{1, 2}, {5, 6, 7, 8, 9}},
	}, levels(tr))
	require.False(t, tr.Has(3))
	require.True(t, tr.Has(2))
	require.True(t, tr.Has(4))
	require.Equal(t, 8, tr.Len())
	require.NoError(t, tr.Verify())
}

func TestDeleteSeparatorTakesPredecessor(t *testing.T) {
	tr := newIntTree(t, 2)
	for _, k := range []int{1, 2, 3, 4, 5, 0} {
		tr.Insert(k)
	}
	require.Equal(t, [][][]int{{{2}}, {{0, 1}, {3, 4, 5}}}, levels(tr))

	require.True(t, tr.Delete(2))
	require.Equal(t, [][][]int{{{1}}, {{0}, {3, 4, 5}}}, levels(tr))
	require.NoError(t, tr.Verify())
}

func TestDeleteBorrowsFromRightSibling(t *testing.T) {
	events := eventCounter{}
	tr := newIntTree(t, 3, WithObserver(events))
	for _, k := range rang(1, 9) {
		tr.Insert(k)
	}

	require.True(t, tr.Delete(1))
	require.Equal(t, [][][]int{
		{{4}},
		{{2, 3}, {5, 6, 7, 8, 9}},
	}, levels(tr))
	require.Equal(t, 1, events[EventBorrowRight])
	require.Zero(t, events[EventMerge])
	require.NoError(t, tr.Verify())
}

func TestDeleteBorrowsFromLeftSibling(t *testing.T) {
	events := eventCounter{}
	tr := newIntTree(t, 2, WithObserver(events))
	for _, k := range []int{1, 2, 3, 4, 5, 0} {
		tr.Insert(k)
	}
	require.True(t, tr.Delete(5))
	require.True(t, tr.Delete(4))
	require.Equal(t, [][][]int{{{2}}, {{0, 1}, {3}}}, levels(tr))

	require.True(t, tr.Delete(3))
	require.Equal(t, [][][]int{{{1}}, {{0}, {2}}}, levels(tr))
	require.Equal(t, 1, events[EventBorrowLeft])
	require.NoError(t, tr.Verify())
}

func TestDeleteMergeCollapsesRoot(t *testing.T) {
	for name, tc := range map[string]struct {
		key  int
		want []int
	}{
		"separator":  {key: 2, want: []int{1, 3}},
		"left leaf":  {key: 1, want: []int{2, 3}},
		"right leaf": {key: 3, want: []int{1, 2}},
	} {
		t.Run(name, func(t *testing.T) {
			events := eventCounter{}
			tr := newIntTree(t, 2, WithObserver(events))
			for _, k := range rang(1, 5) {
				tr.Insert(k)
			}
			require.True(t, tr.Delete(5))
			require.True(t, tr.Delete(4))
			require.Equal(t, [][][]int{{{2}}, {{1}, {3}}}, levels(tr))
			require.Equal(t, 2, tr.Height())

			require.True(t, tr.Delete(tc.key))
			require.Equal(t, [][][]int{{tc.want}}, levels(tr))
			require.Equal(t, 1, tr.Height())
			require.Equal(t, 1, events[EventMerge])
			require.Equal(t, 1, events[EventRootCollapse])
			require.NoError(t, tr.Verify())
		})
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	tr := newIntTree(t, 3)
	for _, k := range rang(1, 50) {
		tr.Insert(k * 2)
	}
	require.False(t, tr.Delete(7))
	require.False(t, tr.Delete(1000))
	require.Equal(t, 50, tr.Len())
	require.NoError(t, tr.Verify())

	// Absent keys may still trigger pre-emptive fixes on the way down,
	// but never change the set of stored keys.
	require.Equal(t, rang(1, 50), halve(tr.Keys()))
}

func halve(keys []int) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k / 2
	}
	return out
}

func TestMinMax(t *testing.T) {
	tr := newIntTree(t, 2)
	for _, k := range rand.Perm(500) {
		tr.Insert(k)
	}
	lo, err := tr.Min()
	require.NoError(t, err)
	require.Equal(t, 0, lo)
	hi, err := tr.Max()
	require.NoError(t, err)
	require.Equal(t, 499, hi)

	require.True(t, tr.Delete(0))
	require.True(t, tr.Delete(499))
	lo, _ = tr.Min()
	hi, _ = tr.Max()
	require.Equal(t, 1, lo)
	require.Equal(t, 498, hi)
}

func TestInsertDeleteRandomOrder(t *testing.T) {
	for order := 2; order <= 6; order++ {
		tr := newIntTree(t, order)
		const n = 1000
		for _, k := range rand.Perm(n) {
			tr.Insert(k)
		}
		require.NoError(t, tr.Verify(), "order %d", order)
		require.Equal(t, rang(0, n-1), tr.Keys())

		deleted := make(map[int]bool)
		for i, k := range rand.Perm(n) {
			require.True(t, tr.Delete(k), "order %d key %d", order, k)
			deleted[k] = true
			require.False(t, tr.Has(k))
			if i%50 == 0 {
				require.NoError(t, tr.Verify(), "order %d after %d deletes", order, i+1)
				for j := 0; j < n; j++ {
					require.Equal(t, !deleted[j], tr.Has(j), "order %d key %d", order, j)
				}
			}
		}
		require.Zero(t, tr.Len())
		require.Equal(t, 1, tr.Height())
		require.NoError(t, tr.Verify())
	}
}

func TestSequentialInsertDelete(t *testing.T) {
	tr := newIntTree(t, 3)
	for _, k := range rang(0, 999) {
		tr.Insert(k)
	}
	require.NoError(t, tr.Verify())
	for _, k := range rang(0, 499) {
		require.True(t, tr.Delete(k))
	}
	require.NoError(t, tr.Verify())
	for k := 999; k >= 500; k-- {
		require.True(t, tr.Delete(k))
		require.NoError(t, tr.Verify())
	}
	require.Zero(t, tr.Len())
}

func TestHeightNeverGrowsOnDelete(t *testing.T) {
	tr := newIntTree(t, 2)
	for _, k := range rand.Perm(300) {
		tr.Insert(k)
	}
	height := tr.Height()
	require.Greater(t, height, 2)
	for _, k := range rand.Perm(300) {
		tr.Delete(k)
		require.LessOrEqual(t, tr.Height(), height)
		height = tr.Height()
	}
	require.Equal(t, 1, height)
}

func TestRoundTrip(t *testing.T) {
	tr := newIntTree(t, 4)
	for _, k := range rand.Perm(200) {
		tr.Insert(k * 3)
	}
	for k := 0; k < 600; k++ {
		if tr.Has(k) {
			continue
		}
		tr.Insert(k)
		require.True(t, tr.Has(k))
		require.True(t, tr.Delete(k))
		require.False(t, tr.Has(k))
		require.NoError(t, tr.Verify())
	}
	require.Equal(t, 200, tr.Len())
}

func TestDuplicateKeys(t *testing.T) {
	tr := newIntTree(t, 2)
	for i := 0; i < 12; i++ {
		tr.Insert(5)
		tr.Insert(i)
	}
	require.Equal(t, 24, tr.Len())
	require.NoError(t, tr.Verify())
	require.True(t, slices.IsSorted(tr.Keys()))

	// 12 inserted fives plus the five from 0..11.
	removed := 0
	for tr.Delete(5) {
		removed++
		require.NoError(t, tr.Verify())
	}
	require.Equal(t, 13, removed)
	require.False(t, tr.Has(5))
	require.Equal(t, 11, tr.Len())
}

func TestOccupancyBounds(t *testing.T) {
	for order := 2; order <= 5; order++ {
		tr := newIntTree(t, order)
		for _, k := range rand.Perm(2000) {
			tr.Insert(k)
		}
		for _, k := range rand.Perm(2000)[:1500] {
			tr.Delete(k)
		}
		for depth, level := range tr.Levels() {
			for _, keys := range level {
				require.LessOrEqual(t, len(keys), 2*order)
				if depth > 0 {
					require.GreaterOrEqual(t, len(keys), order/2)
					require.GreaterOrEqual(t, len(keys), order-1)
				}
			}
		}
	}
}

func TestLevelsStopsEarly(t *testing.T) {
	tr := newIntTree(t, 2)
	for _, k := range rang(1, 100) {
		tr.Insert(k)
	}
	seen := 0
	for depth := range tr.Levels() {
		seen++
		if depth == 1 {
			break
		}
	}
	require.Equal(t, 2, seen)

	// Levels hands out copies.
	for _, level := range tr.Levels() {
		level[0][0] = -1
		break
	}
	require.NoError(t, tr.Verify())
}

func TestStats(t *testing.T) {
	tr := newIntTree(t, 3)
	for _, k := range rang(1, 9) {
		tr.Insert(k)
	}
	require.Equal(t, Stats{Keys: 9, Height: 2, Nodes: 3, Leaves: 2}, tr.Stats())
}

func TestCustomCompare(t *testing.T) {
	tr, err := NewFunc[string](2, func(a, b string) int {
		return strings.Compare(b, a)
	})
	require.NoError(t, err)
	for _, k := range []string{"pear", "apple", "fig", "kiwi", "plum", "date"} {
		tr.Insert(k)
	}
	require.Equal(t, []string{"plum", "pear", "kiwi", "fig", "date", "apple"}, tr.Keys())
	first, err := tr.Min()
	require.NoError(t, err)
	require.Equal(t, "plum", first)
}

func TestAscendStopsEarly(t *testing.T) {
	tr := newIntTree(t, 2)
	for _, k := range rand.Perm(100) {
		tr.Insert(k)
	}
	var got []int
	tr.Ascend(func(k int) bool {
		got = append(got, k)
		return k < 9
	})
	require.Equal(t, rang(0, 9), got)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	tr := newIntTree(t, 3)
	for _, k := range rang(1, 9) {
		tr.Insert(k)
	}

	leaf := tr.root.children[1]
	leaf.keys[0], leaf.keys[1] = leaf.keys[1], leaf.keys[0]
	err := tr.Verify()
	require.Error(t, err)
	require.True(t, errors.IsAssertionFailure(err))
	leaf.keys[0], leaf.keys[1] = leaf.keys[1], leaf.keys[0]
	require.NoError(t, tr.Verify())

	tr.root.keys[0] = 100
	require.True(t, errors.IsAssertionFailure(tr.Verify()))
	tr.root.keys[0] = 3

	tr.length++
	require.True(t, errors.IsAssertionFailure(tr.Verify()))
	tr.length--

	tr.root.children = tr.root.children[:1]
	require.True(t, errors.IsAssertionFailure(tr.Verify()))
}

func BenchmarkInsert(b *testing.B) {
	keys := rand.Perm(b.N)
	tr := newIntTree(b, 16)
	b.ResetTimer()
	for _, k := range keys {
		tr.Insert(k)
	}
}

func BenchmarkHas(b *testing.B) {
	const n = 100_000
	tr := newIntTree(b, 16)
	for _, k := range rand.Perm(n) {
		tr.Insert(k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Has(i % n)
	}
}

func BenchmarkDelete(b *testing.B) {
	keys := rand.Perm(b.N)
	tr := newIntTree(b, 16)
	for _, k := range keys {
		tr.Insert(k)
	}
	b.ResetTimer()
	for _, k := range keys {
		tr.Delete(k)
	}
}
