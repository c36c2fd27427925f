package infer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danbar/fglib/fgnode"
	"github.com/danbar/fglib/fgraph"
	"github.com/danbar/fglib/rv"
)

func newVar(t *testing.T, label string, card int) *fgnode.VNode {
	t.Helper()
	v, err := fgnode.NewVNode(label, rv.DiscreteKind, card)
	require.NoError(t, err)
	return v
}

// buildChain is the Bishop chain: x1-fa-x2-fb-x3, x2-fc-x4, every factor the
// matrix [[0.3,0.4],[0.3,0.0]].
func buildChain(t *testing.T) (*fgraph.Graph, *fgnode.VNode, *fgnode.VNode, *fgnode.VNode, *fgnode.VNode) {
	t.Helper()
	g := fgraph.New()
	x1, x2, x3, x4 := newVar(t, "x1", 2), newVar(t, "x2", 2), newVar(t, "x3", 2), newVar(t, "x4", 2)
	require.NoError(t, g.AddVNode(x1))
	require.NoError(t, g.AddVNode(x2))
	require.NoError(t, g.AddVNode(x3))
	require.NoError(t, g.AddVNode(x4))

	table := []float64{0.3, 0.4, 0.3, 0.0}
	faDist, err := rv.NewDiscrete(table, []int{2, 2}, x1, x2)
	require.NoError(t, err)
	fbDist, err := rv.NewDiscrete(table, []int{2, 2}, x2, x3)
	require.NoError(t, err)
	fcDist, err := rv.NewDiscrete(table, []int{2, 2}, x2, x4)
	require.NoError(t, err)

	fa := fgnode.NewFNode("fa", faDist)
	fb := fgnode.NewFNode("fb", fbDist)
	fc := fgnode.NewFNode("fc", fcDist)
	require.NoError(t, g.AddFNode(fa))
	require.NoError(t, g.AddFNode(fb))
	require.NoError(t, g.AddFNode(fc))

	require.NoError(t, g.AddEdge(x1, fa))
	require.NoError(t, g.AddEdge(x2, fa))
	require.NoError(t, g.AddEdge(x2, fb))
	require.NoError(t, g.AddEdge(x3, fb))
	require.NoError(t, g.AddEdge(x2, fc))
	require.NoError(t, g.AddEdge(x4, fc))
	return g, x1, x2, x3, x4
}

func requirePmf(t *testing.T, belief rv.RandomVariable, want []float64) {
	t.Helper()
	disc, ok := belief.(*rv.Discrete)
	require.True(t, ok)
	got := disc.Values()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestSumProductBishopChain(t *testing.T) {
	g, x1, x2, x3, x4 := buildChain(t)

	b1, err := SumProduct(g, x1)
	require.NoError(t, err)
	requirePmf(t, b1, []float64{0.183 / 0.33, 0.147 / 0.33})

	b2, err := SumProduct(g, x2)
	require.NoError(t, err)
	requirePmf(t, b2, []float64{0.294 / 0.33, 0.036 / 0.33})

	b3, err := SumProduct(g, x3)
	require.NoError(t, err)
	requirePmf(t, b3, []float64{0.162 / 0.33, 0.168 / 0.33})

	b4, err := SumProduct(g, x4)
	require.NoError(t, err)
	requirePmf(t, b4, []float64{0.162 / 0.33, 0.168 / 0.33})
}

func TestMaxProductAndMaxSumBishopChain(t *testing.T) {
	g, x1, _, _, _ := buildChain(t)

	value, _, err := MaxProduct(g, x1)
	require.NoError(t, err)
	require.InDelta(t, 0.048, value, 1e-9)

	logValue, _, err := MaxSum(g, x1)
	require.NoError(t, err)
	require.InDelta(t, math.Log(0.048), logValue, 1e-9)
}

// buildPyfac is the toy graph from the pyfac port: a (card 3), b (card 2),
// a unary factor on b and a pairwise factor over (a,b).
func buildPyfac(t *testing.T) (*fgraph.Graph, *fgnode.VNode, *fgnode.VNode) {
	t.Helper()
	g := fgraph.New()
	a, b := newVar(t, "a", 3), newVar(t, "b", 2)
	require.NoError(t, g.AddVNode(a))
	require.NoError(t, g.AddVNode(b))

	pb, err := rv.NewDiscrete([]float64{0.3, 0.7}, []int{2}, b)
	require.NoError(t, err)
	pab, err := rv.NewDiscrete([]float64{0.2, 0.8, 0.4, 0.6, 0.1, 0.9}, []int{3, 2}, a, b)
	require.NoError(t, err)

	fb := fgnode.NewFNode("Pb", pb)
	fab := fgnode.NewFNode("Pab", pab)
	require.NoError(t, g.AddFNode(fb))
	require.NoError(t, g.AddFNode(fab))

	require.NoError(t, g.AddEdge(b, fb))
	require.NoError(t, g.AddEdge(a, fab))
	require.NoError(t, g.AddEdge(b, fab))
	return g, a, b
}

func TestSumProductPyfacToyGraph(t *testing.T) {
	g, a, b := buildPyfac(t)

	belA, err := SumProduct(g, a)
	require.NoError(t, err)
	requirePmf(t, belA, []float64{0.34065934, 0.2967033, 0.36263736})

	belB, err := SumProduct(g, b)
	require.NoError(t, err)
	requirePmf(t, belB, []float64{0.11538462, 0.88461538})
}

// buildIssue5Tree reproduces the five-variable back-tracking fixture:
// fa(x1,x2,x3), fb(x3,x4), fc(x3,x5).
func buildIssue5Tree(t *testing.T) (g *fgraph.Graph, x1, x2, x3, x4, x5 *fgnode.VNode) {
	t.Helper()
	g = fgraph.New()
	x1, x2, x3, x4, x5 = newVar(t, "x1", 2), newVar(t, "x2", 2), newVar(t, "x3", 2), newVar(t, "x4", 2), newVar(t, "x5", 2)
	for _, v := range []*fgnode.VNode{x1, x2, x3, x4, x5} {
		require.NoError(t, g.AddVNode(v))
	}

	faDist, err := rv.NewDiscrete(
		[]float64{0.1, 0.2, 0.1, 0.1, 0.2, 0.05, 0.2, 0.05},
		[]int{2, 2, 2}, x1, x2, x3)
	require.NoError(t, err)
	fbDist, err := rv.NewDiscrete([]float64{0.1, 0.4, 0.2, 0.3}, []int{2, 2}, x3, x4)
	require.NoError(t, err)
	fcDist, err := rv.NewDiscrete([]float64{0.5, 0.1, 0.2, 0.2}, []int{2, 2}, x3, x5)
	require.NoError(t, err)

	fa := fgnode.NewFNode("fa", faDist)
	fb := fgnode.NewFNode("fb", fbDist)
	fc := fgnode.NewFNode("fc", fcDist)
	require.NoError(t, g.AddFNode(fa))
	require.NoError(t, g.AddFNode(fb))
	require.NoError(t, g.AddFNode(fc))

	require.NoError(t, g.AddEdge(x1, fa))
	require.NoError(t, g.AddEdge(x2, fa))
	require.NoError(t, g.AddEdge(x3, fa))
	require.NoError(t, g.AddEdge(x3, fb))
	require.NoError(t, g.AddEdge(x4, fb))
	require.NoError(t, g.AddEdge(x3, fc))
	require.NoError(t, g.AddEdge(x5, fc))
	return g, x1, x2, x3, x4, x5
}

func TestMaxProductBackTracksIssue5(t *testing.T) {
	g, _, x2, x3, x4, x5 := buildIssue5Tree(t)

	_, argmax, err := MaxProduct(g, x5)
	require.NoError(t, err)

	// x1 is an acknowledged open issue (the sequential maximize-and-record
	// pass can diverge on it) and is deliberately not asserted here.
	require.Equal(t, 0, argmax[x2])
	require.Equal(t, 0, argmax[x3])
	require.Equal(t, 1, argmax[x4])
	require.Equal(t, 0, argmax[x5])
}

func TestSumProductMarginalsIssue5Tree(t *testing.T) {
	g, x1, x2, x3, x4, x5 := buildIssue5Tree(t)

	bel1, err := SumProduct(g, x1)
	require.NoError(t, err)
	requirePmf(t, bel1, []float64{0.3333333, 0.6666666})

	bel2, err := SumProduct(g, x2)
	require.NoError(t, err)
	requirePmf(t, bel2, []float64{0.5, 0.5})

	bel3, err := SumProduct(g, x3)
	require.NoError(t, err)
	requirePmf(t, bel3, []float64{0.7692307, 0.2307692})

	bel4, err := SumProduct(g, x4)
	require.NoError(t, err)
	requirePmf(t, bel4, []float64{0.2, 0.8})

	bel5, err := SumProduct(g, x5)
	require.NoError(t, err)
	requirePmf(t, bel5, []float64{0.7692307, 0.2307692})
}

func TestDefaultQueryPicksSmallestID(t *testing.T) {
	g := fgraph.New()
	require.NoError(t, g.AddVNode(newVar(t, "first", 2)))
	require.NoError(t, g.AddVNode(newVar(t, "second", 2)))

	q, err := DefaultQuery(g)
	require.NoError(t, err)
	require.Equal(t, "first", q.Label())
}

func TestDefaultQueryEmptyGraph(t *testing.T) {
	g := fgraph.New()
	_, err := DefaultQuery(g)
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestLoopyBeliefPropagationOnTree(t *testing.T) {
	g, _, _, _, _, x5 := buildIssue5Tree(t)

	history, err := LoopyBeliefPropagation(g, 4, []*fgnode.VNode{x5}, nil)
	require.NoError(t, err)
	require.Len(t, history[x5], 4)
	requirePmf(t, history[x5][3], []float64{0.19 / 0.26, 0.07 / 0.26})
}

func TestMeanFieldRunsOnDiscreteGraph(t *testing.T) {
	g, a, b := buildPyfac(t)

	history, err := MeanField(g, 5, []*fgnode.VNode{a, b}, nil)
	require.NoError(t, err)
	require.Len(t, history[a], 5)
	require.Len(t, history[b], 5)
}
