package cfl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TreeLogger(t *testing.T) {
	tl := NewTreeLogger()

	root := newRootNode()
	root.lowerBound = 610

	left := newChildNode(root, 1, 1, 0)
	left.lowerBound = 612

	right := newChildNode(root, 2, 1, 1)
	right.lowerBound = 615

	tl.NodeCreated(root)
	tl.NodeCreated(left)
	tl.NodeCreated(right)

	tl.Decision(root, NODE_BRANCHED)
	tl.Decision(left, NODE_LP_INFEASIBLE)
	tl.Decision(right, NODE_NEW_INCUMBENT)

	require.Len(t, tl.nodes, 3)
	assert.Equal(t, traceNode{
		id:       0,
		parent:   0,
		depth:    0,
		bound:    610,
		decision: NODE_BRANCHED,
		solved:   true,
	}, tl.nodes[0])
	assert.Equal(t, NODE_NEW_INCUMBENT, tl.nodes[2].decision)
	assert.Equal(t, int64(0), tl.nodes[2].parent)
	assert.True(t, tl.nodes[1].solved)
}

func Test_TreeLogger_ToDOT(t *testing.T) {
	tl := NewTreeLogger()

	root := newRootNode()
	root.lowerBound = 610
	child := newChildNode(root, 1, 0, 1)
	child.lowerBound = 615

	tl.NodeCreated(root)
	tl.NodeCreated(child)
	tl.Decision(root, NODE_BRANCHED)

	var buf bytes.Buffer
	tl.ToDOT(&buf)
	out := buf.String()

	assert.Contains(t, out, "digraph searchtree {")
	assert.Contains(t, out, "0 -> 1 ;")
	assert.Contains(t, out, "unsolved")
	assert.Contains(t, out, "bound=610.00")
}

func Test_TreeLogger_DuplicateNodePanics(t *testing.T) {
	tl := NewTreeLogger()
	root := newRootNode()
	tl.NodeCreated(root)

	assert.Panics(t, func() { tl.NodeCreated(root) })
	assert.Panics(t, func() { tl.Decision(newChildNode(root, 7, 0, 1), NODE_BRANCHED) })
}

func Test_CombineMiddleware(t *testing.T) {
	a := &boundAudit{}
	b := &boundAudit{}
	mw := CombineMiddleware(a, b)

	n := newRootNode()
	n.lowerBound = 100
	mw.NodeCreated(n)
	mw.Decision(n, NODE_BRANCHED)
	mw.Bounds(1, 100, 200)

	assert.Equal(t, []float64{100}, a.bounds)
	assert.Equal(t, []float64{100}, b.bounds)
}
