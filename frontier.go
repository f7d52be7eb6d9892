package cfl

import "container/heap"

// nodeFrontier is the set of open subproblems, ordered best-bound-first.
// The frontier owns its nodes until they are popped.
type nodeFrontier struct {
	nodes nodeHeap
}

func newNodeFrontier() *nodeFrontier {
	f := &nodeFrontier{}
	heap.Init(&f.nodes)
	return f
}

func (f *nodeFrontier) push(n *searchNode) {
	heap.Push(&f.nodes, n)
}

// pop removes and returns the node with the smallest lower bound.
func (f *nodeFrontier) pop() *searchNode {
	return heap.Pop(&f.nodes).(*searchNode)
}

// peek returns the node with the smallest lower bound without removing it.
func (f *nodeFrontier) peek() *searchNode {
	return f.nodes[0]
}

func (f *nodeFrontier) len() int {
	return len(f.nodes)
}

// nodeHeap implements heap.Interface as a min-heap on lowerBound.
type nodeHeap []*searchNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(a, b int) bool {
	return h[a].lowerBound < h[b].lowerBound
}

func (h nodeHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }

func (h *nodeHeap) Push(x interface{}) {
	*h = append(*h, x.(*searchNode))
}

func (h *nodeHeap) Pop() interface{} {
	old := *h
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	*h = old[:last]
	return n
}
