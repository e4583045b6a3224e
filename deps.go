package unitcalc

// graph records which variables and custom functions depend on which others,
// so that changing a variable clears the memoized results of every function
// that reads it, directly or through other functions.
type graph struct {
	nodes []depNode
}

type depNode struct {
	// deps are the nodes this node reads, and dependents are the nodes that
	// read this one.
	deps, dependents []int
	// clear drops the node's cached results. It is nil for variables.
	clear func()
}

// add creates a node and returns its index.
func (g *graph) add(clear func()) int {
	g.nodes = append(g.nodes, depNode{clear: clear})
	return len(g.nodes) - 1
}

// link replaces the dependencies of node i.
func (g *graph) link(i int, deps []int) {
	n := &g.nodes[i]
	for _, d := range n.deps {
		g.nodes[d].dependents = remove(g.nodes[d].dependents, i)
	}
	n.deps = append(n.deps[:0], deps...)
	for _, d := range deps {
		if d == i {
			continue
		}
		g.nodes[d].dependents = append(g.nodes[d].dependents, i)
	}
}

// invalidate clears the caches of every node which transitively depends on i.
func (g *graph) invalidate(i int) {
	seen := map[int]bool{i: true}
	queue := []int{i}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, d := range g.nodes[n].dependents {
			if seen[d] {
				continue
			}
			seen[d] = true
			if c := g.nodes[d].clear; c != nil {
				c()
			}
			queue = append(queue, d)
		}
	}
}

func remove(s []int, x int) []int {
	for k, y := range s {
		if y == x {
			return append(s[:k], s[k+1:]...)
		}
	}
	return s
}
