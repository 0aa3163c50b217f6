package hugr

import "fmt"

// RemoveDeadFuncs deletes every top-level function not reachable from the
// given entry points through calls or function loads.
func RemoveDeadFuncs(h *Hugr, entries ...Node) error {
	reachable := make(map[Node]bool)
	var queue []Node
	for _, e := range entries {
		d := h.Get(e)
		if d == nil || d.Parent != h.Root() || !d.Op.IsFunction() {
			return fmt.Errorf("%w: entry point %d is not a top-level function", ErrInvalidHugr, e)
		}
		if !reachable[e] {
			reachable[e] = true
			queue = append(queue, e)
		}
	}

	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		for _, n := range h.Descendants(fn) {
			op := h.Nodes[n].Op
			if op != OpCall && op != OpLoadFunction {
				continue
			}
			callee, ok := h.StaticSource(n)
			if !ok || !h.Nodes[callee].Op.IsFunction() || reachable[callee] {
				continue
			}
			reachable[callee] = true
			queue = append(queue, callee)
		}
	}

	for _, n := range h.Children(h.Root()) {
		if h.Nodes[n].Op.IsFunction() && !reachable[n] {
			h.RemoveSubtree(n)
		}
	}
	return nil
}
