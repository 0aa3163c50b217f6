package hugr

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidHugr is wrapped by every structural validation failure.
var ErrInvalidHugr = errors.New("invalid hugr")

// Node is the index of a node within its Hugr. Indices stay stable when
// nodes are removed; serialization renumbers them.
type Node int

// OpType names the operation of a node.
type OpType string

const (
	OpModule       OpType = "Module"
	OpFuncDefn     OpType = "FuncDefn"
	OpFuncDecl     OpType = "FuncDecl"
	OpInput        OpType = "Input"
	OpOutput       OpType = "Output"
	OpConst        OpType = "Const"
	OpLoadConstant OpType = "LoadConstant"
	OpLoadFunction OpType = "LoadFunction"
	OpCall         OpType = "Call"
	OpExtension    OpType = "Extension"
	OpDFG          OpType = "DFG"
)

// IsFunction reports whether the op defines or declares a function.
func (o OpType) IsFunction() bool {
	return o == OpFuncDefn || o == OpFuncDecl
}

// NodeData is a node's parent and operation. The op-specific fields are
// inlined the way the frontend serializes them.
type NodeData struct {
	Parent    Node          `json:"parent"`
	Op        OpType        `json:"op"`
	Name      string        `json:"name,omitempty"`      // function name or extension op name
	Signature *PolyFuncType `json:"signature,omitempty"` // FuncDefn, FuncDecl, Extension
	Types     []Type        `json:"types,omitempty"`     // Input and Output port types
	Value     *Value        `json:"value,omitempty"`     // Const
	TypeArgs  []Type        `json:"type_args,omitempty"` // Call, LoadFunction
	Extension string        `json:"extension,omitempty"` // Extension
}

func (d *NodeData) clone() *NodeData {
	c := *d
	c.Signature = d.Signature.clone()
	if d.Types != nil {
		c.Types = append([]Type(nil), d.Types...)
	}
	if d.TypeArgs != nil {
		c.TypeArgs = append([]Type(nil), d.TypeArgs...)
	}
	if d.Value != nil {
		v := *d.Value
		c.Value = &v
	}
	return &c
}

// Port addresses one port of a node.
type Port struct {
	Node   Node
	Offset int
}

// Out is shorthand for the output port offset of n.
func Out(n Node, offset int) Port { return Port{Node: n, Offset: offset} }

func (p Port) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{int(p.Node), p.Offset})
}

func (p *Port) UnmarshalJSON(data []byte) error {
	var raw [2]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Node, p.Offset = Node(raw[0]), raw[1]
	return nil
}

// Edge links an output port to an input port.
type Edge struct {
	Src Port
	Dst Port
}

func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Port{e.Src, e.Dst})
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw [2]Port
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Src, e.Dst = raw[0], raw[1]
	return nil
}

// Hugr is one hierarchical program graph. Node 0 is the Module root and is
// its own parent. Removed nodes are nil entries in Nodes.
type Hugr struct {
	Version string
	Nodes   []*NodeData
	Edges   []Edge
}

// New returns a Hugr holding only the Module root.
func New() *Hugr {
	return &Hugr{
		Version: "live",
		Nodes:   []*NodeData{{Parent: 0, Op: OpModule}},
	}
}

// Root returns the Module node.
func (h *Hugr) Root() Node { return 0 }

// Get returns the data of n, or nil when n does not exist.
func (h *Hugr) Get(n Node) *NodeData {
	if n < 0 || int(n) >= len(h.Nodes) {
		return nil
	}
	return h.Nodes[n]
}

// Contains reports whether n is a live node.
func (h *Hugr) Contains(n Node) bool { return h.Get(n) != nil }

// NodeCount returns the number of live nodes.
func (h *Hugr) NodeCount() int {
	count := 0
	for _, d := range h.Nodes {
		if d != nil {
			count++
		}
	}
	return count
}

// AddNode appends a node under parent.
func (h *Hugr) AddNode(parent Node, data NodeData) Node {
	data.Parent = parent
	h.Nodes = append(h.Nodes, &data)
	return Node(len(h.Nodes) - 1)
}

// Connect adds an edge from src's output port to dst's input port.
func (h *Hugr) Connect(src Port, dst Port) {
	h.Edges = append(h.Edges, Edge{Src: src, Dst: dst})
}

// Children returns the direct children of n in index order.
func (h *Hugr) Children(n Node) []Node {
	var out []Node
	for i, d := range h.Nodes {
		if d != nil && d.Parent == n && Node(i) != n {
			out = append(out, Node(i))
		}
	}
	return out
}

// Descendants returns n followed by every node below it, in index order.
func (h *Hugr) Descendants(n Node) []Node {
	in := map[Node]bool{n: true}
	out := []Node{n}
	// Parents always precede their children only in well-formed input, so
	// iterate until no new node joins the set.
	for changed := true; changed; {
		changed = false
		for i, d := range h.Nodes {
			child := Node(i)
			if d == nil || in[child] || child == d.Parent {
				continue
			}
			if in[d.Parent] {
				in[child] = true
				out = append(out, child)
				changed = true
			}
		}
	}
	slices.Sort(out[1:])
	return out
}

// InEdges returns the edges entering n ordered by input port.
func (h *Hugr) InEdges(n Node) []Edge {
	var out []Edge
	for _, e := range h.Edges {
		if e.Dst.Node == n {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Edge) int { return a.Dst.Offset - b.Dst.Offset })
	return out
}

// OutEdges returns the edges leaving n ordered by output port.
func (h *Hugr) OutEdges(n Node) []Edge {
	var out []Edge
	for _, e := range h.Edges {
		if e.Src.Node == n {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Edge) int { return a.Src.Offset - b.Src.Offset })
	return out
}

func (h *Hugr) isStaticSource(n Node) bool {
	d := h.Get(n)
	return d != nil && (d.Op.IsFunction() || d.Op == OpConst)
}

// StaticSource returns the function feeding a Call or LoadFunction node, or
// the Const feeding a LoadConstant node.
func (h *Hugr) StaticSource(n Node) (Node, bool) {
	for _, e := range h.InEdges(n) {
		if h.isStaticSource(e.Src.Node) {
			return e.Src.Node, true
		}
	}
	return 0, false
}

// ValueInputs returns the dataflow edges entering n ordered by input port,
// excluding static edges.
func (h *Hugr) ValueInputs(n Node) []Edge {
	var out []Edge
	for _, e := range h.InEdges(n) {
		if !h.isStaticSource(e.Src.Node) {
			out = append(out, e)
		}
	}
	return out
}

// IOChildren returns the Input and Output children of a dataflow container.
func (h *Hugr) IOChildren(n Node) (input, output Node, err error) {
	input, output = -1, -1
	for _, c := range h.Children(n) {
		switch h.Nodes[c].Op {
		case OpInput:
			input = c
		case OpOutput:
			output = c
		}
	}
	if input < 0 || output < 0 {
		return 0, 0, fmt.Errorf("%w: node %d lacks Input/Output children", ErrInvalidHugr, n)
	}
	return input, output, nil
}

// RemoveSubtree deletes n, its descendants and every edge touching them.
func (h *Hugr) RemoveSubtree(n Node) {
	if n == h.Root() {
		return
	}
	gone := make(map[Node]bool)
	for _, d := range h.Descendants(n) {
		gone[d] = true
		h.Nodes[d] = nil
	}
	h.Edges = slices.DeleteFunc(h.Edges, func(e Edge) bool {
		return gone[e.Src.Node] || gone[e.Dst.Node]
	})
}

// Compact returns a copy without removed nodes, renumbered densely in the
// original order.
func (h *Hugr) Compact() *Hugr {
	remap := make(map[Node]Node, len(h.Nodes))
	out := &Hugr{Version: h.Version}
	for i, d := range h.Nodes {
		if d == nil {
			continue
		}
		remap[Node(i)] = Node(len(out.Nodes))
		out.Nodes = append(out.Nodes, d.clone())
	}
	for _, d := range out.Nodes {
		d.Parent = remap[d.Parent]
	}
	for _, e := range h.Edges {
		out.Edges = append(out.Edges, Edge{
			Src: Port{Node: remap[e.Src.Node], Offset: e.Src.Offset},
			Dst: Port{Node: remap[e.Dst.Node], Offset: e.Dst.Offset},
		})
	}
	return out
}

// Validate checks the structural invariants the pipeline relies on.
func (h *Hugr) Validate() error {
	if len(h.Nodes) == 0 || h.Nodes[0] == nil {
		return fmt.Errorf("%w: missing root node", ErrInvalidHugr)
	}
	if h.Nodes[0].Op != OpModule {
		return fmt.Errorf("%w: root node is %s, expected %s", ErrInvalidHugr, h.Nodes[0].Op, OpModule)
	}
	for i, d := range h.Nodes {
		if d == nil {
			continue
		}
		if d.Op == "" {
			return fmt.Errorf("%w: node %d has no op", ErrInvalidHugr, i)
		}
		if !h.Contains(d.Parent) {
			return fmt.Errorf("%w: node %d has unknown parent %d", ErrInvalidHugr, i, d.Parent)
		}
		if i != 0 && d.Op == OpModule {
			return fmt.Errorf("%w: nested module at node %d", ErrInvalidHugr, i)
		}
	}
	for _, e := range h.Edges {
		if !h.Contains(e.Src.Node) || !h.Contains(e.Dst.Node) {
			return fmt.Errorf("%w: edge %d:%d -> %d:%d references an unknown node",
				ErrInvalidHugr, e.Src.Node, e.Src.Offset, e.Dst.Node, e.Dst.Offset)
		}
		if e.Src.Offset < 0 || e.Dst.Offset < 0 {
			return fmt.Errorf("%w: negative port on edge %d -> %d", ErrInvalidHugr, e.Src.Node, e.Dst.Node)
		}
	}
	return nil
}

type serialHugr struct {
	Version string      `json:"version"`
	Nodes   []*NodeData `json:"nodes"`
	Edges   []Edge      `json:"edges"`
}

// MarshalJSON serializes the compacted graph.
func (h *Hugr) MarshalJSON() ([]byte, error) {
	c := h.Compact()
	edges := c.Edges
	if edges == nil {
		edges = []Edge{}
	}
	return json.Marshal(serialHugr{Version: c.Version, Nodes: c.Nodes, Edges: edges})
}

// UnmarshalJSON parses and validates a serialized graph.
func (h *Hugr) UnmarshalJSON(data []byte) error {
	var s serialHugr
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.Version == "" {
		s.Version = "live"
	}
	for i, d := range s.Nodes {
		if d == nil {
			return fmt.Errorf("%w: node %d is null", ErrInvalidHugr, i)
		}
	}
	if len(s.Edges) == 0 {
		s.Edges = nil
	}
	*h = Hugr{Version: s.Version, Nodes: s.Nodes, Edges: s.Edges}
	return h.Validate()
}
