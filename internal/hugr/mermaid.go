package hugr

import (
	"fmt"
	"strings"
)

// Mermaid renders the module as a mermaid flowchart. Container nodes become
// subgraphs; dataflow edges are labelled with their source and target ports.
func (h *Hugr) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	h.writeMermaid(&b, h.Root(), 1)
	for _, e := range h.Edges {
		if !h.Contains(e.Src.Node) || !h.Contains(e.Dst.Node) {
			continue
		}
		style := "--"
		if h.isStaticSource(e.Src.Node) {
			style = "-."
		}
		fmt.Fprintf(&b, "    %d%s\"%d:%d\"-->%d\n", e.Src.Node, style, e.Src.Offset, e.Dst.Offset, e.Dst.Node)
	}
	return b.String()
}

func (h *Hugr) writeMermaid(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("    ", depth)
	label := mermaidEscape(h.nodeLabel(n))
	children := h.Children(n)
	if len(children) == 0 {
		fmt.Fprintf(b, "%s%d[\"%s\"]\n", indent, n, label)
		return
	}
	fmt.Fprintf(b, "%ssubgraph %d [\"%s\"]\n", indent, n, label)
	fmt.Fprintf(b, "%s    direction LR\n", indent)
	for _, c := range children {
		h.writeMermaid(b, c, depth+1)
	}
	fmt.Fprintf(b, "%send\n", indent)
}

func (h *Hugr) nodeLabel(n Node) string {
	d := h.Nodes[n]
	label := fmt.Sprintf("(%d) %s", n, d.Op)
	switch d.Op {
	case OpFuncDefn, OpFuncDecl:
		label += ": \"" + d.Name + "\""
	case OpConst:
		if d.Value != nil {
			label += ": " + d.Value.String()
		}
	case OpExtension:
		label += ": " + d.Extension + "." + d.Name
	case OpCall:
		if len(d.TypeArgs) > 0 {
			label += "<" + joinTypes(d.TypeArgs, ", ") + ">"
		}
	}
	return label
}

func mermaidEscape(s string) string {
	r := strings.NewReplacer("\"", "#quot;", "<", "#lt;", ">", "#gt;")
	return r.Replace(s)
}
