package hugr

import (
	"fmt"
	"strconv"
	"strings"
)

// SExpr renders the module as a symbolic S-expression. Every node is a list
// headed by its op keyword and index; incoming edges follow as
// (link <src> <src-port> <dst-port>) entries, then the node's children.
func (h *Hugr) SExpr() string {
	var b strings.Builder
	b.WriteString("(hugr " + strconv.Quote(h.Version) + "\n")
	h.writeSExpr(&b, h.Root(), 1)
	b.WriteString(")\n")
	return b.String()
}

func (h *Hugr) writeSExpr(b *strings.Builder, n Node, depth int) {
	d := h.Nodes[n]
	indent := strings.Repeat("  ", depth)

	b.WriteString(indent)
	b.WriteString("(" + sexprKeyword(d.Op) + " " + strconv.Itoa(int(n)))
	for _, attr := range sexprAttrs(d) {
		b.WriteString(" " + attr)
	}
	for _, e := range h.InEdges(n) {
		fmt.Fprintf(b, " (link %d %d %d)", e.Src.Node, e.Src.Offset, e.Dst.Offset)
	}

	children := h.Children(n)
	if len(children) == 0 {
		b.WriteString(")\n")
		return
	}
	b.WriteString("\n")
	for _, c := range children {
		h.writeSExpr(b, c, depth+1)
	}
	b.WriteString(indent + ")\n")
}

func sexprKeyword(op OpType) string {
	switch op {
	case OpModule:
		return "module"
	case OpFuncDefn:
		return "define-func"
	case OpFuncDecl:
		return "declare-func"
	case OpLoadConstant:
		return "load-const"
	case OpLoadFunction:
		return "load-func"
	case OpExtension:
		return "ext"
	default:
		return strings.ToLower(string(op))
	}
}

func sexprAttrs(d *NodeData) []string {
	var attrs []string
	switch d.Op {
	case OpFuncDefn, OpFuncDecl:
		attrs = append(attrs, strconv.Quote(d.Name))
		if d.Signature != nil {
			attrs = append(attrs, sexprSignature(d.Signature))
		}
	case OpInput, OpOutput:
		attrs = append(attrs, sexprTypeList(d.Types))
	case OpConst:
		if d.Value != nil {
			attrs = append(attrs, sexprValue(d.Value))
		}
	case OpCall, OpLoadFunction:
		if len(d.TypeArgs) > 0 {
			attrs = append(attrs, "(type-args "+strings.TrimSuffix(strings.TrimPrefix(sexprTypeList(d.TypeArgs), "["), "]")+")")
		}
	case OpExtension:
		attrs = append(attrs, strconv.Quote(d.Extension), strconv.Quote(d.Name))
		if d.Signature != nil {
			attrs = append(attrs, sexprFuncType(d.Signature.Body))
		}
	}
	return attrs
}

func sexprType(t Type) string {
	switch t.Kind {
	case KindInt:
		return "(int " + strconv.Itoa(t.BitWidth()) + ")"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindVar:
		return "(var " + strconv.Itoa(t.Index) + ")"
	default:
		return strconv.Quote(string(t.Kind))
	}
}

func sexprTypeList(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = sexprType(t)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func sexprFuncType(f FuncType) string {
	return "(-> " + sexprTypeList(f.Input) + " " + sexprTypeList(f.Output) + ")"
}

func sexprSignature(p *PolyFuncType) string {
	if !p.IsPolymorphic() {
		return sexprFuncType(p.Body)
	}
	params := make([]string, len(p.Params))
	for i, name := range p.Params {
		params[i] = strconv.Quote(name)
	}
	return "(forall (" + strings.Join(params, " ") + ") " + sexprFuncType(p.Body) + ")"
}

func sexprValue(v *Value) string {
	switch v.Kind {
	case ValueInt:
		return "(int " + strconv.Itoa(Int(v.Width).BitWidth()) + " " + v.String() + ")"
	default:
		return "(" + string(v.Kind) + " " + v.String() + ")"
	}
}
