package hugr

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKind discriminates Type values.
type TypeKind string

const (
	KindInt   TypeKind = "I"
	KindFloat TypeKind = "F"
	KindBool  TypeKind = "B"
	KindVar   TypeKind = "V"
)

// Type is a value type carried on a dataflow port.
type Type struct {
	Kind  TypeKind `json:"t"`
	Width int      `json:"width,omitempty"` // integer width in bits, 0 means 64
	Index int      `json:"i,omitempty"`     // type variable index
}

func Int(width int) Type { return Type{Kind: KindInt, Width: width} }
func Float() Type        { return Type{Kind: KindFloat} }
func Bool() Type         { return Type{Kind: KindBool} }
func Var(i int) Type     { return Type{Kind: KindVar, Index: i} }

// BitWidth returns the width of an integer type.
func (t Type) BitWidth() int {
	if t.Width == 0 {
		return 64
	}
	return t.Width
}

// IsConcrete reports whether t mentions no type variable.
func (t Type) IsConcrete() bool {
	return t.Kind != KindVar
}

// Subst replaces a type variable by the matching argument.
func (t Type) Subst(args []Type) Type {
	if t.Kind == KindVar && t.Index < len(args) {
		return args[t.Index]
	}
	return t
}

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int" + strconv.Itoa(t.BitWidth())
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	case KindVar:
		return "$" + strconv.Itoa(t.Index)
	default:
		return string(t.Kind)
	}
}

func substAll(ts []Type, args []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = t.Subst(args)
	}
	return out
}

func allConcrete(ts []Type) bool {
	for _, t := range ts {
		if !t.IsConcrete() {
			return false
		}
	}
	return true
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// FuncType is a monomorphic function signature.
type FuncType struct {
	Input  []Type `json:"input"`
	Output []Type `json:"output"`
}

func (f FuncType) String() string {
	return "[" + joinTypes(f.Input, ", ") + "] -> [" + joinTypes(f.Output, ", ") + "]"
}

// PolyFuncType is a function signature quantified over Params type variables.
type PolyFuncType struct {
	Params []string `json:"params,omitempty"`
	Body   FuncType `json:"body"`
}

// IsPolymorphic reports whether the signature has type parameters.
func (p *PolyFuncType) IsPolymorphic() bool {
	return p != nil && len(p.Params) > 0
}

func (p *PolyFuncType) clone() *PolyFuncType {
	if p == nil {
		return nil
	}
	c := &PolyFuncType{Body: FuncType{
		Input:  append([]Type(nil), p.Body.Input...),
		Output: append([]Type(nil), p.Body.Output...),
	}}
	if p.Params != nil {
		c.Params = append([]string(nil), p.Params...)
	}
	return c
}

// instantiate substitutes args for the parameters and drops them.
func (p *PolyFuncType) instantiate(args []Type) *PolyFuncType {
	if p == nil {
		return nil
	}
	return &PolyFuncType{Body: FuncType{
		Input:  substAll(p.Body.Input, args),
		Output: substAll(p.Body.Output, args),
	}}
}

// ValueKind discriminates constant values.
type ValueKind string

const (
	ValueInt   ValueKind = "int"
	ValueFloat ValueKind = "float"
	ValueBool  ValueKind = "bool"
)

// Value is the payload of a Const node.
type Value struct {
	Kind  ValueKind `json:"v"`
	Width int       `json:"width,omitempty"`
	Int   int64     `json:"int,omitempty"`
	Float float64   `json:"float,omitempty"`
	Bool  bool      `json:"bool,omitempty"`
}

func IntValue(width int, v int64) *Value { return &Value{Kind: ValueInt, Width: width, Int: v} }
func FloatValue(v float64) *Value        { return &Value{Kind: ValueFloat, Float: v} }
func BoolValue(v bool) *Value            { return &Value{Kind: ValueBool, Bool: v} }

// Type returns the type of the constant.
func (v *Value) Type() (Type, error) {
	switch v.Kind {
	case ValueInt:
		return Int(v.Width), nil
	case ValueFloat:
		return Float(), nil
	case ValueBool:
		return Bool(), nil
	default:
		return Type{}, fmt.Errorf("%w: unknown constant kind %q", ErrInvalidHugr, v.Kind)
	}
}

func (v *Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return string(v.Kind)
	}
}
