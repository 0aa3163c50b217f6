// Package hugr models the mid-level program graph produced by the Guppy
// frontend: a package of hierarchical dataflow graphs (HUGRs).
//
// Only the subset of the format needed by the compilation pipeline is
// modelled. Nodes form a tree rooted at a Module node; FuncDefn and FuncDecl
// children of the root are the program's functions. Dataflow edges connect
// output ports to input ports; static edges connect a function to the Call
// nodes that invoke it and a Const node to the LoadConstant nodes that read it.
//
// The package provides JSON parsing and serialization, S-expression and
// mermaid renderings, and the two whole-program passes run before lowering:
// Monomorphize and RemoveDeadFuncs.
package hugr
