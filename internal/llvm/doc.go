// Package llvm lowers monomorphic HUGR modules to LLVM IR and drives the
// LLVM command line tools that optimize and assemble the result.
//
// Lowering builds an in-memory module with github.com/llir/llvm. Its textual
// form is piped through `opt` (only above O0) and then `llvm-as` to produce
// bitcode.
package llvm
