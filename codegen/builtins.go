package codegen

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/kaleidago/ast"
)

func getStructElm(b *ir.Block, t *types.StructType, v value.Value, idx int) value.Value {
	return b.NewGetElementPtr(t, v, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
}

func charPointer(g *ir.Global) constant.Constant {
	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}

func (g *Generator) global(name string) (*ir.Global, bool) {
	for _, global := range g.module.Globals {
		if global.Name() == name {
			return global, true
		}
	}
	return nil, false
}

// printf declares the C printf the entry point prints results with.
// User prototypes named printf resolve to this declaration.
func (g *Generator) printf() *ir.Func {
	if fn, ok := g.funcs["printf"]; ok {
		return fn
	}

	fn := g.module.NewFunc("printf", types.I32, ir.NewParam("format", String))
	fn.Sig.Variadic = true
	g.funcs["printf"] = fn

	return fn
}

// stringConstant returns a pointer to a NUL-terminated global holding s.
// Identical strings share one global; globals are numbered in order of
// first use.
func (g *Generator) stringConstant(s string) value.Value {
	global, ok := g.stringConstants[s]
	if !ok {
		global = g.module.NewGlobalDef("_str_"+strconv.Itoa(len(g.stringConstants)), constant.NewCharArrayFromString(s+"\x00"))
		global.Immutable = true
		g.stringConstants[s] = global
	}

	return charPointer(global)
}

// printfCompatible reports whether a user prototype can call the builtin
// printf declaration: a single String format argument.
func printfCompatible(proto ast.Prototype) bool {
	return len(proto.Params) == 1 && proto.Params[0].Type.Kind == ast.String
}
