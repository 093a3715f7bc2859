package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/kaleidago/ast"
	"github.com/pontaoski/kaleidago/errors"
)

// builder tracks where new instructions go.
type builder struct {
	block *ir.Block
}

func (b *builder) positionAtEnd(block *ir.Block) {
	b.block = block
}

func (b *builder) function() *ir.Func {
	return b.block.Parent
}

// Generator lowers one parsed File into an LLVM module. A Generator is
// single use and must not be shared between compilations.
type Generator struct {
	module *ir.Module
	file   *ast.File

	b       *builder
	memory  *StackMemory
	structs *registry
	funcs   map[string]*ir.Func
	entry   *ir.Func

	stringConstants map[string]*ir.Global
	blockID         int
	typeInfo        bool
}

type Option func(*Generator)

// WithModuleName sets the source filename recorded in the module.
func WithModuleName(name string) Option {
	return func(g *Generator) {
		g.module.SourceFilename = name
	}
}

// WithTypeInfo embeds a JSON description of the module's functions and
// structs as a global.
func WithTypeInfo() Option {
	return func(g *Generator) {
		g.typeInfo = true
	}
}

func New(file *ast.File, opts ...Option) *Generator {
	b := &builder{}
	g := &Generator{
		module:          ir.NewModule(),
		file:            file,
		b:               b,
		memory:          newStackMemory(b),
		structs:         newRegistry(),
		funcs:           map[string]*ir.Func{},
		stringConstants: map[string]*ir.Global{},
	}
	g.module.SourceFilename = "main"

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Emit generates the whole module. Structs are declared before any
// signature so that signatures can refer to them, and printf before the
// externs so that a user declaration of it shares the variadic one.
func (g *Generator) Emit() (*ir.Module, error) {
	g.printf()

	for _, t := range g.file.CustomTypes {
		g.structs.declare(g.module, t)
	}
	for _, t := range g.file.CustomTypes {
		if err := g.structs.populate(t); err != nil {
			return nil, err
		}
	}
	for _, extern := range g.file.Externs {
		if _, err := g.emitPrototype(extern); err != nil {
			return nil, err
		}
	}
	for _, def := range g.file.Definitions {
		if err := g.emitDefinition(def); err != nil {
			return nil, err
		}
	}
	if err := g.emitMain(); err != nil {
		return nil, err
	}
	if g.typeInfo {
		if err := g.registerTypeInfo(); err != nil {
			return nil, err
		}
	}

	return g.module, nil
}

func (g *Generator) newBlock(name string) *ir.Block {
	g.blockID++
	return g.b.function().NewBlock(fmt.Sprintf("%s.%d", name, g.blockID))
}

// emitPrototype declares proto, or returns the function already declared
// under its name.
func (g *Generator) emitPrototype(proto ast.Prototype) (*ir.Func, error) {
	if proto.Name == "main" {
		return nil, errors.ConflictingDeclaration{Name: proto.Name}
	}
	if fn, ok := g.funcs[proto.Name]; ok {
		if proto.Name == "printf" && !printfCompatible(proto) {
			return nil, errors.ConflictingDeclaration{Name: proto.Name}
		}
		return fn, nil
	}

	var params []*ir.Param
	for _, param := range proto.Params {
		t, err := g.structs.resolve(param.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, ir.NewParam(param.Name, t))
	}

	ret, err := g.structs.resolve(proto.ReturnType)
	if err != nil {
		return nil, err
	}

	fn := g.module.NewFunc(proto.Name, ret, params...)
	g.funcs[proto.Name] = fn
	return fn, nil
}

// terminate closes the block under the cursor if lowering left it open.
func (g *Generator) terminate() {
	if g.b.block.Term != nil {
		return
	}
	if types.IsVoid(g.b.function().Sig.RetType) {
		g.b.block.NewRet(nil)
		return
	}
	g.b.block.NewUnreachable()
}

func (g *Generator) emitDefinition(def ast.Definition) error {
	fn, err := g.emitPrototype(def.Prototype)
	if err != nil {
		return err
	}
	if fn.Sig.Variadic {
		return errors.ConflictingDeclaration{Name: def.Prototype.Name}
	}
	if len(fn.Params) != len(def.Prototype.Params) {
		return errors.ExpectedParameterDefinition{Name: def.Prototype.Name}
	}

	// A later definition replaces an earlier body.
	fn.Blocks = nil
	g.b.positionAtEnd(fn.NewBlock("entry"))

	return g.memory.WithFrame(func() error {
		for i, param := range def.Prototype.Params {
			g.memory.AddStatic(param.Name, fn.Params[i])
		}
		if err := g.emitBody(def.Body); err != nil {
			return err
		}
		g.terminate()
		return nil
	})
}

// emitMain synthesizes the entry point: every top-level expression is
// lowered in order and each one that yields a value gets printed.
func (g *Generator) emitMain() error {
	printf := g.printf()

	g.entry = g.module.NewFunc("main", types.I32)
	g.b.positionAtEnd(g.entry.NewBlock("entry"))

	return g.memory.WithFrame(func() error {
		for _, expr := range g.file.Expressions {
			g.ensureOpen()
			val, err := g.emitExpr(expr)
			if err != nil {
				return err
			}
			if isStatement(expr) {
				continue
			}

			format, arg, err := g.printFormat(val)
			if err != nil {
				return err
			}
			g.b.block.NewCall(printf, format, arg)
		}

		if g.b.block.Term == nil {
			g.b.block.NewRet(exitSuccess)
		}
		return nil
	})
}

var exitSuccess = constant.NewInt(types.I32, 0)

// exitCode converts v to the i32 main returns. Void results exit with 0.
func (g *Generator) exitCode(v value.Value) (value.Value, error) {
	if types.IsVoid(v.Type()) {
		return exitSuccess, nil
	}

	t, ok := v.Type().(*types.IntType)
	if !ok {
		return nil, errors.InvalidExitCode{Type: v.Type()}
	}
	switch {
	case t.BitSize > 32:
		return g.b.block.NewTrunc(v, types.I32), nil
	case t.BitSize < 32:
		return g.b.block.NewZExt(v, types.I32), nil
	}
	return v, nil
}
