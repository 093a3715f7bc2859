package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/kaleidago/ast"
	"github.com/pontaoski/kaleidago/errors"
	kt "github.com/pontaoski/kaleidago/types"
)

// none is what statements evaluate to.
var none value.Value = constant.NewUndef(types.Void)

type arith func(b *ir.Block, x, y value.Value) value.Value

var intArith = map[kt.BinaryOperator]arith{
	kt.Plus:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) },
	kt.Minus:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) },
	kt.Times:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) },
	kt.Divide: func(b *ir.Block, x, y value.Value) value.Value { return b.NewSDiv(x, y) },
	kt.Mod:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewSRem(x, y) },
}

var floatArith = map[kt.BinaryOperator]arith{
	kt.Plus:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewFAdd(x, y) },
	kt.Minus:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewFSub(x, y) },
	kt.Times:  func(b *ir.Block, x, y value.Value) value.Value { return b.NewFMul(x, y) },
	kt.Divide: func(b *ir.Block, x, y value.Value) value.Value { return b.NewFDiv(x, y) },
	kt.Mod:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFRem(x, y) },
}

// isStatement reports whether e is lowered only for its effect.
func isStatement(e ast.Expr) bool {
	switch e.(type) {
	case ast.Define, ast.Assignment, ast.IfElse, ast.For, ast.While, ast.Return:
		return true
	}
	return false
}

// ensureOpen moves the cursor to a fresh block when the current one has
// already been terminated, e.g. by a return in the middle of a body.
func (g *Generator) ensureOpen() {
	if g.b.block.Term != nil {
		g.b.positionAtEnd(g.newBlock("dead"))
	}
}

func (g *Generator) emitBody(body []ast.Expr) error {
	for _, expr := range body {
		g.ensureOpen()
		if _, err := g.emitExpr(expr); err != nil {
			return err
		}
	}
	return nil
}

// branchTo jumps to target unless the current block already ended.
func (g *Generator) branchTo(target *ir.Block) {
	if g.b.block.Term == nil {
		g.b.block.NewBr(target)
	}
}

func (g *Generator) emitLiteral(lit kt.Literal) value.Value {
	switch v := lit.(type) {
	case kt.IntLiteral:
		return constant.NewInt(Int, int64(v))
	case kt.FloatLiteral:
		return constant.NewFloat(Float, float64(v))
	case kt.DoubleLiteral:
		return constant.NewFloat(Double, float64(v))
	case kt.StringLiteral:
		return g.stringConstant(string(v))
	}
	panic("unhandled literal")
}

func (g *Generator) emitExpr(e ast.Expr) (value.Value, error) {
	switch expr := e.(type) {
	case ast.Literal:
		return g.emitLiteral(expr.Value), nil

	case ast.Variable:
		v, ok := g.memory.GetVariable(expr.Name)
		if !ok {
			return nil, errors.UnknownVariable{Name: expr.Name}
		}
		return v, nil

	case ast.Define:
		t, err := g.structs.resolve(expr.Definition.Type)
		if err != nil {
			return nil, err
		}
		g.memory.AddVariable(expr.Definition.Name, t)
		return none, nil

	case ast.FieldDereference:
		return g.emitFieldDereference(expr)

	case ast.Assignment:
		v, err := g.emitExpr(expr.Value)
		if err != nil {
			return nil, err
		}
		if err := g.memory.SetVariable(expr.Name, v); err != nil {
			return nil, err
		}
		return none, nil

	case ast.Binary:
		lhs, err := g.emitExpr(expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := g.emitExpr(expr.RHS)
		if err != nil {
			return nil, err
		}

		// Operands are not promoted; the left side picks the family.
		ops := intArith
		if tagOf(lhs.Type()) == tagFloat {
			ops = floatArith
		}
		return ops[expr.Op](g.b.block, lhs, rhs), nil

	case ast.Logical:
		return g.emitLogical(expr)

	case ast.IfElse:
		return none, g.emitIf(expr)

	case ast.While:
		return none, g.memory.WithFrame(func() error {
			return g.emitLoop(nil, expr.Cond, expr.Body)
		})

	case ast.For:
		return none, g.memory.WithFrame(func() error {
			return g.emitLoop(expr.Init, expr.Cond, expr.Body)
		})

	case ast.Call:
		return g.emitCall(expr)

	case ast.Return:
		return none, g.emitReturn(expr)
	}

	panic("unhandled expression")
}

func (g *Generator) emitReturn(expr ast.Return) error {
	v := none
	if expr.Value != nil {
		var err error
		if v, err = g.emitExpr(expr.Value); err != nil {
			return err
		}
	}

	// The entry point always exits with an i32.
	if g.b.function() == g.entry {
		code, err := g.exitCode(v)
		if err != nil {
			return err
		}
		g.b.block.NewRet(code)
		return nil
	}

	if types.IsVoid(v.Type()) {
		g.b.block.NewRet(nil)
	} else {
		g.b.block.NewRet(v)
	}
	return nil
}

func (g *Generator) emitFieldDereference(expr ast.FieldDereference) (value.Value, error) {
	base, err := g.emitExpr(expr.Base)
	if err != nil {
		return nil, err
	}

	field, ok := expr.Field.(ast.Variable)
	if !ok {
		return nil, errors.UnknownMember{Name: ast.ExprString(expr.Field)}
	}

	st, ok := g.structs.byIR(base.Type())
	if !ok {
		return nil, errors.UnknownMember{Name: field.Name}
	}
	idx, ok := st.def.Index(field.Name)
	if !ok {
		return nil, errors.UnknownMember{Name: field.Name}
	}

	ptr := getStructElm(g.b.block, st.llvm, base, idx)
	return g.b.block.NewLoad(st.llvm.Fields[idx], ptr), nil
}

func (g *Generator) emitLogical(expr ast.Logical) (value.Value, error) {
	lhs, err := g.emitExpr(expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := g.emitExpr(expr.RHS)
	if err != nil {
		return nil, err
	}

	if expr.Op.IsComparison() {
		return g.compare(expr.Op, lhs, rhs)
	}

	left, err := g.condition(lhs)
	if err != nil {
		return nil, err
	}
	right, err := g.condition(rhs)
	if err != nil {
		return nil, err
	}

	if expr.Op == kt.And {
		return g.b.block.NewAnd(left, right), nil
	}
	return g.b.block.NewOr(left, right), nil
}

func (g *Generator) emitCall(expr ast.Call) (value.Value, error) {
	proto, ok := g.file.Prototype(expr.Name)
	if !ok {
		return nil, errors.UnknownFunction{Name: expr.Name}
	}
	if len(expr.Args) != len(proto.Params) {
		return nil, errors.WrongNumberOfArgs{Name: expr.Name, Expected: len(proto.Params), Got: len(expr.Args)}
	}

	// Functions defined further down the file are declared on first use.
	fn, err := g.emitPrototype(proto)
	if err != nil {
		return nil, err
	}

	var args []value.Value
	for _, arg := range expr.Args {
		v, err := g.emitExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return g.b.block.NewCall(fn, args...), nil
}

func (g *Generator) emitIf(expr ast.IfElse) error {
	v, err := g.emitExpr(expr.Cond)
	if err != nil {
		return err
	}
	cond, err := g.condition(v)
	if err != nil {
		return err
	}

	then := g.newBlock("then")
	els := g.newBlock("else")
	merge := g.newBlock("merge")
	g.b.block.NewCondBr(cond, then, els)

	g.b.positionAtEnd(then)
	if err := g.emitBody(expr.Then); err != nil {
		return err
	}
	g.branchTo(merge)

	g.b.positionAtEnd(els)
	if err := g.emitBody(expr.Else); err != nil {
		return err
	}
	g.branchTo(merge)

	g.b.positionAtEnd(merge)
	return nil
}

// emitLoop lowers while and for loops. The condition is lowered once in the
// setup block and again at the end of the body.
func (g *Generator) emitLoop(init, cond ast.Expr, body []ast.Expr) error {
	setup := g.newBlock("setup")
	g.b.block.NewBr(setup)
	g.b.positionAtEnd(setup)

	if init != nil {
		if _, err := g.emitExpr(init); err != nil {
			return err
		}
	}

	loop := g.newBlock("body")
	cleanup := g.newBlock("cleanup")

	check := func() error {
		v, err := g.emitExpr(cond)
		if err != nil {
			return err
		}
		c, err := g.condition(v)
		if err != nil {
			return err
		}
		g.b.block.NewCondBr(c, loop, cleanup)
		return nil
	}

	if err := check(); err != nil {
		return err
	}

	g.b.positionAtEnd(loop)
	if err := g.emitBody(body); err != nil {
		return err
	}
	if g.b.block.Term == nil {
		if err := check(); err != nil {
			return err
		}
	}

	g.b.positionAtEnd(cleanup)
	return nil
}
