package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/kaleidago/errors"
	kt "github.com/pontaoski/kaleidago/types"
)

type typeTag int

const (
	tagOther typeTag = iota
	tagInt
	tagFloat
)

func tagOf(t types.Type) typeTag {
	switch t.(type) {
	case *types.IntType:
		return tagInt
	case *types.FloatType:
		return tagFloat
	}
	return tagOther
}

type truthifier func(g *Generator, v value.Value) value.Value

var truthable = map[typeTag]truthifier{
	tagInt: func(g *Generator, v value.Value) value.Value {
		return v
	},
	tagFloat: func(g *Generator, v value.Value) value.Value {
		return g.b.block.NewFPToUI(v, types.I1)
	},
}

// truthify turns v into something that can be compared against zero.
func (g *Generator) truthify(v value.Value) (value.Value, error) {
	fn, ok := truthable[tagOf(v.Type())]
	if !ok {
		return nil, errors.NonTruthyType{Type: v.Type()}
	}
	return fn(g, v), nil
}

// condition compares the truth value of v against zero.
func (g *Generator) condition(v value.Value) (value.Value, error) {
	truth, err := g.truthify(v)
	if err != nil {
		return nil, err
	}
	zero := constant.NewInt(truth.Type().(*types.IntType), 0)
	return g.b.block.NewICmp(enum.IPredNE, truth, zero), nil
}

type printer struct {
	global string
	format string
	// promote widens the value to what printf expects for format.
	promote func(g *Generator, v value.Value) value.Value
}

var printable = map[typeTag]printer{
	tagInt: {
		global: "IntPrintFormat",
		format: "%lld\n",
		promote: func(g *Generator, v value.Value) value.Value {
			if v.Type().Equal(Int) {
				return v
			}
			return g.b.block.NewZExt(v, Int)
		},
	},
	tagFloat: {
		global: "FloatPrintFormat",
		format: "%f\n",
		promote: func(g *Generator, v value.Value) value.Value {
			if v.Type().Equal(Double) {
				return v
			}
			return g.b.block.NewFPExt(v, Double)
		},
	},
}

// printFormat returns the printf format string for v along with v widened
// to match it. Format strings are created once per module.
func (g *Generator) printFormat(v value.Value) (value.Value, value.Value, error) {
	p, ok := printable[tagOf(v.Type())]
	if !ok {
		return nil, nil, errors.UnprintableType{Type: v.Type()}
	}

	global, ok := g.global(p.global)
	if !ok {
		global = g.module.NewGlobalDef(p.global, constant.NewCharArrayFromString(p.format+"\x00"))
		global.Immutable = true
	}

	return charPointer(global), p.promote(g, v), nil
}

var intPredicates = map[kt.LogicalOperator]enum.IPred{
	kt.Equals:             enum.IPredEQ,
	kt.NotEqual:           enum.IPredNE,
	kt.LessThan:           enum.IPredSLT,
	kt.LessThanOrEqual:    enum.IPredSLE,
	kt.GreaterThan:        enum.IPredSGT,
	kt.GreaterThanOrEqual: enum.IPredSGE,
}

var floatPredicates = map[kt.LogicalOperator]enum.FPred{
	kt.Equals:             enum.FPredOEQ,
	kt.NotEqual:           enum.FPredONE,
	kt.LessThan:           enum.FPredOLT,
	kt.LessThanOrEqual:    enum.FPredOLE,
	kt.GreaterThan:        enum.FPredOGT,
	kt.GreaterThanOrEqual: enum.FPredOGE,
}

func (g *Generator) compare(op kt.LogicalOperator, lhs, rhs value.Value) (value.Value, error) {
	left, right := tagOf(lhs.Type()), tagOf(rhs.Type())

	switch {
	case left == tagFloat && right == tagFloat:
		return g.b.block.NewFCmp(floatPredicates[op], lhs, rhs), nil
	case left == tagInt && right == tagInt:
		return g.b.block.NewICmp(intPredicates[op], lhs, rhs), nil
	}

	return nil, errors.UnableToCompare{Left: lhs.Type(), Right: rhs.Type()}
}
