package ast

import (
	"fmt"
	"strings"
)

func (v VariableDefinition) String() string {
	return fmt.Sprintf("%s: %s", v.Name, v.Type)
}

func (p Prototype) String() string {
	var args []string
	for _, param := range p.Params {
		args = append(args, param.String())
	}
	if p.ReturnType.Kind == Void {
		return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s) %s", p.Name, strings.Join(args, ", "), p.ReturnType)
}

func (t TypeDefinition) String() string {
	var fields []string
	for _, prop := range t.Properties {
		fields = append(fields, prop.String())
	}
	return fmt.Sprintf("struct %s { %s }", t.Name, strings.Join(fields, ", "))
}

func block(exprs []Expr) string {
	var parts []string
	for _, e := range exprs {
		parts = append(parts, ExprString(e))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// ExprString renders e back into source-like text. Binary and logical nodes
// are parenthesized so grouping is visible.
func ExprString(e Expr) string {
	switch expr := e.(type) {
	case Literal:
		return expr.Value.String()
	case Variable:
		return expr.Name
	case Define:
		return "var " + expr.Definition.String()
	case FieldDereference:
		return ExprString(expr.Base) + "." + ExprString(expr.Field)
	case Assignment:
		return fmt.Sprintf("%s = %s", expr.Name, ExprString(expr.Value))
	case Binary:
		return fmt.Sprintf("(%s %s %s)", ExprString(expr.LHS), expr.Op, ExprString(expr.RHS))
	case Logical:
		return fmt.Sprintf("(%s %s %s)", ExprString(expr.LHS), expr.Op, ExprString(expr.RHS))
	case IfElse:
		if len(expr.Else) == 0 {
			return fmt.Sprintf("if %s %s", ExprString(expr.Cond), block(expr.Then))
		}
		return fmt.Sprintf("if %s %s else %s", ExprString(expr.Cond), block(expr.Then), block(expr.Else))
	case For:
		return fmt.Sprintf("for (%s; %s) %s", ExprString(expr.Init), ExprString(expr.Cond), block(expr.Body))
	case While:
		return fmt.Sprintf("while %s %s", ExprString(expr.Cond), block(expr.Body))
	case Call:
		var args []string
		for _, arg := range expr.Args {
			args = append(args, ExprString(arg))
		}
		return fmt.Sprintf("%s(%s)", expr.Name, strings.Join(args, ", "))
	case Return:
		return "return " + ExprString(expr.Value)
	case nil:
		return ""
	}

	panic("unhandled")
}
