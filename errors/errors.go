package errors

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"github.com/pontaoski/kaleidago/ast"
	kt "github.com/pontaoski/kaleidago/types"
)

// ParseError is implemented by every error the parser returns.
type ParseError interface {
	error
	is_ParseError()
}

// IRError is implemented by every error code generation returns.
type IRError interface {
	error
	is_IRError()
}

type UnexpectedToken struct {
	Token kt.Token
}

func (e UnexpectedToken) is_ParseError() {}
func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected token %s. %s", e.Token, e.Token.Pos)
}

type UnexpectedEOF struct{}

func (e UnexpectedEOF) is_ParseError() {}
func (e UnexpectedEOF) Error() string {
	return "unexpected end of file"
}

type UndefinedType struct {
	Name     string
	Location kt.Position
}

func (e UndefinedType) is_ParseError() {}
func (e UndefinedType) Error() string {
	return fmt.Sprintf("undefined type '%s'. %s", e.Name, e.Location)
}

type UnableToAssignTo struct {
	Expr     ast.Expr
	Location kt.Position
}

func (e UnableToAssignTo) is_ParseError() {}
func (e UnableToAssignTo) Error() string {
	return fmt.Sprintf("unable to assign to '%s'. %s", ast.ExprString(e.Expr), e.Location)
}

type InvalidComparison struct {
	Left     ast.StoredType
	Right    ast.StoredType
	Location kt.Position
}

func (e InvalidComparison) is_ParseError() {}
func (e InvalidComparison) Error() string {
	return fmt.Sprintf("cannot compare %s with %s. %s", e.Left, e.Right, e.Location)
}

type UnknownFunction struct {
	Name string
}

func (e UnknownFunction) is_IRError() {}
func (e UnknownFunction) Error() string {
	return fmt.Sprintf("unknown function '%s'", e.Name)
}

type UnknownVariable struct {
	Name string
}

func (e UnknownVariable) is_IRError() {}
func (e UnknownVariable) Error() string {
	return fmt.Sprintf("unknown variable '%s'", e.Name)
}

type WrongNumberOfArgs struct {
	Name     string
	Expected int
	Got      int
}

func (e WrongNumberOfArgs) is_IRError() {}
func (e WrongNumberOfArgs) Error() string {
	return fmt.Sprintf("call to function '%s' with %d arguments (expected %d)", e.Name, e.Got, e.Expected)
}

type NonTruthyType struct {
	Type types.Type
}

func (e NonTruthyType) is_IRError() {}
func (e NonTruthyType) Error() string {
	return fmt.Sprintf("logical operation found non-truthy type: %s", e.Type)
}

type UnprintableType struct {
	Type types.Type
}

func (e UnprintableType) is_IRError() {}
func (e UnprintableType) Error() string {
	return fmt.Sprintf("unable to print result of type %s", e.Type)
}

type UnableToCompare struct {
	Left  types.Type
	Right types.Type
}

func (e UnableToCompare) is_IRError() {}
func (e UnableToCompare) Error() string {
	return fmt.Sprintf("unable to compare %s with %s", e.Left, e.Right)
}

type ExpectedParameterDefinition struct {
	Name string
}

func (e ExpectedParameterDefinition) is_IRError() {}
func (e ExpectedParameterDefinition) Error() string {
	return fmt.Sprintf("expected parameter definition in declaration of function %s", e.Name)
}

type UnknownMember struct {
	Name string
}

func (e UnknownMember) is_IRError() {}
func (e UnknownMember) Error() string {
	return fmt.Sprintf("no member '%s' in type", e.Name)
}

type UnknownType struct {
	Name string
}

func (e UnknownType) is_IRError() {}
func (e UnknownType) Error() string {
	return fmt.Sprintf("no type defined called %s", e.Name)
}

// ConflictingDeclaration is returned when a function would replace one the
// compiler emits itself.
type ConflictingDeclaration struct {
	Name string
}

func (e ConflictingDeclaration) is_IRError() {}
func (e ConflictingDeclaration) Error() string {
	return fmt.Sprintf("function %s conflicts with a builtin declaration", e.Name)
}

type InvalidExitCode struct {
	Type types.Type
}

func (e InvalidExitCode) is_IRError() {}
func (e InvalidExitCode) Error() string {
	return fmt.Sprintf("cannot exit with a value of type %s", e.Type)
}
