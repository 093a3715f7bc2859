package ast

//go:generate sh -c "cd ../tool && go run . ../ast/expr.adt ../ast/expr_gen.go ast types=github.com/pontaoski/kaleidago/types"

type VariableDefinition struct {
	Name string
	Type StoredType
}

type Prototype struct {
	Name       string
	Params     []VariableDefinition
	ReturnType StoredType
}

type Definition struct {
	Prototype Prototype
	Body      []Expr
}

// TypeDefinition is a record type. Properties are kept in declaration order,
// which is also their layout order.
type TypeDefinition struct {
	Name       string
	Properties []VariableDefinition
}

// Index returns the layout index of the named property.
func (t TypeDefinition) Index(name string) (int, bool) {
	for i, prop := range t.Properties {
		if prop.Name == name {
			return i, true
		}
	}
	return -1, false
}

// File is everything parsed from one compilation unit.
type File struct {
	Externs     []Prototype
	Definitions []Definition
	Expressions []Expr
	CustomTypes []TypeDefinition

	prototypes map[string]Prototype
}

func NewFile() *File {
	return &File{prototypes: map[string]Prototype{}}
}

// Prototype looks up a function signature by name across externs and
// definitions. Later declarations replace earlier ones.
func (f *File) Prototype(name string) (Prototype, bool) {
	p, ok := f.prototypes[name]
	return p, ok
}

func (f *File) AddExpression(e Expr) {
	f.Expressions = append(f.Expressions, e)
}

func (f *File) AddExtern(p Prototype) {
	f.Externs = append(f.Externs, p)
	f.prototypes[p.Name] = p
}

func (f *File) AddDefinition(d Definition) {
	f.Definitions = append(f.Definitions, d)
	f.prototypes[d.Prototype.Name] = d.Prototype
}

func (f *File) AddType(t TypeDefinition) {
	f.CustomTypes = append(f.CustomTypes, t)
}
