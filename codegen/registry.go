package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/pontaoski/kaleidago/ast"
	"github.com/pontaoski/kaleidago/errors"
)

var (
	Int    = types.I64
	Float  = types.Float
	Double = types.Double
	String = types.NewPointer(types.I8)
	Void   = types.Void
)

var primitives = map[ast.Kind]types.Type{
	ast.Int:    Int,
	ast.Float:  Float,
	ast.Double: Double,
	ast.String: String,
	ast.Void:   Void,
}

type structType struct {
	def ast.TypeDefinition
	llvm *types.StructType
}

// registry holds every struct declared in the file. Structs are declared by
// name first and get their fields afterwards, so fields may refer to any
// struct regardless of declaration order.
type registry struct {
	byName map[string]*structType
}

func newRegistry() *registry {
	return &registry{byName: map[string]*structType{}}
}

func (r *registry) declare(m *ir.Module, def ast.TypeDefinition) {
	if _, ok := r.byName[def.Name]; ok {
		return
	}

	st := &types.StructType{Opaque: true}
	m.NewTypeDef(def.Name, st)
	r.byName[def.Name] = &structType{def: def, llvm: st}
}

func (r *registry) populate(def ast.TypeDefinition) error {
	st, ok := r.byName[def.Name]
	if !ok {
		return errors.UnknownType{Name: def.Name}
	}

	var fields []types.Type
	for _, prop := range st.def.Properties {
		t, err := r.resolve(prop.Type)
		if err != nil {
			return err
		}
		fields = append(fields, t)
	}

	st.llvm.Fields = fields
	st.llvm.Opaque = false
	return nil
}

// resolve gives the backend type of a StoredType. Structs are passed around
// by pointer.
func (r *registry) resolve(t ast.StoredType) (types.Type, error) {
	if prim, ok := primitives[t.Kind]; ok {
		return prim, nil
	}

	st, ok := r.byName[t.TypeName]
	if !ok {
		return nil, errors.UnknownType{Name: t.TypeName}
	}
	return types.NewPointer(st.llvm), nil
}

// byIR finds the struct a pointer-to-struct value points at.
func (r *registry) byIR(t types.Type) (*structType, bool) {
	ptr, ok := t.(*types.PointerType)
	if !ok {
		return nil, false
	}
	st, ok := ptr.ElemType.(*types.StructType)
	if !ok {
		return nil, false
	}

	found, ok := r.byName[st.Name()]
	if !ok || found.llvm != st {
		return nil, false
	}
	return found, true
}
