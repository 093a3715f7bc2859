package ast

import "strings"

type Kind int

const (
	Void Kind = iota
	Int
	Float
	Double
	String
	Custom
)

// StoredType is the static type of a value in source. Custom types carry
// only their name until code generation resolves them against the declared
// structs.
type StoredType struct {
	Kind     Kind
	TypeName string
}

var (
	VoidType   = StoredType{Kind: Void}
	IntType    = StoredType{Kind: Int}
	FloatType  = StoredType{Kind: Float}
	DoubleType = StoredType{Kind: Double}
	StringType = StoredType{Kind: String}
)

func CustomType(name string) StoredType {
	return StoredType{Kind: Custom, TypeName: name}
}

var primitiveNames = map[Kind]string{
	Void:   "Void",
	Int:    "Int",
	Float:  "Float",
	Double: "Double",
	String: "String",
}

func (s StoredType) Name() string {
	if s.Kind == Custom {
		return s.TypeName
	}
	return primitiveNames[s.Kind]
}

func (s StoredType) String() string {
	return s.Name()
}

func (s StoredType) IsPrimitive() bool {
	return s.Kind != Custom
}

// resolvers are tried in order; the last one accepts any plausible name.
var resolvers = []func(string) (StoredType, bool){
	exactly("Double", DoubleType),
	exactly("Int", IntType),
	exactly("Float", FloatType),
	exactly("String", StringType),
	customType,
}

func exactly(name string, t StoredType) func(string) (StoredType, bool) {
	return func(s string) (StoredType, bool) {
		return t, s == name
	}
}

func customType(s string) (StoredType, bool) {
	if s == "" || strings.Contains(s, ".") || (s[0] >= '0' && s[0] <= '9') {
		return StoredType{}, false
	}
	return CustomType(s), true
}

// ResolveType maps a type name from source to its StoredType. Void is never
// produced here; unknown names become Custom placeholders.
func ResolveType(name string) (StoredType, bool) {
	for _, resolve := range resolvers {
		if t, ok := resolve(name); ok {
			return t, true
		}
	}
	return StoredType{}, false
}
