package codegen

import (
	"encoding/json"
	"strings"

	"github.com/llir/llvm/ir/constant"

	"github.com/pontaoski/kaleidago/ast"
)

// TypeInfoSymbol is the global a compiled module stores its TypeInfo in.
const TypeInfoSymbol = "__kaleidago_types"

// TypeInfo describes the functions and structs a module exports, so that
// tools can inspect a compiled library without its source.
type TypeInfo struct {
	Functions map[string]string   `json:"functions"`
	Structs   map[string][]string `json:"structs"`
}

func typeInfoOf(f *ast.File) TypeInfo {
	t := TypeInfo{
		Functions: map[string]string{},
		Structs:   map[string][]string{},
	}

	for _, extern := range f.Externs {
		t.Functions[extern.Name] = signature(extern)
	}
	for _, def := range f.Definitions {
		t.Functions[def.Prototype.Name] = signature(def.Prototype)
	}
	for _, st := range f.CustomTypes {
		if _, ok := t.Structs[st.Name]; ok {
			continue
		}
		fields := []string{}
		for _, prop := range st.Properties {
			fields = append(fields, prop.String())
		}
		t.Structs[st.Name] = fields
	}

	return t
}

func signature(p ast.Prototype) string {
	return strings.TrimPrefix(p.String(), p.Name)
}

func (g *Generator) registerTypeInfo() error {
	data, err := json.Marshal(typeInfoOf(g.file))
	if err != nil {
		return err
	}

	global := g.module.NewGlobalDef(TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	global.Immutable = true
	return nil
}

// ParseTypeInfo decodes the contents of a TypeInfoSymbol global.
func ParseTypeInfo(data string) (t TypeInfo, err error) {
	err = json.Unmarshal([]byte(strings.TrimSuffix(data, "\x00")), &t)
	return
}
