package reader

import (
	"github.com/coreos/pkg/dlopen"

	"github.com/pontaoski/kaleidago/codegen"
)

import "C"

// ReadTypeInfo loads the shared object at path and decodes the type info
// it was built with.
func ReadTypeInfo(path string) (codegen.TypeInfo, error) {
	handle, err := dlopen.GetHandle([]string{path})
	if err != nil {
		return codegen.TypeInfo{}, err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(codegen.TypeInfoSymbol)
	if err != nil {
		return codegen.TypeInfo{}, err
	}

	return codegen.ParseTypeInfo(C.GoString((*C.char)(sym)))
}
