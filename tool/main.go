package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

type Field struct {
	Name      string   `@Ident`
	Slice     bool     `@("[" "]")?`
	Pointer   bool     `@"*"?`
	Type      string   `@Ident`
	Qualified string   `("." @Ident)?`
	I         struct{} `";"`
}

type TCase struct {
	Name   string   `@Ident "of"`
	Kind   string   `(  (@Ident | @String | @RawString)`
	Fields []*Field ` | "{" @@* "}")`
}

type Declaration struct {
	Name  string   `"type" @Ident "="`
	Plain *string  `(  (@Ident | @String | @RawString)`
	Many  *[]TCase ` | ("|" (@@))*)`
	I     struct{} `";"`
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

// imports maps the package names used in qualified field types to their
// import paths.
type imports map[string]string

func (i imports) fieldType(f *Field) *Statement {
	st := Id(f.Name)
	if f.Slice {
		st = st.Index()
	}
	if f.Pointer {
		st = st.Op("*")
	}
	if f.Qualified != "" {
		return st.Qual(i[f.Type], f.Qualified)
	}
	return st.Id(f.Type)
}

func GenerateDecls(source, pkgname string, t *TypeDecls, i imports) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by adtgen from %s. DO NOT EDIT.", source))
	for alias, path := range i {
		f.ImportAlias(path, alias)
	}

	for _, decl := range t.Declarations {

		if decl.Plain != nil {
			f.Type().Id(decl.Name).Id(*decl.Plain)
		} else if decl.Many != nil {
			f.Type().Id(decl.Name).Interface(
				Id("is_" + decl.Name).Params(),
			)

			for _, it := range *decl.Many {
				switch {
				case it.Fields != nil:
					var fields []Code
					for _, field := range it.Fields {
						fields = append(fields, i.fieldType(field))
					}
					f.Type().Id(it.Name).Struct(fields...)
				case t.IsSumType(it.Kind):
					f.Type().Id(it.Name).Struct(Id(it.Kind))
				default:
					f.Type().Id(it.Name).Id(it.Kind)
				}

				f.Func().Params(Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
			}
		}
	}

	return fmt.Sprintf("%#v", f)
}

// usage: adtgen <in.adt> <out.go> <package> [alias=importpath...]
func main() {
	parser := participle.MustBuild(&TypeDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	i := imports{}
	for _, arg := range os.Args[4:] {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			panic("malformed import " + arg)
		}
		i[parts[0]] = parts[1]
	}

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, &ast, i)), 0644)
	if err != nil {
		panic(err)
	}
}
