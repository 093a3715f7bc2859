package main

import (
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/llir/llvm/ir"

	"github.com/pontaoski/kaleidago/ast"
	"github.com/pontaoski/kaleidago/codegen"
	"github.com/pontaoski/kaleidago/lexer"
	"github.com/pontaoski/kaleidago/parser"
)

type settings struct {
	output    string
	compiler  string
	linkFlags []string
	typeInfo  bool
	library   bool
	noLink    bool
}

// artifacts are the files one build produces, named after the input.
type artifacts struct {
	ir     string
	object string
	binary string
}

func artifactsFor(input string, s settings) artifacts {
	base := strings.TrimSuffix(input, filepath.Ext(input))

	a := artifacts{
		ir:     base + ".ll",
		object: base + ".o",
		binary: base,
	}
	if s.library {
		a.binary = base + ".so"
	}
	if s.output != "" {
		a.binary = s.output
	}
	return a
}

func parseFile(path string) (*ast.File, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parser.Parse(lexer.Tokenize(string(data)))
}

func compile(path string, s settings) (*ir.Module, error) {
	file, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	opts := []codegen.Option{codegen.WithModuleName(filepath.Base(path))}
	if s.typeInfo || s.library {
		opts = append(opts, codegen.WithTypeInfo())
	}

	return codegen.New(file, opts...).Emit()
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// build writes the IR next to the input, then hands it to the C compiler
// for assembling and linking.
func build(input string, s settings) error {
	module, err := compile(input, s)
	if err != nil {
		return err
	}

	out := artifactsFor(input, s)
	if err := ioutil.WriteFile(out.ir, []byte(module.String()), 0644); err != nil {
		return err
	}
	log.Printf("wrote IR to %s", out.ir)

	compileArgs := []string{"-c", "-o", out.object, out.ir}
	if s.library {
		compileArgs = append([]string{"-fPIC"}, compileArgs...)
	}
	if err := run(s.compiler, compileArgs...); err != nil {
		return err
	}
	log.Printf("wrote object to %s", out.object)

	if s.noLink {
		return nil
	}

	linkArgs := []string{"-o", out.binary, out.object}
	if s.library {
		linkArgs = append(linkArgs, "-shared")
	}
	linkArgs = append(linkArgs, s.linkFlags...)
	if err := run(s.compiler, linkArgs...); err != nil {
		return err
	}
	log.Printf("linked %s", out.binary)

	return nil
}
