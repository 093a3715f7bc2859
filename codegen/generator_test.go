package codegen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"github.com/pontaoski/kaleidago/errors"
	"github.com/pontaoski/kaleidago/lexer"
	"github.com/pontaoski/kaleidago/parser"
)

func generate(src string, opts ...Option) (*Generator, *ir.Module, error) {
	f, err := parser.Parse(lexer.Tokenize(src))
	if err != nil {
		return nil, nil, err
	}
	g := New(f, opts...)
	m, err := g.Emit()
	return g, m, err
}

func compile(t *testing.T, src string, opts ...Option) *ir.Module {
	t.Helper()
	_, m, err := generate(src, opts...)
	if err != nil {
		t.Fatalf("compiling %q: %s", src, err)
	}
	return m
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	_, _, err := generate(src)
	if err == nil {
		t.Fatalf("compiling %q should have failed", src)
	}
	return err
}

func function(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()
	for _, fn := range m.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	t.Fatalf("no function %s in module", name)
	return nil
}

func instructions(fn *ir.Func) []ir.Instruction {
	var insts []ir.Instruction
	for _, b := range fn.Blocks {
		insts = append(insts, b.Insts...)
	}
	return insts
}

func blockNames(fn *ir.Func) []string {
	var names []string
	for _, b := range fn.Blocks {
		name := b.Name()
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

func TestEndToEnd(t *testing.T) {
	m := compile(t, `extern foo(n: Int) Int; def bar(n: Int) Int { return n + 1; } bar(foo(5))`)

	foo := function(t, m, "foo")
	if len(foo.Blocks) != 0 {
		t.Errorf("foo should only be declared")
	}

	bar := function(t, m, "bar")
	if len(bar.Blocks) != 1 {
		t.Fatalf("bar should have a single block, has %d", len(bar.Blocks))
	}
	add, ok := bar.Blocks[0].Insts[0].(*ir.InstAdd)
	if !ok || add.X != bar.Params[0] {
		t.Fatalf("bar should add to its parameter, got %s", repr.String(bar.Blocks[0].Insts))
	}
	ret, ok := bar.Blocks[0].Term.(*ir.TermRet)
	if !ok || ret.X != add {
		t.Fatalf("bar should return the sum")
	}

	main := function(t, m, "main")
	if !main.Sig.RetType.Equal(types.I32) {
		t.Errorf("main should return i32")
	}
	var calls []*ir.InstCall
	for _, inst := range instructions(main) {
		if call, ok := inst.(*ir.InstCall); ok {
			calls = append(calls, call)
		}
	}
	if len(calls) != 3 {
		t.Fatalf("expected calls to foo, bar and printf, got %d", len(calls))
	}
	if calls[0].Callee != foo || calls[1].Callee != bar || calls[1].Args[0] != calls[0] {
		t.Errorf("expected bar(foo(5))")
	}
	if calls[2].Callee != function(t, m, "printf") || calls[2].Args[1] != calls[1] {
		t.Errorf("expected the result of bar to be printed")
	}
	if _, ok := main.Blocks[len(main.Blocks)-1].Term.(*ir.TermRet); !ok {
		t.Errorf("main should return")
	}
}

func TestIfTruthifiesVariable(t *testing.T) {
	m := compile(t, `var x: Int x = 3 if x { 1 } else { 0 }`)
	main := function(t, m, "main")

	if got, expect := blockNames(main), []string{"entry", "then", "else", "merge"}; repr.String(got) != repr.String(expect) {
		t.Fatalf("expected blocks %s, got %s", repr.String(expect), repr.String(got))
	}

	entry := main.Blocks[0]
	br, ok := entry.Term.(*ir.TermCondBr)
	if !ok {
		t.Fatalf("entry should end in a conditional branch")
	}
	cmp, ok := br.Cond.(*ir.InstICmp)
	if !ok || cmp.Pred != enum.IPredNE {
		t.Fatalf("expected an icmp ne condition, got %s", repr.String(br.Cond))
	}
	if _, ok := cmp.X.(*ir.InstLoad); !ok {
		t.Errorf("the condition should test the loaded value of x")
	}
	if zero, ok := cmp.Y.(*constant.Int); !ok || zero.X.Int64() != 0 {
		t.Errorf("the condition should compare against zero")
	}

	for _, inst := range instructions(main) {
		if _, ok := inst.(*ir.InstCall); ok {
			t.Errorf("statements should not be printed")
		}
	}
}

func TestStructFieldsByDeclarationOrder(t *testing.T) {
	m := compile(t, `
		struct Line { from: Pair, to: Pair }
		struct Pair { a: Int, b: Int }
		def second(p: Pair) Int { return p.b }
		def first(l: Line) Pair { return l.from }
	`)

	second := function(t, m, "second")
	var gep *ir.InstGetElementPtr
	for _, inst := range instructions(second) {
		if v, ok := inst.(*ir.InstGetElementPtr); ok {
			gep = v
		}
	}
	if gep == nil {
		t.Fatalf("expected a field address computation")
	}
	if idx := gep.Indices[1].(*constant.Int).X.Int64(); idx != 1 {
		t.Errorf("p.b should address field 1, got %d", idx)
	}

	var line *types.StructType
	for _, def := range m.TypeDefs {
		if def.Name() == "Line" {
			line = def.(*types.StructType)
		}
	}
	if line == nil || line.Opaque || len(line.Fields) != 2 {
		t.Fatalf("Line should be populated, got %s", repr.String(line))
	}
	if ptr, ok := line.Fields[0].(*types.PointerType); !ok || ptr.ElemType.Name() != "Pair" {
		t.Errorf("Line.from should point at Pair")
	}
}

func TestCallErrors(t *testing.T) {
	err := compileErr(t, `def add(a: Int, b: Int) Int { return a + b } add(1)`)
	if e, ok := err.(errors.WrongNumberOfArgs); !ok || e.Expected != 2 || e.Got != 1 {
		t.Errorf("expected WrongNumberOfArgs 2/1, got %#v", err)
	}

	if _, ok := compileErr(t, `missing(1)`).(errors.UnknownFunction); !ok {
		t.Errorf("expected UnknownFunction")
	}
}

func TestCallBeforeDefinition(t *testing.T) {
	m := compile(t, `def a() Int { return b() } def b() Int { return 2 } a()`)
	b := function(t, m, "b")
	if len(b.Blocks) == 0 {
		t.Errorf("b should be defined after being declared by its caller")
	}
}

func TestExpectedParameterDefinition(t *testing.T) {
	err := compileErr(t, `extern f(a: Int) Int; def f(a: Int, b: Int) Int { return a }`)
	if _, ok := err.(errors.ExpectedParameterDefinition); !ok {
		t.Errorf("expected ExpectedParameterDefinition, got %#v", err)
	}
}

func TestIRErrors(t *testing.T) {
	cases := []struct {
		src    string
		expect interface{}
	}{
		{`def f(n: Int) Int { n = 2 return n } f(1)`, errors.UnknownVariable{}},
		{`y`, errors.UnknownVariable{}},
		{`var p: Nothing`, errors.UnknownType{}},
		{`struct P { x: Int } def f(p: P) Int { return p.z }`, errors.UnknownMember{}},
		{`def f(n: Int) Int { return n.x }`, errors.UnknownMember{}},
		{`"hello"`, errors.UnprintableType{}},
		{`extern tick(); tick()`, errors.UnprintableType{}},
		{`def f(a: Int, b: Float) Int { if a < b { return 1 } return 0 }`, errors.UnableToCompare{}},
		{`if "s" { 1 }`, errors.NonTruthyType{}},
		{`while "s" { 1 }`, errors.NonTruthyType{}},
	}

	for _, c := range cases {
		_, _, err := generate(c.src)
		if err == nil {
			t.Errorf("%q should have failed", c.src)
			continue
		}
		if got, expect := fmt.Sprintf("%T", err), fmt.Sprintf("%T", c.expect); got != expect {
			t.Errorf("%q failed with %s, expected %s", c.src, got, expect)
		}
	}
}

func TestFramesReleasedOnError(t *testing.T) {
	g, _, err := generate(`def f(n: Int) Int { while n { var i: Int missing } return n }`)
	if _, ok := err.(errors.UnknownVariable); !ok {
		t.Fatalf("expected UnknownVariable, got %#v", err)
	}
	if g.memory.Depth() != 0 {
		t.Errorf("expected no open frames, %d left", g.memory.Depth())
	}
}

func TestPrintFormatsCreatedOnce(t *testing.T) {
	m := compile(t, `1 2 3.5 4.5f`)

	count := map[string]int{}
	for _, global := range m.Globals {
		count[global.Name()]++
	}
	if count["IntPrintFormat"] != 1 || count["FloatPrintFormat"] != 1 {
		t.Errorf("expected one global per format, got %s", repr.String(count))
	}

	var exts int
	for _, inst := range instructions(function(t, m, "main")) {
		if _, ok := inst.(*ir.InstFPExt); ok {
			exts++
		}
	}
	if exts != 1 {
		t.Errorf("only the float should be widened, got %d fpext", exts)
	}
}

func TestLoopStructure(t *testing.T) {
	m := compile(t, `def count(n: Int) Int { var i: Int i = 0 while i < n { i = i + 1 } return i }`)
	fn := function(t, m, "count")

	if got, expect := blockNames(fn), []string{"entry", "setup", "body", "cleanup"}; repr.String(got) != repr.String(expect) {
		t.Fatalf("expected blocks %s, got %s", repr.String(expect), repr.String(got))
	}
	if br, ok := fn.Blocks[0].Term.(*ir.TermBr); !ok || br.Target != fn.Blocks[1] {
		t.Errorf("entry should branch into setup")
	}

	var cmps int
	for _, inst := range instructions(fn) {
		if cmp, ok := inst.(*ir.InstICmp); ok && cmp.Pred == enum.IPredSLT {
			cmps++
		}
	}
	if cmps != 2 {
		t.Errorf("the condition should be lowered in setup and after the body, got %d", cmps)
	}

	for _, b := range fn.Blocks[1:3] {
		br, ok := b.Term.(*ir.TermCondBr)
		if !ok || br.TargetTrue != fn.Blocks[2] || br.TargetFalse != fn.Blocks[3] {
			t.Errorf("%s should branch to body or cleanup", b.Name())
		}
	}
}

func TestForRunsPostAfterBody(t *testing.T) {
	m := compile(t, `extern show(n: Int); def f() { var i: Int for (i = 0; i < 3; i = i + 1) { show(i) } }`)
	fn := function(t, m, "f")

	body := fn.Blocks[2]
	var sawCall, sawAdd bool
	for _, inst := range body.Insts {
		switch inst.(type) {
		case *ir.InstCall:
			sawCall = true
		case *ir.InstAdd:
			if !sawCall {
				t.Errorf("post should run after the body")
			}
			sawAdd = true
		}
	}
	if !sawCall || !sawAdd {
		t.Errorf("body should call show and increment i")
	}
	if _, ok := fn.Blocks[len(fn.Blocks)-1].Term.(*ir.TermRet); !ok {
		t.Errorf("void function should end in ret void")
	}
}

func TestReturnInsideBranch(t *testing.T) {
	m := compile(t, `def abs(n: Int) Int { if n < 0 { return 0 - n } return n }`)
	fn := function(t, m, "abs")

	for _, b := range fn.Blocks {
		if b.Term == nil {
			t.Errorf("block %s is not terminated", b.Name())
		}
	}
	then := fn.Blocks[1]
	if _, ok := then.Term.(*ir.TermRet); !ok {
		t.Errorf("then block should end with its return, not a branch to merge")
	}
}

func TestRedefinitionReplacesBody(t *testing.T) {
	m := compile(t, `def f() Int { return 1 } def f() Int { return 2 }`)
	fn := function(t, m, "f")

	ret := fn.Blocks[0].Term.(*ir.TermRet)
	if c, ok := ret.X.(*constant.Int); !ok || c.X.Int64() != 2 {
		t.Errorf("the later definition should win")
	}

	var n int
	for _, f := range m.Funcs {
		if f.Name() == "f" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected one function f, got %d", n)
	}
}

func TestLogicalOperators(t *testing.T) {
	m := compile(t, `1 && 2.5`)

	var and *ir.InstAnd
	for _, inst := range instructions(function(t, m, "main")) {
		if v, ok := inst.(*ir.InstAnd); ok {
			and = v
		}
	}
	if and == nil || !and.Type().Equal(types.I1) {
		t.Fatalf("expected an i1 and, got %s", repr.String(and))
	}
}

func TestStringConstantsShared(t *testing.T) {
	m := compile(t, `extern puts(s: String) Int; puts("hi") puts("hi") puts("bye")`)

	var strs int
	for _, global := range m.Globals {
		if strings.HasPrefix(global.Name(), "_str_") {
			strs++
		}
	}
	if strs != 2 {
		t.Errorf("expected two string globals, got %d", strs)
	}
}

func TestUserPrintfSharesBuiltin(t *testing.T) {
	m := compile(t, `extern printf(fmt: String) Int; printf("hi") 42`)

	var printfs []*ir.Func
	for _, fn := range m.Funcs {
		if fn.Name() == "printf" {
			printfs = append(printfs, fn)
		}
	}
	if len(printfs) != 1 {
		t.Fatalf("expected one printf declaration, got %d", len(printfs))
	}
	printf := printfs[0]
	if !printf.Sig.Variadic || !printf.Sig.RetType.Equal(types.I32) {
		t.Errorf("printf should stay i32 (i8*, ...), got %s", printf.Sig)
	}

	var calls int
	for _, inst := range instructions(function(t, m, "main")) {
		if call, ok := inst.(*ir.InstCall); ok && call.Callee == printf {
			calls++
		}
	}
	if calls != 3 {
		t.Errorf("expected the user call and two prints to use the builtin, got %d calls", calls)
	}
}

func TestConflictingDeclarations(t *testing.T) {
	for _, src := range []string{
		`extern printf(n: Int) Int;`,
		`def printf(fmt: String) Int { return 0 }`,
		`def main() Int { return 0 }`,
		`extern main();`,
	} {
		if _, ok := compileErr(t, src).(errors.ConflictingDeclaration); !ok {
			t.Errorf("%q should conflict with a builtin", src)
		}
	}
}

func TestTopLevelReturn(t *testing.T) {
	m := compile(t, `return 1 2 if 2 { 3 }`)
	main := function(t, m, "main")

	entry := main.Blocks[0]
	ret, ok := entry.Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("entry should end with the return, got %s", repr.String(entry.Term))
	}
	if !ret.X.Type().Equal(types.I32) {
		t.Errorf("main should return an i32, got %s", ret.X.Type())
	}
	for _, inst := range entry.Insts {
		if _, ok := inst.(*ir.InstCall); ok {
			t.Errorf("nothing after the return may run before it")
		}
	}

	if got := blockNames(main); got[1] != "dead" {
		t.Errorf("code after the return should go to a fresh block, got %s", repr.String(got))
	}
	for _, b := range main.Blocks {
		if b.Term == nil {
			t.Errorf("block %s is not terminated", b.Name())
		}
	}
}

func TestTopLevelReturnNeedsInteger(t *testing.T) {
	if _, ok := compileErr(t, `return 1.5`).(errors.InvalidExitCode); !ok {
		t.Errorf("expected InvalidExitCode")
	}
}

func TestStringConstantNames(t *testing.T) {
	m := compile(t, `extern puts(s: String) Int; puts("a") puts("b") puts("a") puts("c")`)

	seen := map[string]bool{}
	for _, global := range m.Globals {
		if !strings.HasPrefix(global.Name(), "_str_") {
			continue
		}
		if seen[global.Name()] {
			t.Errorf("duplicate global %s", global.Name())
		}
		seen[global.Name()] = true
	}
	if len(seen) != 3 || !seen["_str_0"] || !seen["_str_2"] {
		t.Errorf("expected _str_0 through _str_2, got %s", repr.String(seen))
	}
}
