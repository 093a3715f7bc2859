package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/pontaoski/kaleidago/errors"
)

type frame struct {
	statics   map[string]value.Value
	variables map[string]*ir.InstAlloca
}

func newFrame() *frame {
	return &frame{
		statics:   map[string]value.Value{},
		variables: map[string]*ir.InstAlloca{},
	}
}

// StackMemory is the scope stack used while lowering. Statics are immutable
// bindings such as parameters; variables are mutable stack slots.
type StackMemory struct {
	b      *builder
	frames []*frame
}

func newStackMemory(b *builder) *StackMemory {
	return &StackMemory{b: b}
}

func (s *StackMemory) StartFrame() {
	s.frames = append(s.frames, newFrame())
}

func (s *StackMemory) EndFrame() {
	s.frames = s.frames[:len(s.frames)-1]
}

// WithFrame runs fn inside a fresh frame. The frame is popped whether or not
// fn fails.
func (s *StackMemory) WithFrame(fn func() error) error {
	s.StartFrame()
	defer s.EndFrame()

	return fn()
}

// Depth is the number of open frames.
func (s *StackMemory) Depth() int {
	return len(s.frames)
}

func (s *StackMemory) top() *frame {
	return s.frames[len(s.frames)-1]
}

func (s *StackMemory) AddStatic(name string, v value.Value) {
	s.top().statics[name] = v
}

// AddVariable allocates a new slot for name in the innermost frame. The
// alloca goes into the entry block of the current function.
func (s *StackMemory) AddVariable(name string, t types.Type) *ir.InstAlloca {
	alloca := ir.NewAlloca(t)
	hoistAlloca(s.b.function().Blocks[0], alloca)

	s.top().variables[name] = alloca
	return alloca
}

func hoistAlloca(entry *ir.Block, alloca *ir.InstAlloca) {
	i := 0
	for i < len(entry.Insts) {
		if _, ok := entry.Insts[i].(*ir.InstAlloca); !ok {
			break
		}
		i++
	}

	insts := make([]ir.Instruction, 0, len(entry.Insts)+1)
	insts = append(insts, entry.Insts[:i]...)
	insts = append(insts, alloca)
	insts = append(insts, entry.Insts[i:]...)
	entry.Insts = insts
}

// GetVariable searches from the innermost frame outwards. Variables are
// loaded at the current insertion point; statics are returned as they are.
func (s *StackMemory) GetVariable(name string) (value.Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if alloca, ok := s.frames[i].variables[name]; ok {
			return s.b.block.NewLoad(alloca.ElemType, alloca), true
		}
		if v, ok := s.frames[i].statics[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetVariable stores into the nearest variable called name. Statics are
// never written and no new variable is created.
func (s *StackMemory) SetVariable(name string, v value.Value) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if alloca, ok := s.frames[i].variables[name]; ok {
			s.b.block.NewStore(v, alloca)
			return nil
		}
	}
	return errors.UnknownVariable{Name: name}
}
