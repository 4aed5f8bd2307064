// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "fmt"

// requireDepth fails the state unless the stack holds at least n elements.
func (s *ProgramState) requireDepth(n int) bool {
	if len(s.Stack) < n {
		str := fmt.Sprintf("stack holds %d elements where %d are "+
			"required", len(s.Stack), n)
		s.fail(ErrEmptyStack, str)
		return false
	}
	return true
}

// opToAltStack moves the top element of the stack to the alternate stack.
func opToAltStack(s *ProgramState) *ProgramState {
	data, ok := s.pop()
	if !ok {
		return s
	}
	s.AltStack = append(s.AltStack, data)
	return s
}

// opFromAltStack moves the top element of the alternate stack back to the
// stack.
func opFromAltStack(s *ProgramState) *ProgramState {
	if len(s.AltStack) == 0 {
		return s.fail(ErrEmptyStack,
			"attempt to read from an empty alternate stack")
	}
	data := s.AltStack[len(s.AltStack)-1]
	s.AltStack = s.AltStack[:len(s.AltStack)-1]
	s.push(data)
	return s
}

// opNDrop builds the transition dropping the top n elements (OP_DROP,
// OP_2DROP).
func opNDrop(n int) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(n) {
			return s
		}
		s.Stack = s.Stack[:len(s.Stack)-n]
		return s
	}
}

// opNDup builds the transition duplicating the top n elements (OP_DUP,
// OP_2DUP, OP_3DUP).
func opNDup(n int) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(n) {
			return s
		}
		base := len(s.Stack) - n
		for i := base; i < base+n; i++ {
			if !s.push(s.Stack[i]) {
				return s
			}
		}
		return s
	}
}

// op2Over copies the third and fourth elements to the top.
func op2Over(s *ProgramState) *ProgramState {
	if !s.requireDepth(4) {
		return s
	}
	base := len(s.Stack) - 4
	if !s.push(s.Stack[base]) {
		return s
	}
	s.push(s.Stack[base+1])
	return s
}

// op2Rot rotates the fifth and sixth elements to the top.
func op2Rot(s *ProgramState) *ProgramState {
	if !s.requireDepth(6) {
		return s
	}
	base := len(s.Stack) - 6
	first, second := s.Stack[base], s.Stack[base+1]
	s.Stack = append(s.Stack[:base], s.Stack[base+2:]...)
	s.Stack = append(s.Stack, first, second)
	return s
}

// op2Swap swaps the top two pairs of elements.
func op2Swap(s *ProgramState) *ProgramState {
	if !s.requireDepth(4) {
		return s
	}
	base := len(s.Stack) - 4
	s.Stack[base], s.Stack[base+1], s.Stack[base+2], s.Stack[base+3] =
		s.Stack[base+2], s.Stack[base+3], s.Stack[base], s.Stack[base+1]
	return s
}

// opIfDup duplicates the top element when it is truthy.
func opIfDup(s *ProgramState) *ProgramState {
	data, ok := s.peek(0)
	if !ok {
		return s
	}
	if elementIsTruthy(data) {
		s.push(data)
	}
	return s
}

// opDepth pushes the stack depth as a script number.
func opDepth(s *ProgramState) *ProgramState {
	s.push(ScriptNum(len(s.Stack)).Bytes())
	return s
}

// opNip removes the element below the top.
func opNip(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	top := len(s.Stack) - 1
	s.Stack = append(s.Stack[:top-1], s.Stack[top])
	return s
}

// opOver copies the second element to the top.
func opOver(s *ProgramState) *ProgramState {
	data, ok := s.peek(1)
	if !ok {
		return s
	}
	s.push(data)
	return s
}

// popStackIndex pops the top number and validates it as an index into the
// remaining stack.
func (s *ProgramState) popStackIndex() (int, bool) {
	n, ok := s.popNum(mathOpNumLen)
	if !ok {
		return 0, false
	}
	idx := int(n)
	if idx < 0 || idx >= len(s.Stack) {
		str := fmt.Sprintf("index %d is invalid for stack size %d",
			idx, len(s.Stack))
		s.fail(ErrInvalidStackIndex, str)
		return 0, false
	}
	return idx, true
}

// opPick copies the element n entries down from the top to the top.
func opPick(s *ProgramState) *ProgramState {
	idx, ok := s.popStackIndex()
	if !ok {
		return s
	}
	s.push(s.Stack[len(s.Stack)-1-idx])
	return s
}

// opRoll moves the element n entries down from the top to the top.
func opRoll(s *ProgramState) *ProgramState {
	idx, ok := s.popStackIndex()
	if !ok {
		return s
	}
	pos := len(s.Stack) - 1 - idx
	data := s.Stack[pos]
	s.Stack = append(s.Stack[:pos], s.Stack[pos+1:]...)
	s.Stack = append(s.Stack, data)
	return s
}

// opRot rotates the third element to the top.
func opRot(s *ProgramState) *ProgramState {
	if !s.requireDepth(3) {
		return s
	}
	base := len(s.Stack) - 3
	third := s.Stack[base]
	s.Stack = append(s.Stack[:base], s.Stack[base+1:]...)
	s.Stack = append(s.Stack, third)
	return s
}

// opSwap swaps the top two elements.
func opSwap(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	top := len(s.Stack) - 1
	s.Stack[top], s.Stack[top-1] = s.Stack[top-1], s.Stack[top]
	return s
}

// opTuck copies the top element below the second.
func opTuck(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	top, ok := s.pop()
	if !ok {
		return s
	}
	second, _ := s.pop()
	if !s.push(top) {
		return s
	}
	if !s.push(second) {
		return s
	}
	s.push(top)
	return s
}
