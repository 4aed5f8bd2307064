// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

// unaryNumOp builds a transition that consumes one script number and pushes
// the encoded result of fn.
func unaryNumOp(fn func(n ScriptNum) []byte) operation {
	return func(s *ProgramState) *ProgramState {
		n, ok := s.popNum(mathOpNumLen)
		if !ok {
			return s
		}
		s.push(fn(n))
		return s
	}
}

// binaryNumOp builds a transition that consumes two script numbers and pushes
// the encoded result of fn, where a is the deeper operand.
func binaryNumOp(fn func(a, b ScriptNum) []byte) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(2) {
			return s
		}
		b, ok := s.popNum(mathOpNumLen)
		if !ok {
			return s
		}
		a, ok := s.popNum(mathOpNumLen)
		if !ok {
			return s
		}
		s.push(fn(a, b))
		return s
	}
}

// opDiv divides the second number by the top, truncating toward zero.
func opDiv(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	divisor, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	dividend, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	if divisor == 0 {
		return s.fail(ErrDivideByZero, "division by zero")
	}
	s.push((dividend / divisor).Bytes())
	return s
}

// opMod pushes the remainder of dividing the second number by the top.  The
// result carries the sign of the dividend.
func opMod(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	divisor, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	dividend, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	if divisor == 0 {
		return s.fail(ErrDivideByZero, "modulo by zero")
	}
	s.push((dividend % divisor).Bytes())
	return s
}

// opNumEqualVerify behaves as OP_NUMEQUAL followed by OP_VERIFY.
var opNumEqualVerify = verifyOp(
	binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a == b) }),
	"OP_NUMEQUALVERIFY")

// opWithin pushes whether the third number is within the half-open interval
// [second, top).
func opWithin(s *ProgramState) *ProgramState {
	if !s.requireDepth(3) {
		return s
	}
	max, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	min, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	value, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	s.push(fromBool(value >= min && value < max))
	return s
}
