// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"fmt"
)

// binaryBitwiseOp builds the shared transition of OP_AND, OP_OR and OP_XOR:
// pop two same-length elements and combine them byte by byte.
func binaryBitwiseOp(combine func(a, b byte) byte) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(2) {
			return s
		}
		second, _ := s.pop()
		first, _ := s.pop()
		if len(first) != len(second) {
			str := fmt.Sprintf("bitwise operands differ in length: "+
				"%d != %d", len(first), len(second))
			return s.fail(ErrInvalidOperandSize, str)
		}
		result := make([]byte, len(first))
		for i := range first {
			result[i] = combine(first[i], second[i])
		}
		s.push(result)
		return s
	}
}

var (
	opAnd = binaryBitwiseOp(func(a, b byte) byte { return a & b })
	opOr  = binaryBitwiseOp(func(a, b byte) byte { return a | b })
	opXor = binaryBitwiseOp(func(a, b byte) byte { return a ^ b })
)

// opEqual pushes whether the top two elements are byte-wise equal.  Elements
// of different length are unequal.
func opEqual(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	second, _ := s.pop()
	first, _ := s.pop()
	s.push(fromBool(bytes.Equal(first, second)))
	return s
}

// opEqualVerify behaves as OP_EQUAL followed by OP_VERIFY.
var opEqualVerify = verifyOp(opEqual, "OP_EQUALVERIFY")
