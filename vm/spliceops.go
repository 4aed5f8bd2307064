// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "fmt"

// opCat concatenates the top two elements.  The result is subject to the
// element size limit.
func opCat(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	second, _ := s.pop()
	first, _ := s.pop()
	result := make([]byte, 0, len(first)+len(second))
	result = append(result, first...)
	result = append(result, second...)
	s.push(result)
	return s
}

// opSplit splits the second element at the index given by the top number.
// Both halves are pushed; either may be empty.
func opSplit(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	n, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	data, _ := s.pop()
	idx := int(n)
	if idx < 0 || idx > len(data) {
		str := fmt.Sprintf("split index %d is invalid for an element "+
			"of %d bytes", idx, len(data))
		return s.fail(ErrInvalidSplitRange, str)
	}
	if !s.push(data[:idx:idx]) {
		return s
	}
	s.push(data[idx:])
	return s
}

// opNum2Bin re-encodes the second element as a byte sequence of the length
// given by the top number, sign-extending as needed.
func opNum2Bin(s *ProgramState) *ProgramState {
	if !s.requireDepth(2) {
		return s
	}
	sizeNum, ok := s.popNum(mathOpNumLen)
	if !ok {
		return s
	}
	data, _ := s.pop()
	size := int(sizeNum)
	if size < 0 || size > MaxScriptElementSize {
		str := fmt.Sprintf("requested encoding size %d is invalid",
			size)
		return s.fail(ErrExceedsMaximumPush, str)
	}

	// Strip high bytes carrying no payload so oversized minimally-padded
	// inputs can shrink, then remember and clear the sign bit.
	trimmed := make([]byte, len(data))
	copy(trimmed, data)
	signBit := byte(0x00)
	if len(trimmed) > 0 {
		signBit = trimmed[len(trimmed)-1] & 0x80
		trimmed[len(trimmed)-1] &= 0x7f
		for len(trimmed) > 1 && trimmed[len(trimmed)-1] == 0x00 &&
			trimmed[len(trimmed)-2]&0x80 == 0 {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if len(trimmed) == 1 && trimmed[0] == 0x00 {
			trimmed = trimmed[:0]
		}
	}

	if len(trimmed) > size {
		str := fmt.Sprintf("value in %x cannot be encoded in %d "+
			"bytes", data, size)
		return s.fail(ErrImpossibleEncoding, str)
	}
	if size == 0 {
		s.push(nil)
		return s
	}

	result := make([]byte, size)
	copy(result, trimmed)
	if len(trimmed) == size && trimmed[len(trimmed)-1]&0x80 != 0 {
		// No room for the sign bit in the payload's top byte.
		str := fmt.Sprintf("value in %x cannot be encoded in %d "+
			"bytes", data, size)
		return s.fail(ErrImpossibleEncoding, str)
	}
	result[size-1] |= signBit
	s.push(result)
	return s
}

// opBin2Num re-encodes the top element as a minimal script number.  The
// numeric value must fit the arithmetic operand size.
func opBin2Num(s *ProgramState) *ProgramState {
	data, ok := s.pop()
	if !ok {
		return s
	}
	minimal := minimallyEncode(data)
	if len(minimal) > mathOpNumLen {
		str := fmt.Sprintf("value in %x overflows the numeric range",
			data)
		return s.fail(ErrInvalidScriptNumber, str)
	}
	s.push(minimal)
	return s
}

// minimallyEncode strips padding bytes so the result is the minimal
// script-number encoding of the same value.
func minimallyEncode(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	result := make([]byte, len(data))
	copy(result, data)
	for len(result) > 0 && result[len(result)-1]&0x7f == 0 {
		sign := result[len(result)-1] & 0x80
		result = result[:len(result)-1]
		if len(result) > 0 {
			if result[len(result)-1]&0x80 != 0 {
				// The previous byte already carries payload in
				// the sign position, keep a dedicated sign
				// byte.
				result = append(result, sign)
				break
			}
			result[len(result)-1] |= sign
		}
	}
	if len(result) == 1 && result[0] == 0x00 {
		return nil
	}
	return result
}

// opSize pushes the length of the top element without consuming it.
func opSize(s *ProgramState) *ProgramState {
	data, ok := s.peek(0)
	if !ok {
		return s
	}
	s.push(ScriptNum(len(data)).Bytes())
	return s
}
