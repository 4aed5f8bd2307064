// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"encoding/hex"
	"fmt"
)

// pushBytesName renders the mnemonic of a constant push of n bytes.
func pushBytesName(n int) string {
	return fmt.Sprintf("OP_PUSHBYTES_%d", n)
}

// readPush decodes the payload of the push opcode at script[ip].  It returns
// the payload and the offset of the last byte the push consumes, so the
// instruction pointer can be advanced past inline data.  Truncated pushes
// return ErrMalformedPush.
func readPush(script []byte, ip int) ([]byte, int, *Error) {
	op := script[ip]

	var length, lengthBytes int
	switch {
	case op >= OpData1 && op <= OpData75:
		length = int(op)
	case op == OpPushData1:
		lengthBytes = 1
	case op == OpPushData2:
		lengthBytes = 2
	case op == OpPushData4:
		lengthBytes = 4
	default:
		return nil, ip, scriptError(ErrMalformedPush,
			fmt.Sprintf("opcode 0x%02x is not a push", op))
	}

	if lengthBytes > 0 {
		if ip+1+lengthBytes > len(script) {
			str := fmt.Sprintf("push length field requires %d bytes "+
				"but script only has %d remaining", lengthBytes,
				len(script)-ip-1)
			return nil, len(script) - 1, scriptError(ErrMalformedPush, str)
		}
		for i := 0; i < lengthBytes; i++ {
			length |= int(script[ip+1+i]) << uint(8*i)
		}
		ip += lengthBytes
	}

	if ip+1+length > len(script) {
		str := fmt.Sprintf("push of %d bytes requires more bytes than "+
			"the %d remaining in the script", length,
			len(script)-ip-1)
		return nil, len(script) - 1, scriptError(ErrMalformedPush, str)
	}
	return script[ip+1 : ip+1+length], ip + length, nil
}

// checkMinimalPush returns an error unless the push opcode at hand is the
// shortest possible encoding of its payload: OP_0 for the empty element, the
// number opcodes for the single bytes they can express, OP_PUSHBYTES for up
// to 75 bytes, OP_PUSHDATA1 for up to 255 and OP_PUSHDATA2 for up to 65535.
func checkMinimalPush(op byte, data []byte) *Error {
	switch {
	case len(data) == 0 && op != Op0:
		str := fmt.Sprintf("zero length data push is encoded with "+
			"opcode %s instead of OP_0", OpcodeName(op))
		return scriptError(ErrNonMinimalPush, str)
	case len(data) == 1 && data[0] >= 1 && data[0] <= 16 && op != Op1+data[0]-1:
		str := fmt.Sprintf("data push of the value %d is encoded with "+
			"opcode %s instead of OP_%d", data[0], OpcodeName(op),
			data[0])
		return scriptError(ErrNonMinimalPush, str)
	case len(data) == 1 && data[0] == 0x81 && op != Op1Negate:
		str := fmt.Sprintf("data push of the value -1 is encoded with "+
			"opcode %s instead of OP_1NEGATE", OpcodeName(op))
		return scriptError(ErrNonMinimalPush, str)
	case len(data) <= 75 && int(op) != len(data):
		str := fmt.Sprintf("data push of %d bytes is encoded with "+
			"opcode %s instead of %s", len(data), OpcodeName(op),
			pushBytesName(len(data)))
		return scriptError(ErrNonMinimalPush, str)
	case len(data) <= 255 && op != OpPushData1 && op > OpData75:
		str := fmt.Sprintf("data push of %d bytes is encoded with "+
			"opcode %s instead of OP_PUSHDATA1", len(data),
			OpcodeName(op))
		return scriptError(ErrNonMinimalPush, str)
	case len(data) <= 65535 && op == OpPushData4:
		str := fmt.Sprintf("data push of %d bytes is encoded with "+
			"opcode OP_PUSHDATA4 instead of OP_PUSHDATA2",
			len(data))
		return scriptError(ErrNonMinimalPush, str)
	}
	return nil
}

// executePush carries out the shared push protocol: decode the payload,
// advance the instruction pointer past it, and, on an executing branch only,
// enforce minimality and push.  The size limit applies on skipped branches
// too.
func executePush(s *ProgramState) *ProgramState {
	op := s.Script[s.IP]
	data, last, err := readPush(s.Script, s.IP)
	if err != nil {
		s.IP = last
		s.Err = err
		return s
	}
	s.IP = last

	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size "+
			"%d", len(data), MaxScriptElementSize)
		return s.fail(ErrExceedsMaximumPush, str)
	}
	if !s.isBranchExecuting() {
		return s
	}
	if err := checkMinimalPush(op, data); err != nil {
		s.Err = err
		return s
	}

	// Copy out of the script so stack mutations can never alias it.
	payload := make([]byte, len(data))
	copy(payload, data)
	s.push(payload)
	return s
}

// pushAsm renders a push opcode together with its payload, or a marker when
// the payload extends past the end of the script.
func pushAsm(name string, s *ProgramState) string {
	data, _, err := readPush(s.Script, s.IP)
	if err != nil {
		return name + " [malformed push]"
	}
	if len(data) == 0 {
		return name
	}
	return name + " 0x" + hex.EncodeToString(data)
}

// opPushEmpty implements OP_0: push the empty element.
func opPushEmpty(s *ProgramState) *ProgramState {
	s.push(nil)
	return s
}

// pushBytesOperator builds the operator for OP_PUSHBYTES_1 through
// OP_PUSHBYTES_75.
func pushBytesOperator(length int) *Operator {
	name := pushBytesName(length)
	return &Operator{
		Asm: func(s *ProgramState) string {
			return pushAsm(name, s)
		},
		Description: func(*ProgramState) string {
			return fmt.Sprintf("Push the next %d bytes.", length)
		},
		Operation: executePush,
	}
}

// pushDataOperator builds the operator for the OP_PUSHDATA variants, whose
// payload length is itself read from the script.
func pushDataOperator(op byte, lengthBytes int) *Operator {
	name := OpcodeName(op)
	return &Operator{
		Asm: func(s *ProgramState) string {
			return pushAsm(name, s)
		},
		Description: func(*ProgramState) string {
			return fmt.Sprintf("Push the number of bytes given by "+
				"the following %d-byte length.", lengthBytes)
		},
		Operation: executePush,
	}
}

// pushNumberOperator builds the operator for OP_1NEGATE and OP_1 through
// OP_16, which push the canonical script-number encoding of their scalar.
func pushNumberOperator(op byte, value int64) *Operator {
	name := OpcodeName(op)
	return &Operator{
		Asm:         func(*ProgramState) string { return name },
		Description: func(*ProgramState) string { return fmt.Sprintf("Push the number %d.", value) },
		Operation: conditionallyEvaluate(func(s *ProgramState) *ProgramState {
			s.push(ScriptNum(value).Bytes())
			return s
		}),
	}
}
