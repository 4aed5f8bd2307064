// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "fmt"

const (
	// MaxOpsPerScript is the maximum number of operations a single
	// evaluation may execute.
	MaxOpsPerScript = 201

	// MaxPubKeysPerMultiSig is the maximum number of public keys a single
	// OP_CHECKMULTISIG may name.
	MaxPubKeysPerMultiSig = 20

	// MaxScriptElementSize is the maximum length of a stack element and of
	// a single push payload.
	MaxScriptElementSize = 520

	// MaxStackSize is the maximum combined height of the stack and the
	// alternate stack during execution.
	MaxStackSize = 1000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000
)

// Conditional execution constants.  An entry is pushed onto the execution
// stack for every OP_IF/OP_NOTIF encountered; only a stack whose entries are
// all opCondTrue leaves the current branch executing.
const (
	opCondFalse = 0
	opCondTrue  = 1
	opCondSkip  = 2
)

// TransactionContext is the immutable transaction-level input to an
// evaluation: everything a signature can commit to that is not part of the
// scripts themselves.  The hashes are the intermediate double-SHA256 digests
// of the BIP143-style signing serialization; computing them from a full
// transaction is the caller's concern.
type TransactionContext struct {
	Version                        uint32
	TransactionOutpointsHash       []byte
	TransactionSequenceNumbersHash []byte
	OutpointTransactionHash        []byte
	CorrespondingOutputHash        []byte
	TransactionOutputsHash         []byte
	OutpointIndex                  uint32
	OutpointValue                  uint64
	SequenceNumber                 uint32
	Locktime                       uint32
	BlockHeight                    uint32
	BlockTime                      uint32
}

// ProgramState is the complete state of a single-phase evaluation.  Operators
// mutate the internal fields in place and return the same state; Context is
// shared between phases and never written.
//
// Once Err is set the state is terminal: the driver stops and no operator
// runs again.
type ProgramState struct {
	// Context is the transaction-level input to the evaluation.
	Context *TransactionContext

	// Script holds the bytes of the script being evaluated, including
	// inline push payloads.
	Script []byte

	// IP is the instruction pointer.  It starts at -1 so the first
	// advance lands on offset 0, and never exceeds len(Script).
	IP int

	// LastCodeSeparator is the offset of the most recently executed
	// OP_CODESEPARATOR, or -1 when none has executed.
	LastCodeSeparator int

	// OperationCount is the number of operations executed so far,
	// including the extra cost charged by OP_CHECKMULTISIG.
	OperationCount int

	// Operations records the opcode byte of every instruction read, in
	// execution order.  Push payloads are not recorded.
	Operations []byte

	// Stack is the data stack.  The last element is the top.
	Stack [][]byte

	// AltStack is the alternate stack.  It does not survive into the next
	// phase.
	AltStack [][]byte

	// ExecutionStack tracks nested conditional blocks using the opCond*
	// constants.
	ExecutionStack []int

	// Err is the terminal error, or nil while the evaluation may proceed.
	Err *Error
}

// NewProgramState returns a state positioned before the first instruction of
// the passed script, with its stack initialized to a copy of initialStack.
// Oversized scripts yield an already-terminal state.
func NewProgramState(script []byte, initialStack [][]byte, ctx *TransactionContext) *ProgramState {
	state := &ProgramState{
		Context:           ctx,
		Script:            script,
		IP:                -1,
		LastCodeSeparator: -1,
		Stack:             copyStack(initialStack),
	}
	if len(script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed "+
			"size %d", len(script), MaxScriptSize)
		return applyError(ErrScriptTooBig, str, state)
	}
	return state
}

// copyStack deep-copies a stack so mutations of one evaluation can never leak
// into another.
func copyStack(stack [][]byte) [][]byte {
	if stack == nil {
		return nil
	}
	c := make([][]byte, len(stack))
	for i, entry := range stack {
		c[i] = copyBytes(entry)
	}
	return c
}

// copyBytes duplicates a byte slice, preserving nil.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// clone returns an independent deep copy of the state.  The context is shared
// since it is immutable.  Copies preserve nil slices so cloned states compare
// deeply equal to originals.
func (s *ProgramState) clone() *ProgramState {
	c := &ProgramState{
		Context:           s.Context,
		Script:            copyBytes(s.Script),
		IP:                s.IP,
		LastCodeSeparator: s.LastCodeSeparator,
		OperationCount:    s.OperationCount,
		Operations:        copyBytes(s.Operations),
		Stack:             copyStack(s.Stack),
		AltStack:          copyStack(s.AltStack),
		Err:               s.Err,
	}
	if s.ExecutionStack != nil {
		c.ExecutionStack = make([]int, len(s.ExecutionStack))
		copy(c.ExecutionStack, s.ExecutionStack)
	}
	return c
}

// fail attaches a script error to the state and returns it.
func (s *ProgramState) fail(c ErrorCode, desc string) *ProgramState {
	return applyError(c, desc, s)
}

// isBranchExecuting returns whether the current conditional branch is
// actively executing.  It properly handles nested conditionals.
func (s *ProgramState) isBranchExecuting() bool {
	if len(s.ExecutionStack) == 0 {
		return true
	}
	return s.ExecutionStack[len(s.ExecutionStack)-1] == opCondTrue
}

// push places data on top of the stack, enforcing the element-size and
// combined stack-depth limits.
func (s *ProgramState) push(data []byte) bool {
	if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size "+
			"%d", len(data), MaxScriptElementSize)
		s.fail(ErrExceedsMaximumPush, str)
		return false
	}
	if len(s.Stack)+len(s.AltStack)+1 > MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			len(s.Stack)+len(s.AltStack)+1, MaxStackSize)
		s.fail(ErrStackOverflow, str)
		return false
	}
	s.Stack = append(s.Stack, data)
	return true
}

// pop removes and returns the top stack element.  Underflow fails the state
// and returns false.
func (s *ProgramState) pop() ([]byte, bool) {
	if len(s.Stack) == 0 {
		s.fail(ErrEmptyStack, "attempt to read from an empty stack")
		return nil, false
	}
	data := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return data, true
}

// peek returns the stack element idx entries down from the top without
// removing it, where 0 is the top.
func (s *ProgramState) peek(idx int) ([]byte, bool) {
	if idx < 0 || idx >= len(s.Stack) {
		str := fmt.Sprintf("index %d is invalid for stack size %d",
			idx, len(s.Stack))
		s.fail(ErrEmptyStack, str)
		return nil, false
	}
	return s.Stack[len(s.Stack)-1-idx], true
}

// popNum pops the top stack element and decodes it as a script number of at
// most numLen bytes.
func (s *ProgramState) popNum(numLen int) (ScriptNum, bool) {
	data, ok := s.pop()
	if !ok {
		return 0, false
	}
	n, err := MakeScriptNum(data, numLen)
	if err != nil {
		s.Err = err
		return 0, false
	}
	return n, true
}

// popBool pops the top stack element and interprets it as a boolean.
func (s *ProgramState) popBool() (bool, bool) {
	data, ok := s.pop()
	if !ok {
		return false, false
	}
	return elementIsTruthy(data), true
}

// elementIsTruthy implements the truthiness predicate used by conditionals,
// the *VERIFY operations, and final state validation.  An element is falsy
// when it is empty or consists of 0x00 bytes optionally terminated by a
// single 0x80 (negative zero).
func elementIsTruthy(data []byte) bool {
	for i, b := range data {
		if b != 0x00 {
			if i == len(data)-1 && b == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}
