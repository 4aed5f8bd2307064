// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"

	"github.com/bchsuite/bchvm/crypto"
)

// InstructionSet bundles everything variant-specific the driver needs: the
// per-step bookkeeping hook, state duplication for debuggers, the termination
// predicate, and the operator dispatch table.
type InstructionSet struct {
	// Before advances the instruction pointer, records the opcode about
	// to execute, and charges it against the operation limit.
	Before func(*ProgramState) *ProgramState

	// Clone returns an independent deep copy of a state.
	Clone func(*ProgramState) *ProgramState

	// Continue reports whether evaluation may take another step.
	Continue func(*ProgramState) bool

	// Operators maps each opcode byte to its operator.  A nil entry is an
	// unknown opcode.
	Operators *[256]*Operator
}

// NewInstructionSet returns the BCH_2019May instruction set with the passed
// crypto providers captured by its signature and hashing operators.
func NewInstructionSet(providers crypto.Providers) *InstructionSet {
	return &InstructionSet{
		Before:    advance,
		Clone:     func(s *ProgramState) *ProgramState { return s.clone() },
		Continue:  stateContinues,
		Operators: newOperatorTable(providers),
	}
}

// advance moves the instruction pointer to the next opcode and performs the
// per-instruction bookkeeping: the opcode is recorded and charged against the
// operation limit.  Advancing past the end of the script leaves the state
// unchanged apart from the pointer, which halts evaluation.
func advance(s *ProgramState) *ProgramState {
	s.IP++
	if s.IP >= len(s.Script) {
		return s
	}
	s.Operations = append(s.Operations, s.Script[s.IP])
	s.OperationCount++
	if s.OperationCount > MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			MaxOpsPerScript)
		return s.fail(ErrExceededMaximumOperationCount, str)
	}
	return s
}

// stateContinues is the termination predicate: evaluation proceeds while no
// error is set and instructions remain.
func stateContinues(s *ProgramState) bool {
	return s.Err == nil && s.IP < len(s.Script)
}
