// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"

	"github.com/bchsuite/bchvm/crypto"
)

// VM is the generic evaluation driver.  It owns no state of its own beyond
// the instruction set, so a single VM is safe to share across concurrent
// evaluations.
type VM struct {
	instructionSet *InstructionSet
}

// NewVM returns a driver for the passed instruction set.
func NewVM(instructionSet *InstructionSet) *VM {
	return &VM{instructionSet: instructionSet}
}

// NewBCHVM returns a driver for the BCH instruction set using the passed
// crypto providers.
func NewBCHVM(providers crypto.Providers) *VM {
	return NewVM(NewInstructionSet(providers))
}

// TraceEntry is one debugger step: the operator's renderers applied to the
// state about to execute it, and an independent snapshot of the state after
// the transition.
type TraceEntry struct {
	Asm         string
	Description string
	State       *ProgramState
}

// unknownOpcodeName renders a byte with no operator-table entry.
func unknownOpcodeName(op byte) string {
	return fmt.Sprintf("OP_UNKNOWN(0x%02x)", op)
}

// dispatch executes the operator at the instruction pointer on a state the
// Before hook has already advanced.  A pointer past the end of the script is
// a completed evaluation, not an error.
func (vm *VM) dispatch(state *ProgramState) *ProgramState {
	if state.Err != nil || state.IP >= len(state.Script) {
		return state
	}
	opcode := state.Script[state.IP]
	operator := vm.instructionSet.Operators[opcode]
	if operator == nil {
		str := fmt.Sprintf("attempt to execute unknown opcode 0x%02x",
			opcode)
		return state.fail(ErrUnknownOpcode, str)
	}
	return operator.Operation(state)
}

// Step advances the state by a single instruction and returns it.
func (vm *VM) Step(state *ProgramState) *ProgramState {
	state = vm.instructionSet.Before(state)
	return vm.dispatch(state)
}

// Evaluate runs the state to termination and returns the terminal state.  A
// script that ends inside an open conditional block fails.
func (vm *VM) Evaluate(state *ProgramState) *ProgramState {
	for vm.instructionSet.Continue(state) {
		log.Tracef("%v", newLogClosure(func() string {
			return fmt.Sprintf("stepping %02x @ %d", state.Script,
				state.IP+1)
		}))
		state = vm.Step(state)
	}
	return finishEvaluation(state)
}

// finishEvaluation applies the end-of-script checks shared by Evaluate and
// Debug.
func finishEvaluation(state *ProgramState) *ProgramState {
	if state.Err == nil && len(state.ExecutionStack) != 0 {
		return state.fail(ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}
	return state
}

// Debug runs the state to termination like Evaluate while capturing a trace.
// The first entry carries the phase label and a snapshot of the initial
// state; each subsequent entry pairs the executed operator's renderings with
// a snapshot of the state after its transition.  The final entry's state is
// the terminal state.
func (vm *VM) Debug(state *ProgramState, label string) []TraceEntry {
	clone := vm.instructionSet.Clone
	trace := []TraceEntry{{
		Asm:         label,
		Description: fmt.Sprintf("initial state for %s", label),
		State:       clone(state),
	}}

	for vm.instructionSet.Continue(state) {
		state = vm.instructionSet.Before(state)

		var asm, description string
		switch {
		case state.Err != nil:
			asm, description = "[error]", state.Err.Description
		case state.IP >= len(state.Script):
			asm, description = "[end]", "end of script"
		default:
			if op := vm.instructionSet.Operators[state.Script[state.IP]]; op != nil {
				asm = op.Asm(state)
				description = op.Description(state)
			} else {
				asm = unknownOpcodeName(state.Script[state.IP])
				description = "An opcode with no assigned operation."
			}
		}

		state = vm.dispatch(state)
		trace = append(trace, TraceEntry{
			Asm:         asm,
			Description: description,
			State:       clone(state),
		})
	}

	terminal := finishEvaluation(state)
	if len(trace) == 0 || trace[len(trace)-1].State.Err != terminal.Err {
		trace = append(trace, TraceEntry{
			Asm:         "[end]",
			Description: "end of evaluation",
			State:       clone(terminal),
		})
	}
	return trace
}
