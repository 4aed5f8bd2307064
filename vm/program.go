// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "fmt"

// Phase labels used by the debug pipeline.
const (
	phaseUnlocking = "unlocking script"
	phaseLocking   = "locking script"
	phaseRedeem    = "redeem script"
)

// AuthenticationProgram pairs the two scripts authorizing a transaction input
// with the transaction context they are evaluated against.
type AuthenticationProgram struct {
	UnlockingScript []byte
	LockingScript   []byte
	Context         *TransactionContext
}

// NewProgram returns an AuthenticationProgram over the passed scripts and
// context.
func NewProgram(unlockingScript, lockingScript []byte, ctx *TransactionContext) *AuthenticationProgram {
	return &AuthenticationProgram{
		UnlockingScript: unlockingScript,
		LockingScript:   lockingScript,
		Context:         ctx,
	}
}

// IsPayToScriptHash returns whether the passed script has the exact
// pay-to-script-hash shape: OP_HASH160 OP_PUSHBYTES_20 <20 bytes> OP_EQUAL.
// The predicate depends on the locking script bytes alone.
func IsPayToScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OpHash160 &&
		script[1] == OpData20 &&
		script[22] == OpEqual
}

// isPushOnlyOperations reports whether every recorded opcode is a push: a
// byte below OP_16 never consumes stack elements or alters control flow.
func isPushOnlyOperations(operations []byte) bool {
	for _, op := range operations {
		if op >= Op16 {
			return false
		}
	}
	return true
}

// EvaluateProgram runs the multi-phase evaluation protocol:
//
//  1. The unlocking script runs on an empty stack.  Any error is terminal.
//  2. The locking script runs on the stack the unlocking phase produced.
//  3. When the locking script has the pay-to-script-hash shape, the
//     unlocking phase must have been push-only and must have left at least
//     one element; the top element is then evaluated as the redeem script
//     over the remaining stack.
//
// Each phase starts with fresh internal state; only the stack carries over.
// The returned state is the terminal state of the last phase reached; use
// ValidateState to turn it into a validity verdict.
func (vm *VM) EvaluateProgram(program *AuthenticationProgram) *ProgramState {
	unlockingResult := vm.Evaluate(NewProgramState(program.UnlockingScript,
		nil, program.Context))
	if unlockingResult.Err != nil {
		return unlockingResult
	}

	lockingResult := vm.Evaluate(NewProgramState(program.LockingScript,
		unlockingResult.Stack, program.Context))
	if lockingResult.Err != nil || !IsPayToScriptHash(program.LockingScript) {
		return lockingResult
	}

	redeemScript, remainingStack, serr := extractRedeemScript(unlockingResult)
	if serr != nil {
		lockingResult.Err = serr
		return lockingResult
	}
	return vm.Evaluate(NewProgramState(redeemScript, remainingStack,
		program.Context))
}

// extractRedeemScript enforces the pay-to-script-hash prerequisites on the
// terminal unlocking state and splits its stack into the redeem script and
// the initial stack of the third phase.
func extractRedeemScript(unlockingResult *ProgramState) ([]byte, [][]byte, *Error) {
	if !isPushOnlyOperations(unlockingResult.Operations) {
		return nil, nil, scriptError(ErrP2SHPushOnly,
			"pay to script hash is not push only")
	}
	if len(unlockingResult.Stack) == 0 {
		return nil, nil, scriptError(ErrP2SHEmptyStack,
			"pay to script hash left no redeem script")
	}
	stack := copyStack(unlockingResult.Stack)
	redeemScript := stack[len(stack)-1]
	return redeemScript, stack[:len(stack)-1], nil
}

// DebugProgram runs the same protocol as EvaluateProgram while concatenating
// the per-phase debug traces.  Each phase contributes its label entry; a
// failed pay-to-script-hash prerequisite contributes a final error marker
// instead of a third phase.
func (vm *VM) DebugProgram(program *AuthenticationProgram) []TraceEntry {
	clone := vm.instructionSet.Clone

	unlockingState := NewProgramState(program.UnlockingScript, nil,
		program.Context)
	trace := vm.Debug(unlockingState, phaseUnlocking)
	unlockingResult := trace[len(trace)-1].State
	if unlockingResult.Err != nil {
		return trace
	}

	lockingState := NewProgramState(program.LockingScript,
		unlockingResult.Stack, program.Context)
	lockingTrace := vm.Debug(lockingState, phaseLocking)
	trace = append(trace, lockingTrace...)
	lockingResult := lockingTrace[len(lockingTrace)-1].State
	if lockingResult.Err != nil || !IsPayToScriptHash(program.LockingScript) {
		return trace
	}

	redeemScript, remainingStack, serr := extractRedeemScript(unlockingResult)
	if serr != nil {
		failed := clone(lockingResult)
		failed.Err = serr
		return append(trace, TraceEntry{
			Asm:         "[error]",
			Description: serr.Description,
			State:       failed,
		})
	}
	return append(trace, vm.Debug(NewProgramState(redeemScript,
		remainingStack, program.Context), phaseRedeem)...)
}

// ValidateState is the final validity predicate: a program is valid when its
// terminal state has no error and its stack holds exactly one truthy
// element.  It returns nil for valid states and a script Error otherwise.
func ValidateState(state *ProgramState) error {
	if state.Err != nil {
		return state.Err
	}
	if len(state.Stack) != 1 {
		str := fmt.Sprintf("terminal stack contains %d items instead "+
			"of 1", len(state.Stack))
		return scriptError(ErrCleanStack, str)
	}
	if !elementIsTruthy(state.Stack[0]) {
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}
