// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "fmt"

const (
	// lockTimeThreshold is the number below which a locktime is
	// interpreted as a block height rather than a timestamp.
	lockTimeThreshold = 500000000

	// sequenceLockTimeDisabled is the flag that deactivates the relative
	// locktime meaning of a sequence number.
	sequenceLockTimeDisabled = 1 << 31

	// sequenceLockTimeIsSeconds is the flag that switches a relative
	// locktime from blocks to units of 512 seconds.
	sequenceLockTimeIsSeconds = 1 << 22

	// sequenceLockTimeMask extracts the relative locktime value from a
	// sequence number.
	sequenceLockTimeMask = 0x0000ffff
)

// opNop implements OP_NOP and the upgradable no-ops.
func opNop(s *ProgramState) *ProgramState {
	return s
}

// opIf implements OP_IF.  On an executing branch it consumes the top element
// and opens a block executed when that element is truthy.  On a skipped
// branch it opens a nested skipped block without touching the stack.
func opIf(s *ProgramState) *ProgramState {
	condVal := opCondFalse
	if s.isBranchExecuting() {
		truthy, ok := s.popBool()
		if !ok {
			return s
		}
		if truthy {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	s.ExecutionStack = append(s.ExecutionStack, condVal)
	return s
}

// opNotIf implements OP_NOTIF with the inverse condition of OP_IF.
func opNotIf(s *ProgramState) *ProgramState {
	condVal := opCondFalse
	if s.isBranchExecuting() {
		truthy, ok := s.popBool()
		if !ok {
			return s
		}
		if !truthy {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	s.ExecutionStack = append(s.ExecutionStack, condVal)
	return s
}

// opElse implements OP_ELSE by toggling the innermost conditional branch.
// Blocks nested inside a skipped branch stay skipped.
func opElse(s *ProgramState) *ProgramState {
	if len(s.ExecutionStack) == 0 {
		return s.fail(ErrUnbalancedConditional,
			"encountered OP_ELSE with no matching OP_IF")
	}
	switch last := len(s.ExecutionStack) - 1; s.ExecutionStack[last] {
	case opCondTrue:
		s.ExecutionStack[last] = opCondFalse
	case opCondFalse:
		s.ExecutionStack[last] = opCondTrue
	}
	return s
}

// opEndIf implements OP_ENDIF by closing the innermost conditional block.
func opEndIf(s *ProgramState) *ProgramState {
	if len(s.ExecutionStack) == 0 {
		return s.fail(ErrUnbalancedConditional,
			"encountered OP_ENDIF with no matching OP_IF")
	}
	s.ExecutionStack = s.ExecutionStack[:len(s.ExecutionStack)-1]
	return s
}

// opVerify implements OP_VERIFY: consume the top element and fail unless it
// is truthy.
func opVerify(s *ProgramState) *ProgramState {
	truthy, ok := s.popBool()
	if !ok {
		return s
	}
	if !truthy {
		return s.fail(ErrVerifyFailed, "OP_VERIFY failed")
	}
	return s
}

// verifyOp composes an operation with OP_VERIFY semantics: run the wrapped
// transition, then consume its boolean result and fail when it is falsy.
func verifyOp(fn operation, name string) operation {
	return func(s *ProgramState) *ProgramState {
		s = fn(s)
		if s.Err != nil {
			return s
		}
		truthy, ok := s.popBool()
		if !ok {
			return s
		}
		if !truthy {
			return s.fail(ErrVerifyFailed, name+" failed")
		}
		return s
	}
}

// opReturn implements OP_RETURN, which fails the script unconditionally.
func opReturn(s *ProgramState) *ProgramState {
	return s.fail(ErrEarlyReturn, "script returned early")
}

// opCheckLockTimeVerify implements OP_CHECKLOCKTIMEVERIFY.  The operand is
// read without being consumed, matching the upgrade path from OP_NOP2.
func opCheckLockTimeVerify(s *ProgramState) *ProgramState {
	data, ok := s.peek(0)
	if !ok {
		return s
	}
	n, serr := MakeScriptNum(data, locktimeNumLen)
	if serr != nil {
		s.Err = serr
		return s
	}
	if n < 0 {
		str := fmt.Sprintf("negative lock time: %d", n)
		return s.fail(ErrNegativeLocktime, str)
	}

	lockTime := int64(s.Context.Locktime)
	operand := int64(n)

	// A height cannot be compared against a timestamp.
	if (operand < lockTimeThreshold) != (lockTime < lockTimeThreshold) {
		str := fmt.Sprintf("mismatched locktime types -- operand "+
			"%d, transaction locktime %d", operand, lockTime)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}
	if operand > lockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", operand, lockTime)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}

	// A finalized input can no longer be constrained.
	if s.Context.SequenceNumber == 0xffffffff {
		return s.fail(ErrUnsatisfiedLocktime,
			"transaction input is finalized")
	}
	return s
}

// opCheckSequenceVerify implements OP_CHECKSEQUENCEVERIFY against the
// context's input sequence number.
func opCheckSequenceVerify(s *ProgramState) *ProgramState {
	data, ok := s.peek(0)
	if !ok {
		return s
	}
	n, serr := MakeScriptNum(data, locktimeNumLen)
	if serr != nil {
		s.Err = serr
		return s
	}
	if n < 0 {
		str := fmt.Sprintf("negative sequence: %d", n)
		return s.fail(ErrNegativeLocktime, str)
	}

	operand := int64(n)

	// An operand with the disable flag set behaves as a no-op.
	if operand&sequenceLockTimeDisabled != 0 {
		return s
	}

	// Relative locktimes require the second transaction format.
	if s.Context.Version < 2 {
		str := fmt.Sprintf("invalid transaction version: %d",
			s.Context.Version)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}
	sequence := int64(s.Context.SequenceNumber)
	if sequence&sequenceLockTimeDisabled != 0 {
		str := fmt.Sprintf("transaction sequence has the disable "+
			"flag set: 0x%x", sequence)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}

	lockTimeMask := int64(sequenceLockTimeIsSeconds | sequenceLockTimeMask)
	maskedOperand := operand & lockTimeMask
	maskedSequence := sequence & lockTimeMask
	if (maskedOperand < sequenceLockTimeIsSeconds) !=
		(maskedSequence < sequenceLockTimeIsSeconds) {
		str := fmt.Sprintf("mismatched sequence types -- operand "+
			"0x%x, transaction sequence 0x%x", maskedOperand,
			maskedSequence)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}
	if maskedOperand&sequenceLockTimeMask > maskedSequence&sequenceLockTimeMask {
		str := fmt.Sprintf("sequence requirement not satisfied -- "+
			"0x%x > 0x%x", maskedOperand, maskedSequence)
		return s.fail(ErrUnsatisfiedLocktime, str)
	}
	return s
}
