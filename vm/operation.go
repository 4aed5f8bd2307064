// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"

	"github.com/bchsuite/bchvm/crypto"
)

// operation is a single state transition.  It mutates the passed state in
// place and returns it; a failed transition returns the state with Err set.
type operation func(*ProgramState) *ProgramState

// Operator describes one opcode: two renderers used only by debuggers and the
// transition executed by the machine.  Renderers may read the script at the
// instruction pointer, so push operators can include their payload.
type Operator struct {
	Asm         func(*ProgramState) string
	Description func(*ProgramState) string
	Operation   operation
}

// conditionallyEvaluate wraps a transition so it only runs on an executing
// branch.  Instructions on skipped branches still pass through the driver
// (the instruction pointer and operation count advance) but have no effect.
func conditionallyEvaluate(fn operation) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.isBranchExecuting() {
			return s
		}
		return fn(s)
	}
}

// fixedOperator builds the common operator shape: a constant mnemonic and
// description with a transition gated on the execution state.
func fixedOperator(op byte, desc string, fn operation) *Operator {
	name := OpcodeName(op)
	return &Operator{
		Asm:         func(*ProgramState) string { return name },
		Description: func(*ProgramState) string { return desc },
		Operation:   conditionallyEvaluate(fn),
	}
}

// alwaysOperator builds an operator whose transition runs even on skipped
// branches: the conditionals themselves, and the disabled opcodes which fail
// on sight.
func alwaysOperator(op byte, desc string, fn operation) *Operator {
	name := OpcodeName(op)
	return &Operator{
		Asm:         func(*ProgramState) string { return name },
		Description: func(*ProgramState) string { return desc },
		Operation:   fn,
	}
}

// opDisabled is the transition for every disabled opcode.  It is executed
// regardless of the execution state: a disabled opcode anywhere in the script
// fails the program.
func opDisabled(s *ProgramState) *ProgramState {
	str := fmt.Sprintf("attempt to execute disabled opcode %s",
		OpcodeName(s.Script[s.IP]))
	return s.fail(ErrDisabledOpcode, str)
}

// newOperatorTable assembles the dense opcode dispatch table for the
// BCH_2019May instruction set.  Entries left nil are unknown opcodes and fail
// at dispatch.  The crypto providers are captured by the signature-checking
// and hashing operators.
func newOperatorTable(providers crypto.Providers) *[256]*Operator {
	var t [256]*Operator

	// Push operators.
	t[Op0] = fixedOperator(Op0, "Push the empty element.", opPushEmpty)
	for length := 1; length <= 75; length++ {
		t[length] = pushBytesOperator(length)
	}
	t[OpPushData1] = pushDataOperator(OpPushData1, 1)
	t[OpPushData2] = pushDataOperator(OpPushData2, 2)
	t[OpPushData4] = pushDataOperator(OpPushData4, 4)
	t[Op1Negate] = pushNumberOperator(Op1Negate, -1)
	for op := Op1; op <= Op16; op++ {
		t[op] = pushNumberOperator(byte(op), int64(op-Op1+1))
	}

	// Control flow.
	t[OpNop] = fixedOperator(OpNop, "Do nothing.", opNop)
	t[OpIf] = alwaysOperator(OpIf, "Execute the following block when the top element is truthy.", opIf)
	t[OpNotIf] = alwaysOperator(OpNotIf, "Execute the following block when the top element is falsy.", opNotIf)
	t[OpElse] = alwaysOperator(OpElse, "Toggle the innermost conditional branch.", opElse)
	t[OpEndIf] = alwaysOperator(OpEndIf, "Close the innermost conditional block.", opEndIf)
	t[OpVerify] = fixedOperator(OpVerify, "Fail unless the top element is truthy.", opVerify)
	t[OpReturn] = fixedOperator(OpReturn, "Fail the script unconditionally.", opReturn)

	// Stack.
	t[OpToAltStack] = fixedOperator(OpToAltStack, "Move the top element to the alternate stack.", opToAltStack)
	t[OpFromAltStack] = fixedOperator(OpFromAltStack, "Move the top of the alternate stack back.", opFromAltStack)
	t[Op2Drop] = fixedOperator(Op2Drop, "Drop the top two elements.", opNDrop(2))
	t[Op2Dup] = fixedOperator(Op2Dup, "Duplicate the top two elements.", opNDup(2))
	t[Op3Dup] = fixedOperator(Op3Dup, "Duplicate the top three elements.", opNDup(3))
	t[Op2Over] = fixedOperator(Op2Over, "Copy the third and fourth elements to the top.", op2Over)
	t[Op2Rot] = fixedOperator(Op2Rot, "Rotate the fifth and sixth elements to the top.", op2Rot)
	t[Op2Swap] = fixedOperator(Op2Swap, "Swap the top two pairs of elements.", op2Swap)
	t[OpIfDup] = fixedOperator(OpIfDup, "Duplicate the top element when it is truthy.", opIfDup)
	t[OpDepth] = fixedOperator(OpDepth, "Push the stack depth.", opDepth)
	t[OpDrop] = fixedOperator(OpDrop, "Drop the top element.", opNDrop(1))
	t[OpDup] = fixedOperator(OpDup, "Duplicate the top element.", opNDup(1))
	t[OpNip] = fixedOperator(OpNip, "Remove the element below the top.", opNip)
	t[OpOver] = fixedOperator(OpOver, "Copy the second element to the top.", opOver)
	t[OpPick] = fixedOperator(OpPick, "Copy the n-th element to the top.", opPick)
	t[OpRoll] = fixedOperator(OpRoll, "Move the n-th element to the top.", opRoll)
	t[OpRot] = fixedOperator(OpRot, "Rotate the third element to the top.", opRot)
	t[OpSwap] = fixedOperator(OpSwap, "Swap the top two elements.", opSwap)
	t[OpTuck] = fixedOperator(OpTuck, "Copy the top element below the second.", opTuck)

	// Splice.
	t[OpCat] = fixedOperator(OpCat, "Concatenate the top two elements.", opCat)
	t[OpSplit] = fixedOperator(OpSplit, "Split the second element at the index given by the top.", opSplit)
	t[OpNum2Bin] = fixedOperator(OpNum2Bin, "Re-encode a number into a byte sequence of the given size.", opNum2Bin)
	t[OpBin2Num] = fixedOperator(OpBin2Num, "Re-encode a byte sequence as a minimal number.", opBin2Num)
	t[OpSize] = fixedOperator(OpSize, "Push the length of the top element.", opSize)

	// Bitwise logic.
	t[OpInvert] = alwaysOperator(OpInvert, "Disabled.", opDisabled)
	t[OpAnd] = fixedOperator(OpAnd, "Bitwise AND of two same-length elements.", opAnd)
	t[OpOr] = fixedOperator(OpOr, "Bitwise OR of two same-length elements.", opOr)
	t[OpXor] = fixedOperator(OpXor, "Bitwise XOR of two same-length elements.", opXor)
	t[OpEqual] = fixedOperator(OpEqual, "Push whether the top two elements are byte-wise equal.", opEqual)
	t[OpEqualVerify] = fixedOperator(OpEqualVerify, "Fail unless the top two elements are byte-wise equal.", opEqualVerify)

	// Arithmetic.
	t[Op1Add] = fixedOperator(Op1Add, "Increment the top number.", unaryNumOp(func(n ScriptNum) []byte { return (n + 1).Bytes() }))
	t[Op1Sub] = fixedOperator(Op1Sub, "Decrement the top number.", unaryNumOp(func(n ScriptNum) []byte { return (n - 1).Bytes() }))
	t[Op2Mul] = alwaysOperator(Op2Mul, "Disabled.", opDisabled)
	t[Op2Div] = alwaysOperator(Op2Div, "Disabled.", opDisabled)
	t[OpNegate] = fixedOperator(OpNegate, "Negate the top number.", unaryNumOp(func(n ScriptNum) []byte { return (-n).Bytes() }))
	t[OpAbs] = fixedOperator(OpAbs, "Push the absolute value of the top number.", unaryNumOp(func(n ScriptNum) []byte {
		if n < 0 {
			n = -n
		}
		return n.Bytes()
	}))
	t[OpNot] = fixedOperator(OpNot, "Push whether the top number is zero.", unaryNumOp(func(n ScriptNum) []byte { return fromBool(n == 0) }))
	t[Op0NotEqual] = fixedOperator(Op0NotEqual, "Push whether the top number is non-zero.", unaryNumOp(func(n ScriptNum) []byte { return fromBool(n != 0) }))
	t[OpAdd] = fixedOperator(OpAdd, "Add the top two numbers.", binaryNumOp(func(a, b ScriptNum) []byte { return (a + b).Bytes() }))
	t[OpSub] = fixedOperator(OpSub, "Subtract the top number from the second.", binaryNumOp(func(a, b ScriptNum) []byte { return (a - b).Bytes() }))
	t[OpMul] = alwaysOperator(OpMul, "Disabled.", opDisabled)
	t[OpDiv] = fixedOperator(OpDiv, "Divide the second number by the top.", opDiv)
	t[OpMod] = fixedOperator(OpMod, "Push the remainder of dividing the second number by the top.", opMod)
	t[OpLShift] = alwaysOperator(OpLShift, "Disabled.", opDisabled)
	t[OpRShift] = alwaysOperator(OpRShift, "Disabled.", opDisabled)
	t[OpBoolAnd] = fixedOperator(OpBoolAnd, "Push whether both of the top two numbers are non-zero.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a != 0 && b != 0) }))
	t[OpBoolOr] = fixedOperator(OpBoolOr, "Push whether either of the top two numbers is non-zero.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a != 0 || b != 0) }))
	t[OpNumEqual] = fixedOperator(OpNumEqual, "Push whether the top two numbers are equal.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a == b) }))
	t[OpNumEqualVerify] = fixedOperator(OpNumEqualVerify, "Fail unless the top two numbers are equal.", opNumEqualVerify)
	t[OpNumNotEqual] = fixedOperator(OpNumNotEqual, "Push whether the top two numbers differ.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a != b) }))
	t[OpLessThan] = fixedOperator(OpLessThan, "Push whether the second number is less than the top.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a < b) }))
	t[OpGreaterThan] = fixedOperator(OpGreaterThan, "Push whether the second number is greater than the top.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a > b) }))
	t[OpLessThanOrEqual] = fixedOperator(OpLessThanOrEqual, "Push whether the second number is at most the top.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a <= b) }))
	t[OpGreaterThanOrEqual] = fixedOperator(OpGreaterThanOrEqual, "Push whether the second number is at least the top.", binaryNumOp(func(a, b ScriptNum) []byte { return fromBool(a >= b) }))
	t[OpMin] = fixedOperator(OpMin, "Push the smaller of the top two numbers.", binaryNumOp(func(a, b ScriptNum) []byte {
		if b < a {
			a = b
		}
		return a.Bytes()
	}))
	t[OpMax] = fixedOperator(OpMax, "Push the larger of the top two numbers.", binaryNumOp(func(a, b ScriptNum) []byte {
		if b > a {
			a = b
		}
		return a.Bytes()
	}))
	t[OpWithin] = fixedOperator(OpWithin, "Push whether the third number is within [second, top).", opWithin)

	// Crypto.
	t[OpRipeMD160] = fixedOperator(OpRipeMD160, "Replace the top element with its RIPEMD-160 hash.", opHash(providers.Ripemd160.Hash))
	t[OpSha256] = fixedOperator(OpSha256, "Replace the top element with its SHA-256 hash.", opHash(providers.Sha256.Hash))
	t[OpHash160] = fixedOperator(OpHash160, "Replace the top element with the RIPEMD-160 hash of its SHA-256 hash.", opHash(func(b []byte) []byte {
		return providers.Ripemd160.Hash(providers.Sha256.Hash(b))
	}))
	t[OpHash256] = fixedOperator(OpHash256, "Replace the top element with its double-SHA-256 hash.", opHash(func(b []byte) []byte {
		return providers.Sha256.Hash(providers.Sha256.Hash(b))
	}))
	t[OpCodeSeparator] = fixedOperator(OpCodeSeparator, "Mark the position after which signatures commit to the script.", opCodeSeparator)
	t[OpCheckSig] = fixedOperator(OpCheckSig, "Verify a transaction signature against a public key.", opCheckSig(providers))
	t[OpCheckSigVerify] = fixedOperator(OpCheckSigVerify, "Fail unless a transaction signature verifies.", verifyOp(opCheckSig(providers), "OP_CHECKSIGVERIFY"))
	t[OpCheckMultiSig] = fixedOperator(OpCheckMultiSig, "Verify m of n transaction signatures.", opCheckMultiSig(providers))
	t[OpCheckMultiSigVerify] = fixedOperator(OpCheckMultiSigVerify, "Fail unless m of n transaction signatures verify.", verifyOp(opCheckMultiSig(providers), "OP_CHECKMULTISIGVERIFY"))
	t[OpCheckDataSig] = fixedOperator(OpCheckDataSig, "Verify a data signature against a message and public key.", opCheckDataSig(providers))
	t[OpCheckDataSigVerify] = fixedOperator(OpCheckDataSigVerify, "Fail unless a data signature verifies.", verifyOp(opCheckDataSig(providers), "OP_CHECKDATASIGVERIFY"))

	// Locktime.
	t[OpCheckLockTimeVerify] = fixedOperator(OpCheckLockTimeVerify, "Fail when the transaction locktime is below the top number.", opCheckLockTimeVerify)
	t[OpCheckSequenceVerify] = fixedOperator(OpCheckSequenceVerify, "Fail when the input sequence does not satisfy the top number.", opCheckSequenceVerify)

	// Upgradable no-ops.
	t[OpNop1] = fixedOperator(OpNop1, "Do nothing.", opNop)
	for op := OpNop4; op <= OpNop10; op++ {
		t[op] = fixedOperator(byte(op), "Do nothing.", opNop)
	}

	return &t
}
