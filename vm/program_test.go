// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm_test

import (
	"bytes"
	"testing"

	"github.com/bchsuite/bchvm/crypto"
	"github.com/bchsuite/bchvm/vm"
	"github.com/davecgh/go-spew/spew"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

var providers = crypto.DefaultProviders()

// newContext returns a context with fixed, distinguishable commitment
// digests.
func newContext() *vm.TransactionContext {
	return &vm.TransactionContext{
		Version:                        2,
		TransactionOutpointsHash:       bytes.Repeat([]byte{0x11}, 32),
		TransactionSequenceNumbersHash: bytes.Repeat([]byte{0x22}, 32),
		OutpointTransactionHash:        bytes.Repeat([]byte{0x33}, 32),
		CorrespondingOutputHash:        bytes.Repeat([]byte{0x44}, 32),
		TransactionOutputsHash:         bytes.Repeat([]byte{0x55}, 32),
		OutpointIndex:                  1,
		OutpointValue:                  100000000,
		SequenceNumber:                 0xfffffffe,
		Locktime:                       0,
	}
}

// signFor produces a Bitcoin-encoded transaction signature (DER plus hash
// type byte) for the passed script code and context.
func signFor(t *testing.T, privKey *secp256k1.PrivateKey, ctx *vm.TransactionContext,
	scriptCode []byte, hashType vm.SigHashType) []byte {

	t.Helper()
	digest := vm.CalcSignatureHash(providers.Sha256, ctx, scriptCode, hashType)
	sig := secpecdsa.Sign(privKey, digest)
	return append(sig.Serialize(), byte(hashType))
}

// genKey generates a fresh keypair and returns the private key with the
// compressed public key encoding.
func genKey(t *testing.T) (*secp256k1.PrivateKey, []byte) {
	t.Helper()
	privKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return privKey, privKey.PubKey().SerializeCompressed()
}

// pushData returns the minimal push encoding of the passed payload.
func pushData(data []byte) []byte {
	switch {
	case len(data) == 0:
		return []byte{vm.Op0}
	case len(data) == 1 && data[0] >= 1 && data[0] <= 16:
		return []byte{vm.Op1 + data[0] - 1}
	case len(data) == 1 && data[0] == 0x81:
		return []byte{vm.Op1Negate}
	case len(data) <= 75:
		return append([]byte{byte(len(data))}, data...)
	case len(data) <= 255:
		return append([]byte{vm.OpPushData1, byte(len(data))}, data...)
	default:
		return append([]byte{vm.OpPushData2, byte(len(data)),
			byte(len(data) >> 8)}, data...)
	}
}

// p2pkhLocking builds the canonical pay-to-pubkey-hash locking script for
// the passed public key.
func p2pkhLocking(pubKey []byte) []byte {
	pubKeyHash := providers.Ripemd160.Hash(providers.Sha256.Hash(pubKey))
	script := []byte{vm.OpDup, vm.OpHash160}
	script = append(script, pushData(pubKeyHash)...)
	return append(script, vm.OpEqualVerify, vm.OpCheckSig)
}

// p2shLocking builds the pay-to-script-hash locking script committing to the
// passed redeem script.
func p2shLocking(redeemScript []byte) []byte {
	redeemHash := providers.Ripemd160.Hash(providers.Sha256.Hash(redeemScript))
	script := []byte{vm.OpHash160}
	script = append(script, pushData(redeemHash)...)
	return append(script, vm.OpEqual)
}

// TestSingleSigSuccess evaluates a pay-to-pubkey-hash spend with a valid
// signature.
func TestSingleSigSuccess(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	privKey, pubKey := genKey(t)
	locking := p2pkhLocking(pubKey)
	sig := signFor(t, privKey, ctx, locking, vm.SigHashAll|vm.SigHashForkID)
	unlocking := append(pushData(sig), pushData(pubKey)...)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))

	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("expected valid program, got %v\n%s", err,
			spew.Sdump(terminal))
	}
	if len(terminal.Stack) != 1 || !bytes.Equal(terminal.Stack[0], []byte{0x01}) {
		t.Fatalf("terminal stack = %x, want [01]", terminal.Stack)
	}
	if terminal.OperationCount != 5 {
		t.Fatalf("operation count = %d, want 5", terminal.OperationCount)
	}
}

// TestSingleSigWrongSignature evaluates the same spend with a signature over
// a different digest: the program must be invalid with no error code, since
// OP_CHECKSIG simply pushes false.
func TestSingleSigWrongSignature(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	privKey, pubKey := genKey(t)
	locking := p2pkhLocking(pubKey)

	otherCtx := newContext()
	otherCtx.OutpointValue++
	sig := signFor(t, privKey, otherCtx, locking, vm.SigHashAll|vm.SigHashForkID)
	unlocking := append(pushData(sig), pushData(pubKey)...)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))

	if terminal.Err != nil {
		t.Fatalf("unexpected error: %v", terminal.Err)
	}
	if len(terminal.Stack) != 1 || len(terminal.Stack[0]) != 0 {
		t.Fatalf("terminal stack = %x, want one empty element",
			terminal.Stack)
	}
	if err := vm.ValidateState(terminal); !vm.IsErrorCode(err, vm.ErrEvalFalse) {
		t.Fatalf("expected ErrEvalFalse, got %v", err)
	}
}

// TestP2SHMultisig evaluates a 2-of-3 multisig wrapped in
// pay-to-script-hash: three phases, terminal stack [01].
func TestP2SHMultisig(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	priv1, pub1 := genKey(t)
	priv2, pub2 := genKey(t)
	_, pub3 := genKey(t)

	redeem := []byte{vm.Op2}
	redeem = append(redeem, pushData(pub1)...)
	redeem = append(redeem, pushData(pub2)...)
	redeem = append(redeem, pushData(pub3)...)
	redeem = append(redeem, vm.Op3, vm.OpCheckMultiSig)

	locking := p2shLocking(redeem)

	sig1 := signFor(t, priv1, ctx, redeem, vm.SigHashAll|vm.SigHashForkID)
	sig2 := signFor(t, priv2, ctx, redeem, vm.SigHashAll|vm.SigHashForkID)

	unlocking := []byte{vm.Op0}
	unlocking = append(unlocking, pushData(sig1)...)
	unlocking = append(unlocking, pushData(sig2)...)
	unlocking = append(unlocking, pushData(redeem)...)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))

	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("expected valid program, got %v\n%s", err,
			spew.Sdump(terminal))
	}
	if !bytes.Equal(terminal.Stack[0], []byte{0x01}) {
		t.Fatalf("terminal stack = %x, want [01]", terminal.Stack)
	}
}

// TestP2SHNonPushOnlyUnlocking ensures a non-push unlocking script fails the
// pay-to-script-hash prerequisites after the locking phase succeeds.
func TestP2SHNonPushOnlyUnlocking(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	redeem := []byte{vm.Op1}
	locking := p2shLocking(redeem)

	unlocking := []byte{vm.Op1, vm.OpDup, vm.OpDrop}
	unlocking = append(unlocking, pushData(redeem)...)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if terminal.Err == nil || terminal.Err.ErrorCode != vm.ErrP2SHPushOnly {
		t.Fatalf("expected ErrP2SHPushOnly, got %v", terminal.Err)
	}
}

// TestP2SHEmptyUnlockingStack ensures an empty unlocking stack fails a
// pay-to-script-hash program: the locking phase's OP_HASH160 underflows
// before the redeem-script extraction is reached.
func TestP2SHEmptyUnlockingStack(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	redeem := []byte{vm.Op1}
	redeemHash := providers.Ripemd160.Hash(providers.Sha256.Hash(redeem))

	// A locking script that hashes its missing input still needs the
	// p2sh shape; use an unlocking script that pushes and drops
	// everything so its terminal stack is empty.
	locking := p2shLocking(redeem)
	unlocking := append(pushData(redeem), vm.OpDrop)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))

	// The locking phase underflows before the p2sh checks run.
	if terminal.Err == nil {
		t.Fatalf("expected an error, got success with stack %x; "+
			"redeem hash %x", terminal.Stack, redeemHash)
	}
}

// TestMultisigProtocolBugValue ensures a non-empty dummy element fails with
// ErrInvalidProtocolBugValue.
func TestMultisigProtocolBugValue(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	_, pubKey := genKey(t)

	locking := []byte{vm.Op1}
	locking = append(locking, pushData(pubKey)...)
	locking = append(locking, vm.Op1, vm.OpCheckMultiSig)

	// The dummy is OP_1 instead of OP_0; the signature is never examined.
	fakeSig := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01, 0x41}
	unlocking := []byte{vm.Op1}
	unlocking = append(unlocking, pushData(fakeSig)...)

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if terminal.Err == nil || terminal.Err.ErrorCode != vm.ErrInvalidProtocolBugValue {
		t.Fatalf("expected ErrInvalidProtocolBugValue, got %v",
			terminal.Err)
	}
}

// TestMultisigZeroOfN ensures m = 0 succeeds with no signatures.
func TestMultisigZeroOfN(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	_, pubKey := genKey(t)

	locking := []byte{vm.Op0}
	locking = append(locking, pushData(pubKey)...)
	locking = append(locking, vm.Op1, vm.OpCheckMultiSig)
	unlocking := []byte{vm.Op0}

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("expected valid program, got %v", err)
	}
}

// TestStackHandOff ensures the locking phase starts from the unlocking
// phase's exact terminal stack.
func TestStackHandOff(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	unlocking := []byte{vm.Op1, vm.Op2, vm.Op3}
	locking := []byte{vm.OpDepth, vm.Op3, vm.OpNumEqualVerify, vm.Op3,
		vm.OpNumEqualVerify, vm.Op2, vm.OpNumEqualVerify, vm.Op1,
		vm.OpNumEqual}

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("stack was not handed off intact: %v\n%s", err,
			spew.Sdump(terminal))
	}
}

// TestPhaseStateResets ensures the phase-internal counters reset between
// phases while the stack carries over.
func TestPhaseStateResets(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	unlocking := []byte{vm.Op1, vm.Op1, vm.Op1, vm.OpDrop, vm.OpDrop}
	locking := []byte{vm.OpNop}

	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if terminal.Err != nil {
		t.Fatalf("unexpected error: %v", terminal.Err)
	}
	if terminal.OperationCount != 1 {
		t.Fatalf("locking phase operation count = %d, want 1",
			terminal.OperationCount)
	}
	if !bytes.Equal(terminal.Operations, []byte{vm.OpNop}) {
		t.Fatalf("locking phase operations = %x, want [OP_NOP]",
			terminal.Operations)
	}
}

// TestUnlockingErrorIsTerminal ensures an unlocking failure short-circuits
// the pipeline.
func TestUnlockingErrorIsTerminal(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	machine := vm.NewBCHVM(providers)
	terminal := machine.EvaluateProgram(vm.NewProgram([]byte{vm.OpDup},
		[]byte{vm.Op1}, ctx))
	if terminal.Err == nil || terminal.Err.ErrorCode != vm.ErrEmptyStack {
		t.Fatalf("expected ErrEmptyStack from the unlocking phase, "+
			"got %v", terminal.Err)
	}
}

// TestIsPayToScriptHash checks the shape predicate on byte patterns.
func TestIsPayToScriptHash(t *testing.T) {
	t.Parallel()

	hash := bytes.Repeat([]byte{0xaa}, 20)
	p2sh := append(append([]byte{vm.OpHash160, vm.OpData20}, hash...), vm.OpEqual)
	if !vm.IsPayToScriptHash(p2sh) {
		t.Fatal("canonical p2sh shape not detected")
	}

	notP2SH := [][]byte{
		nil,
		p2sh[:22],
		append(append([]byte{vm.OpHash160, vm.OpData20}, hash...), vm.OpEqualVerify),
		append(append([]byte{vm.OpHash256, vm.OpData20}, hash...), vm.OpEqual),
		append(p2sh, vm.OpNop),
	}
	for i, script := range notP2SH {
		if vm.IsPayToScriptHash(script) {
			t.Errorf("script %d wrongly detected as p2sh", i)
		}
	}
}

// TestValidateState covers the final validity predicate directly.
func TestValidateState(t *testing.T) {
	t.Parallel()

	machine := vm.NewBCHVM(providers)
	ctx := newContext()

	// Two leftover elements fail clean-stack.
	terminal := machine.EvaluateProgram(vm.NewProgram([]byte{vm.Op1, vm.Op1},
		[]byte{vm.OpNop}, ctx))
	if err := vm.ValidateState(terminal); !vm.IsErrorCode(err, vm.ErrCleanStack) {
		t.Fatalf("expected ErrCleanStack, got %v", err)
	}

	// An empty stack fails clean-stack as well.
	terminal = machine.EvaluateProgram(vm.NewProgram([]byte{},
		[]byte{vm.Op1, vm.OpDrop}, ctx))
	if err := vm.ValidateState(terminal); !vm.IsErrorCode(err, vm.ErrCleanStack) {
		t.Fatalf("expected ErrCleanStack, got %v", err)
	}

	// Negative zero is falsy.
	terminal = machine.EvaluateProgram(vm.NewProgram([]byte{},
		append([]byte{vm.OpData2}, 0x00, 0x80), ctx))
	if err := vm.ValidateState(terminal); !vm.IsErrorCode(err, vm.ErrEvalFalse) {
		t.Fatalf("expected ErrEvalFalse for negative zero, got %v", err)
	}

	// A leading 0x80 is ordinary payload, so the element is truthy.
	terminal = machine.EvaluateProgram(vm.NewProgram([]byte{},
		append([]byte{vm.OpData2}, 0x80, 0x00), ctx))
	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("expected valid program for element 8000, got %v", err)
	}
}

// TestDebugProgramPhases ensures the debug pipeline labels each phase and
// ends on the terminal state.
func TestDebugProgramPhases(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	redeem := []byte{vm.Op1}
	locking := p2shLocking(redeem)
	unlocking := pushData(redeem)

	machine := vm.NewBCHVM(providers)
	trace := machine.DebugProgram(vm.NewProgram(unlocking, locking, ctx))

	labels := 0
	for _, entry := range trace {
		switch entry.Asm {
		case "unlocking script", "locking script", "redeem script":
			labels++
		}
	}
	if labels != 3 {
		t.Fatalf("expected 3 phase labels, got %d", labels)
	}

	terminal := trace[len(trace)-1].State
	if err := vm.ValidateState(terminal); err != nil {
		t.Fatalf("debug terminal state invalid: %v", err)
	}

	evaluated := machine.EvaluateProgram(vm.NewProgram(unlocking, locking, ctx))
	if !bytes.Equal(evaluated.Stack[0], terminal.Stack[0]) {
		t.Fatalf("debug and evaluate disagree: %x vs %x",
			evaluated.Stack[0], terminal.Stack[0])
	}
}

// TestDebugProgramP2SHFailureMarker ensures a failed p2sh prerequisite adds
// an error marker entry instead of a third phase.
func TestDebugProgramP2SHFailureMarker(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	redeem := []byte{vm.Op1}
	locking := p2shLocking(redeem)
	unlocking := append([]byte{vm.Op1, vm.OpDrop}, pushData(redeem)...)
	unlocking = append(unlocking, vm.OpDup, vm.OpDrop)

	machine := vm.NewBCHVM(providers)
	trace := machine.DebugProgram(vm.NewProgram(unlocking, locking, ctx))

	last := trace[len(trace)-1]
	if last.Asm != "[error]" {
		t.Fatalf("expected error marker entry, got %q", last.Asm)
	}
	if last.State.Err == nil || last.State.Err.ErrorCode != vm.ErrP2SHPushOnly {
		t.Fatalf("expected ErrP2SHPushOnly, got %v", last.State.Err)
	}
}
