// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"testing"

	"github.com/bchsuite/bchvm/crypto"
)

// testContext returns a transaction context with zeroed commitment digests,
// sufficient for every operation that does not verify a real signature.
func testContext() *TransactionContext {
	return &TransactionContext{
		Version:                        2,
		TransactionOutpointsHash:       make([]byte, 32),
		TransactionSequenceNumbersHash: make([]byte, 32),
		OutpointTransactionHash:        make([]byte, 32),
		CorrespondingOutputHash:        make([]byte, 32),
		TransactionOutputsHash:         make([]byte, 32),
		SequenceNumber:                 0xfffffffe,
	}
}

// testVM returns a driver over the default providers.
func testVM() *VM {
	return NewBCHVM(crypto.DefaultProviders())
}

// evalScript runs a single script over the passed initial stack and returns
// the terminal state.
func evalScript(script []byte, stack [][]byte) *ProgramState {
	return testVM().Evaluate(NewProgramState(script, stack, testContext()))
}

// assertStack fails the test unless the terminal state has no error and its
// stack equals want element-wise.
func assertStack(t *testing.T, state *ProgramState, want [][]byte) {
	t.Helper()
	if state.Err != nil {
		t.Fatalf("unexpected error: %v (%v)", state.Err.ErrorCode,
			state.Err)
	}
	if len(state.Stack) != len(want) {
		t.Fatalf("stack depth mismatch - got %d, want %d",
			len(state.Stack), len(want))
	}
	for i := range want {
		if !bytes.Equal(state.Stack[i], want[i]) {
			t.Fatalf("stack entry %d mismatch - got %x, want %x",
				i, state.Stack[i], want[i])
		}
	}
}

// assertErrorCode fails the test unless the terminal state carries the
// passed error code.
func assertErrorCode(t *testing.T, state *ProgramState, code ErrorCode) {
	t.Helper()
	if state.Err == nil {
		t.Fatalf("expected error code %v, got success with stack %x",
			code, state.Stack)
	}
	if state.Err.ErrorCode != code {
		t.Fatalf("expected error code %v, got %v (%v)", code,
			state.Err.ErrorCode, state.Err)
	}
}
