// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bchsuite/bchvm/crypto"
	"github.com/bchsuite/bchvm/util/panics"
	"github.com/bchsuite/bchvm/vm"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	machine := vm.NewBCHVM(crypto.DefaultProviders())

	if cfg.Disasm != "" {
		script, err := hex.DecodeString(cfg.Disasm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid script hex: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(machine.DisasmScript(script))
		return
	}

	program, err := buildProgram(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	trace := machine.DebugProgram(program)
	if !cfg.Quiet {
		printTrace(trace)
	}

	terminal := trace[len(trace)-1].State
	if err := vm.ValidateState(terminal); err != nil {
		log.Infof("Program is invalid: %s", err)
		fmt.Printf("invalid: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("valid")
}

func buildProgram(cfg *config) (*vm.AuthenticationProgram, error) {
	unlocking, err := hex.DecodeString(cfg.Unlocking)
	if err != nil {
		return nil, errors.Wrap(err, "invalid unlocking script hex")
	}
	locking, err := hex.DecodeString(cfg.Locking)
	if err != nil {
		return nil, errors.Wrap(err, "invalid locking script hex")
	}

	// The debugger evaluates scripts outside a real transaction, so the
	// commitment digests default to zero.  Signature operations still run
	// and report verification failure rather than erroring.
	ctx := &vm.TransactionContext{
		Version:                 cfg.Version,
		OutpointTransactionHash: make([]byte, 32),
		OutpointIndex:           cfg.Index,
		OutpointValue:           cfg.Value,
		SequenceNumber:          cfg.Sequence,
		Locktime:                cfg.Locktime,
	}
	return vm.NewProgram(unlocking, locking, ctx), nil
}

func printTrace(trace []vm.TraceEntry) {
	for _, entry := range trace {
		fmt.Printf("%-40s stack: %s\n", entry.Asm, renderStack(entry.State))
	}
}

func renderStack(state *vm.ProgramState) string {
	if len(state.Stack) == 0 {
		return "(empty)"
	}
	out := ""
	for i, entry := range state.Stack {
		if i > 0 {
			out += " "
		}
		if len(entry) == 0 {
			out += "<>"
		} else {
			out += fmt.Sprintf("<%x>", entry)
		}
	}
	return out
}
