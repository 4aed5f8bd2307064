// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package vm implements the Bitcoin Cash script authentication virtual machine.

An evaluation decides whether a pair of unlocking and locking scripts,
together with the transaction context they authorize, leaves a single truthy
element on the stack.  The machine is organized around a dense operator
table: each opcode maps to an operator carrying the state transition executed
by the driver plus the two renderers debuggers use for disassembly.

The driver itself is generic over an InstructionSet, which supplies the
per-step bookkeeping (instruction pointer advance, operation counting), state
cloning for debug snapshots, and the termination predicate.  EvaluateProgram
runs the three-phase protocol - unlocking, locking, and the
pay-to-script-hash redeem script where the locking script has that shape -
handing the stack from phase to phase while every other piece of internal
state resets.

Cryptographic primitives are injected through the crypto package's provider
interfaces at construction time; the package performs no I/O and keeps no
global state, so evaluations of independent programs are safe to run
concurrently against a shared VM.

Errors are deliberately structural: every failure mode is an ErrorCode on the
terminal ProgramState, and no error escapes an evaluation as a panic.
*/
package vm
