// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "strings"

// DisasmScript returns the disassembly of the passed script, one instruction
// per line, using the operator table's mnemonic renderers.  Disassembly is
// static: no operation is executed and no stack is involved.  A malformed
// trailing push is rendered with its marker and ends the disassembly without
// an error, matching what a debugger would display.
func (vm *VM) DisasmScript(script []byte) string {
	// Rendering borrows a throwaway state so the push renderers can read
	// their payload at the instruction pointer.
	state := &ProgramState{Script: script}

	var lines []string
	for ip := 0; ip < len(script); ip++ {
		opcode := script[ip]
		operator := vm.instructionSet.Operators[opcode]

		state.IP = ip
		if operator == nil {
			lines = append(lines, unknownOpcodeName(opcode))
			continue
		}
		lines = append(lines, operator.Asm(state))

		// Skip inline push payloads.
		if opcode >= OpData1 && opcode <= OpPushData4 {
			_, last, err := readPush(script, ip)
			if err != nil {
				break
			}
			ip = last
		}
	}
	return strings.Join(lines, "\n")
}
