// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

// An opcode is a single byte of a script.  Bytes in [OpData1, OpData75]
// double as push lengths: the opcode value is the number of immediate payload
// bytes that follow it.
const (
	Op0         = 0x00 // 0
	OpFalse     = 0x00 // 0 - AKA Op0
	OpData1     = 0x01 // 1
	OpData2     = 0x02 // 2
	OpData3     = 0x03 // 3
	OpData4     = 0x04 // 4
	OpData5     = 0x05 // 5
	OpData6     = 0x06 // 6
	OpData7     = 0x07 // 7
	OpData8     = 0x08 // 8
	OpData9     = 0x09 // 9
	OpData10    = 0x0a // 10
	OpData11    = 0x0b // 11
	OpData12    = 0x0c // 12
	OpData13    = 0x0d // 13
	OpData14    = 0x0e // 14
	OpData15    = 0x0f // 15
	OpData16    = 0x10 // 16
	OpData17    = 0x11 // 17
	OpData18    = 0x12 // 18
	OpData19    = 0x13 // 19
	OpData20    = 0x14 // 20
	OpData21    = 0x15 // 21
	OpData22    = 0x16 // 22
	OpData23    = 0x17 // 23
	OpData24    = 0x18 // 24
	OpData25    = 0x19 // 25
	OpData26    = 0x1a // 26
	OpData27    = 0x1b // 27
	OpData28    = 0x1c // 28
	OpData29    = 0x1d // 29
	OpData30    = 0x1e // 30
	OpData31    = 0x1f // 31
	OpData32    = 0x20 // 32
	OpData33    = 0x21 // 33
	OpData34    = 0x22 // 34
	OpData35    = 0x23 // 35
	OpData36    = 0x24 // 36
	OpData37    = 0x25 // 37
	OpData38    = 0x26 // 38
	OpData39    = 0x27 // 39
	OpData40    = 0x28 // 40
	OpData41    = 0x29 // 41
	OpData42    = 0x2a // 42
	OpData43    = 0x2b // 43
	OpData44    = 0x2c // 44
	OpData45    = 0x2d // 45
	OpData46    = 0x2e // 46
	OpData47    = 0x2f // 47
	OpData48    = 0x30 // 48
	OpData49    = 0x31 // 49
	OpData50    = 0x32 // 50
	OpData51    = 0x33 // 51
	OpData52    = 0x34 // 52
	OpData53    = 0x35 // 53
	OpData54    = 0x36 // 54
	OpData55    = 0x37 // 55
	OpData56    = 0x38 // 56
	OpData57    = 0x39 // 57
	OpData58    = 0x3a // 58
	OpData59    = 0x3b // 59
	OpData60    = 0x3c // 60
	OpData61    = 0x3d // 61
	OpData62    = 0x3e // 62
	OpData63    = 0x3f // 63
	OpData64    = 0x40 // 64
	OpData65    = 0x41 // 65
	OpData66    = 0x42 // 66
	OpData67    = 0x43 // 67
	OpData68    = 0x44 // 68
	OpData69    = 0x45 // 69
	OpData70    = 0x46 // 70
	OpData71    = 0x47 // 71
	OpData72    = 0x48 // 72
	OpData73    = 0x49 // 73
	OpData74    = 0x4a // 74
	OpData75    = 0x4b // 75
	OpPushData1 = 0x4c // 76
	OpPushData2 = 0x4d // 77
	OpPushData4 = 0x4e // 78
	Op1Negate   = 0x4f // 79
	OpReserved  = 0x50 // 80
	Op1         = 0x51 // 81 - AKA OpTrue
	OpTrue      = 0x51 // 81
	Op2         = 0x52 // 82
	Op3         = 0x53 // 83
	Op4         = 0x54 // 84
	Op5         = 0x55 // 85
	Op6         = 0x56 // 86
	Op7         = 0x57 // 87
	Op8         = 0x58 // 88
	Op9         = 0x59 // 89
	Op10        = 0x5a // 90
	Op11        = 0x5b // 91
	Op12        = 0x5c // 92
	Op13        = 0x5d // 93
	Op14        = 0x5e // 94
	Op15        = 0x5f // 95
	Op16        = 0x60 // 96

	OpNop      = 0x61 // 97
	OpVer      = 0x62 // 98
	OpIf       = 0x63 // 99
	OpNotIf    = 0x64 // 100
	OpVerIf    = 0x65 // 101
	OpVerNotIf = 0x66 // 102
	OpElse     = 0x67 // 103
	OpEndIf    = 0x68 // 104
	OpVerify   = 0x69 // 105
	OpReturn   = 0x6a // 106

	OpToAltStack   = 0x6b // 107
	OpFromAltStack = 0x6c // 108
	Op2Drop        = 0x6d // 109
	Op2Dup         = 0x6e // 110
	Op3Dup         = 0x6f // 111
	Op2Over        = 0x70 // 112
	Op2Rot         = 0x71 // 113
	Op2Swap        = 0x72 // 114
	OpIfDup        = 0x73 // 115
	OpDepth        = 0x74 // 116
	OpDrop         = 0x75 // 117
	OpDup          = 0x76 // 118
	OpNip          = 0x77 // 119
	OpOver         = 0x78 // 120
	OpPick         = 0x79 // 121
	OpRoll         = 0x7a // 122
	OpRot          = 0x7b // 123
	OpSwap         = 0x7c // 124
	OpTuck         = 0x7d // 125

	OpCat     = 0x7e // 126
	OpSplit   = 0x7f // 127
	OpNum2Bin = 0x80 // 128
	OpBin2Num = 0x81 // 129
	OpSize    = 0x82 // 130

	OpInvert      = 0x83 // 131 - disabled
	OpAnd         = 0x84 // 132
	OpOr          = 0x85 // 133
	OpXor         = 0x86 // 134
	OpEqual       = 0x87 // 135
	OpEqualVerify = 0x88 // 136
	OpReserved1   = 0x89 // 137
	OpReserved2   = 0x8a // 138

	Op1Add      = 0x8b // 139
	Op1Sub      = 0x8c // 140
	Op2Mul      = 0x8d // 141 - disabled
	Op2Div      = 0x8e // 142 - disabled
	OpNegate    = 0x8f // 143
	OpAbs       = 0x90 // 144
	OpNot       = 0x91 // 145
	Op0NotEqual = 0x92 // 146

	OpAdd    = 0x93 // 147
	OpSub    = 0x94 // 148
	OpMul    = 0x95 // 149 - disabled
	OpDiv    = 0x96 // 150
	OpMod    = 0x97 // 151
	OpLShift = 0x98 // 152 - disabled
	OpRShift = 0x99 // 153 - disabled

	OpBoolAnd            = 0x9a // 154
	OpBoolOr             = 0x9b // 155
	OpNumEqual           = 0x9c // 156
	OpNumEqualVerify     = 0x9d // 157
	OpNumNotEqual        = 0x9e // 158
	OpLessThan           = 0x9f // 159
	OpGreaterThan        = 0xa0 // 160
	OpLessThanOrEqual    = 0xa1 // 161
	OpGreaterThanOrEqual = 0xa2 // 162
	OpMin                = 0xa3 // 163
	OpMax                = 0xa4 // 164
	OpWithin             = 0xa5 // 165

	OpRipeMD160           = 0xa6 // 166
	OpSha1                = 0xa7 // 167 - no provider, unassigned here
	OpSha256              = 0xa8 // 168
	OpHash160             = 0xa9 // 169
	OpHash256             = 0xaa // 170
	OpCodeSeparator       = 0xab // 171
	OpCheckSig            = 0xac // 172
	OpCheckSigVerify      = 0xad // 173
	OpCheckMultiSig       = 0xae // 174
	OpCheckMultiSigVerify = 0xaf // 175

	OpNop1                = 0xb0 // 176
	OpCheckLockTimeVerify = 0xb1 // 177 - AKA OpNop2
	OpCheckSequenceVerify = 0xb2 // 178 - AKA OpNop3
	OpNop4                = 0xb3 // 179
	OpNop5                = 0xb4 // 180
	OpNop6                = 0xb5 // 181
	OpNop7                = 0xb6 // 182
	OpNop8                = 0xb7 // 183
	OpNop9                = 0xb8 // 184
	OpNop10               = 0xb9 // 185

	OpCheckDataSig       = 0xba // 186
	OpCheckDataSigVerify = 0xbb // 187
)

// opcodeNames maps assigned opcode bytes to their mnemonics for disassembly
// and debug traces.  Push opcodes are rendered by their operators together
// with their payload and do not appear here.
var opcodeNames = map[byte]string{
	Op0:         "OP_0",
	Op1Negate:   "OP_1NEGATE",
	OpPushData1: "OP_PUSHDATA1",
	OpPushData2: "OP_PUSHDATA2",
	OpPushData4: "OP_PUSHDATA4",
	Op1:         "OP_1",
	Op2:         "OP_2",
	Op3:         "OP_3",
	Op4:         "OP_4",
	Op5:         "OP_5",
	Op6:         "OP_6",
	Op7:         "OP_7",
	Op8:         "OP_8",
	Op9:         "OP_9",
	Op10:        "OP_10",
	Op11:        "OP_11",
	Op12:        "OP_12",
	Op13:        "OP_13",
	Op14:        "OP_14",
	Op15:        "OP_15",
	Op16:        "OP_16",

	OpNop:    "OP_NOP",
	OpIf:     "OP_IF",
	OpNotIf:  "OP_NOTIF",
	OpElse:   "OP_ELSE",
	OpEndIf:  "OP_ENDIF",
	OpVerify: "OP_VERIFY",
	OpReturn: "OP_RETURN",

	OpToAltStack:   "OP_TOALTSTACK",
	OpFromAltStack: "OP_FROMALTSTACK",
	Op2Drop:        "OP_2DROP",
	Op2Dup:         "OP_2DUP",
	Op3Dup:         "OP_3DUP",
	Op2Over:        "OP_2OVER",
	Op2Rot:         "OP_2ROT",
	Op2Swap:        "OP_2SWAP",
	OpIfDup:        "OP_IFDUP",
	OpDepth:        "OP_DEPTH",
	OpDrop:         "OP_DROP",
	OpDup:          "OP_DUP",
	OpNip:          "OP_NIP",
	OpOver:         "OP_OVER",
	OpPick:         "OP_PICK",
	OpRoll:         "OP_ROLL",
	OpRot:          "OP_ROT",
	OpSwap:         "OP_SWAP",
	OpTuck:         "OP_TUCK",

	OpCat:     "OP_CAT",
	OpSplit:   "OP_SPLIT",
	OpNum2Bin: "OP_NUM2BIN",
	OpBin2Num: "OP_BIN2NUM",
	OpSize:    "OP_SIZE",

	OpInvert:      "OP_INVERT",
	OpAnd:         "OP_AND",
	OpOr:          "OP_OR",
	OpXor:         "OP_XOR",
	OpEqual:       "OP_EQUAL",
	OpEqualVerify: "OP_EQUALVERIFY",

	Op1Add:      "OP_1ADD",
	Op1Sub:      "OP_1SUB",
	Op2Mul:      "OP_2MUL",
	Op2Div:      "OP_2DIV",
	OpNegate:    "OP_NEGATE",
	OpAbs:       "OP_ABS",
	OpNot:       "OP_NOT",
	Op0NotEqual: "OP_0NOTEQUAL",

	OpAdd:    "OP_ADD",
	OpSub:    "OP_SUB",
	OpMul:    "OP_MUL",
	OpDiv:    "OP_DIV",
	OpMod:    "OP_MOD",
	OpLShift: "OP_LSHIFT",
	OpRShift: "OP_RSHIFT",

	OpBoolAnd:            "OP_BOOLAND",
	OpBoolOr:             "OP_BOOLOR",
	OpNumEqual:           "OP_NUMEQUAL",
	OpNumEqualVerify:     "OP_NUMEQUALVERIFY",
	OpNumNotEqual:        "OP_NUMNOTEQUAL",
	OpLessThan:           "OP_LESSTHAN",
	OpGreaterThan:        "OP_GREATERTHAN",
	OpLessThanOrEqual:    "OP_LESSTHANOREQUAL",
	OpGreaterThanOrEqual: "OP_GREATERTHANOREQUAL",
	OpMin:                "OP_MIN",
	OpMax:                "OP_MAX",
	OpWithin:             "OP_WITHIN",

	OpRipeMD160:           "OP_RIPEMD160",
	OpSha256:              "OP_SHA256",
	OpHash160:             "OP_HASH160",
	OpHash256:             "OP_HASH256",
	OpCodeSeparator:       "OP_CODESEPARATOR",
	OpCheckSig:            "OP_CHECKSIG",
	OpCheckSigVerify:      "OP_CHECKSIGVERIFY",
	OpCheckMultiSig:       "OP_CHECKMULTISIG",
	OpCheckMultiSigVerify: "OP_CHECKMULTISIGVERIFY",

	OpNop1:                "OP_NOP1",
	OpCheckLockTimeVerify: "OP_CHECKLOCKTIMEVERIFY",
	OpCheckSequenceVerify: "OP_CHECKSEQUENCEVERIFY",
	OpNop4:                "OP_NOP4",
	OpNop5:                "OP_NOP5",
	OpNop6:                "OP_NOP6",
	OpNop7:                "OP_NOP7",
	OpNop8:                "OP_NOP8",
	OpNop9:                "OP_NOP9",
	OpNop10:               "OP_NOP10",

	OpCheckDataSig:       "OP_CHECKDATASIG",
	OpCheckDataSigVerify: "OP_CHECKDATASIGVERIFY",
}

// OpcodeName returns the mnemonic for the passed opcode byte, or a hex
// rendering for bytes with no assigned name.
func OpcodeName(op byte) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	if op >= OpData1 && op <= OpData75 {
		return pushBytesName(int(op))
	}
	return unknownOpcodeName(op)
}
