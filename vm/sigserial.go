// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"encoding/binary"

	"github.com/bchsuite/bchvm/crypto"
)

// zeroHash is the 32-byte digest substituted for serialization fields a hash
// type excludes from the commitment.
var zeroHash [32]byte

// appendVarInt serializes n using the Bitcoin variable-length integer format
// and appends it to buf.
func appendVarInt(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		buf = append(buf, 0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		return append(buf, b[:]...)
	case n <= 0xffffffff:
		buf = append(buf, 0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		return append(buf, b[:]...)
	default:
		buf = append(buf, 0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		return append(buf, b[:]...)
	}
}

func appendUint32(buf []byte, n uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return append(buf, b[:]...)
}

func appendUint64(buf []byte, n uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return append(buf, b[:]...)
}

// hashOrZero substitutes the zero digest when excluded is true.
func hashOrZero(hash []byte, excluded bool) []byte {
	if excluded || len(hash) == 0 {
		return zeroHash[:]
	}
	return hash
}

// SigningSerialization assembles the canonical preimage a transaction
// signature commits to:
//
//	version || hashPrevouts || hashSequence ||
//	outpoint transaction hash || outpoint index ||
//	varint-prefixed script code || outpoint value || sequence number ||
//	hashOutputs || locktime || 4-byte hash type
//
// hashPrevouts is zeroed when the hash type carries the anyone-can-pay bit;
// hashSequence is zeroed additionally when the base type is not "all".
// hashOutputs is the hash of all outputs for "all", the hash of the
// corresponding output for "single" (zero when the caller signals the input
// has no corresponding output by leaving it empty), and zero for "none".
func SigningSerialization(ctx *TransactionContext, scriptCode []byte, hashType SigHashType) []byte {
	anyoneCanPay := hashType&SigHashAnyOneCanPay != 0
	baseType := hashType & sigHashMask

	buf := make([]byte, 0, 156+len(scriptCode)+varIntSerializeSize(uint64(len(scriptCode))))
	buf = appendUint32(buf, ctx.Version)
	buf = append(buf, hashOrZero(ctx.TransactionOutpointsHash, anyoneCanPay)...)
	buf = append(buf, hashOrZero(ctx.TransactionSequenceNumbersHash,
		anyoneCanPay || baseType != SigHashAll)...)
	buf = append(buf, ctx.OutpointTransactionHash...)
	buf = appendUint32(buf, ctx.OutpointIndex)
	buf = appendVarInt(buf, uint64(len(scriptCode)))
	buf = append(buf, scriptCode...)
	buf = appendUint64(buf, ctx.OutpointValue)
	buf = appendUint32(buf, ctx.SequenceNumber)
	switch baseType {
	case SigHashAll:
		buf = append(buf, hashOrZero(ctx.TransactionOutputsHash, false)...)
	case SigHashSingle:
		buf = append(buf, hashOrZero(ctx.CorrespondingOutputHash, false)...)
	default:
		buf = append(buf, zeroHash[:]...)
	}
	buf = appendUint32(buf, ctx.Locktime)
	buf = appendUint32(buf, uint32(hashType))
	return buf
}

// varIntSerializeSize returns the number of bytes the varint encoding of n
// occupies.
func varIntSerializeSize(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// CalcSignatureHash double-hashes the signing serialization into the 32-byte
// digest consumed by the signature verifier.
func CalcSignatureHash(sha256 crypto.Sha256, ctx *TransactionContext, scriptCode []byte, hashType SigHashType) []byte {
	preimage := SigningSerialization(ctx, scriptCode, hashType)
	return sha256.Hash(sha256.Hash(preimage))
}

// scriptCode returns the portion of the current script a signature commits
// to: everything after the most recently executed OP_CODESEPARATOR.
func (s *ProgramState) scriptCode() []byte {
	return s.Script[s.LastCodeSeparator+1:]
}
