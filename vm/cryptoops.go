// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"

	"github.com/bchsuite/bchvm/crypto"
)

// opHash builds the transition replacing the top element with its hash.
func opHash(hash func([]byte) []byte) operation {
	return func(s *ProgramState) *ProgramState {
		data, ok := s.pop()
		if !ok {
			return s
		}
		s.push(hash(data))
		return s
	}
}

// opCodeSeparator records the position signatures commit to from here on.
func opCodeSeparator(s *ProgramState) *ProgramState {
	s.LastCodeSeparator = s.IP
	return s
}

// opCheckSig implements OP_CHECKSIG: pop a public key and a Bitcoin-encoded
// signature (strict DER followed by a hash-type byte), reconstruct the signed
// digest from the transaction context and the current script code, and push
// the verification result.
func opCheckSig(providers crypto.Providers) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(2) {
			return s
		}
		pubKey, _ := s.pop()
		sig, _ := s.pop()

		if err := checkPubKeyEncoding(pubKey); err != nil {
			s.Err = err
			return s
		}
		derSig, hashType, err := checkTransactionSignatureEncoding(sig)
		if err != nil {
			s.Err = err
			return s
		}

		digest := CalcSignatureHash(providers.Sha256, s.Context,
			s.scriptCode(), hashType)
		valid := providers.Secp256k1.VerifyDERLowS(derSig, pubKey, digest)
		log.Tracef("%v", newLogClosure(func() string {
			return fmt.Sprintf("OP_CHECKSIG result %v for digest %x",
				valid, digest)
		}))
		s.push(fromBool(valid))
		return s
	}
}

// opCheckMultiSig implements the OP_CHECKMULTISIG protocol:
//
//  1. Pop the public key count and the keys themselves, preserving on-stack
//     order.  The count is charged against the operation limit.
//  2. Pop the required signature count and the signatures.
//  3. Pop the extra element the original protocol consumes; it must be
//     zero-length.
//  4. Walk signatures and keys from the end of each list.  A signature that
//     verifies against the current key is consumed; either way the key
//     pointer advances.  Success requires every signature to be consumed
//     before the keys run out.
//
// Signature and key encodings are validated lazily, one pair per iteration,
// and an encoding violation fails the script immediately.
func opCheckMultiSig(providers crypto.Providers) operation {
	return func(s *ProgramState) *ProgramState {
		keyCountNum, ok := s.popNum(mathOpNumLen)
		if !ok {
			return s
		}
		if keyCountNum < 0 {
			str := fmt.Sprintf("number of public keys %d is "+
				"negative", keyCountNum)
			return s.fail(ErrInvalidNaturalNumber, str)
		}
		if keyCountNum > MaxPubKeysPerMultiSig {
			str := fmt.Sprintf("too many public keys: %d > %d",
				keyCountNum, MaxPubKeysPerMultiSig)
			return s.fail(ErrExceedsMaximumMultisigPublicKeyCount, str)
		}
		keyCount := int(keyCountNum)

		keys := make([][]byte, keyCount)
		for i := keyCount - 1; i >= 0; i-- {
			key, ok := s.pop()
			if !ok {
				return s
			}
			keys[i] = key
		}

		s.OperationCount += keyCount
		if s.OperationCount > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return s.fail(ErrExceededMaximumOperationCount, str)
		}

		sigCountNum, ok := s.popNum(mathOpNumLen)
		if !ok {
			return s
		}
		if sigCountNum < 0 {
			str := fmt.Sprintf("number of signatures %d is "+
				"negative", sigCountNum)
			return s.fail(ErrInvalidNaturalNumber, str)
		}
		if int(sigCountNum) > keyCount {
			str := fmt.Sprintf("more signatures than public keys: "+
				"%d > %d", sigCountNum, keyCount)
			return s.fail(ErrInsufficientPublicKeys, str)
		}
		sigCount := int(sigCountNum)

		sigs := make([][]byte, sigCount)
		for i := sigCount - 1; i >= 0; i-- {
			sig, ok := s.pop()
			if !ok {
				return s
			}
			sigs[i] = sig
		}

		// The original protocol consumes one extra element; consensus
		// requires it to be empty.
		bug, ok := s.pop()
		if !ok {
			return s
		}
		if len(bug) != 0 {
			str := fmt.Sprintf("multisig dummy argument has length "+
				"%d instead of 0", len(bug))
			return s.fail(ErrInvalidProtocolBugValue, str)
		}

		scriptCode := s.scriptCode()

		success := true
		sigIdx, keyIdx := sigCount-1, keyCount-1
		for sigIdx >= 0 {
			if keyIdx < sigIdx {
				success = false
				break
			}

			derSig, hashType, err := checkTransactionSignatureEncoding(sigs[sigIdx])
			if err != nil {
				s.Err = err
				return s
			}
			if err := checkPubKeyEncoding(keys[keyIdx]); err != nil {
				s.Err = err
				return s
			}

			digest := CalcSignatureHash(providers.Sha256, s.Context,
				scriptCode, hashType)
			if providers.Secp256k1.VerifyDERLowS(derSig, keys[keyIdx], digest) {
				sigIdx--
			}
			keyIdx--
		}

		s.push(fromBool(success))
		return s
	}
}

// opCheckDataSig implements OP_CHECKDATASIG: pop a public key, a message and
// a plain DER signature (no hash-type byte), and push whether the signature
// verifies against the single SHA-256 hash of the message.
func opCheckDataSig(providers crypto.Providers) operation {
	return func(s *ProgramState) *ProgramState {
		if !s.requireDepth(3) {
			return s
		}
		pubKey, _ := s.pop()
		message, _ := s.pop()
		sig, _ := s.pop()

		if err := checkPubKeyEncoding(pubKey); err != nil {
			s.Err = err
			return s
		}
		if err := checkSignatureEncoding(sig); err != nil {
			s.Err = err
			return s
		}

		digest := providers.Sha256.Hash(message)
		s.push(fromBool(providers.Secp256k1.VerifyDERLowS(sig, pubKey, digest)))
		return s
	}
}
