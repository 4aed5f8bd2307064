// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crypto defines the cryptographic primitives the virtual machine
// consumes and provides default implementations.  The interfaces exist so
// hosts can substitute hardware-backed or batched implementations; every
// implementation must be safe for concurrent use.
package crypto

import (
	"crypto/sha256"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160"
)

// Sha256 hashes messages with SHA-256.
type Sha256 interface {
	// Hash returns the 32-byte digest of the passed message.
	Hash(message []byte) []byte
}

// Ripemd160 hashes messages with RIPEMD-160.
type Ripemd160 interface {
	// Hash returns the 20-byte digest of the passed message.
	Hash(message []byte) []byte
}

// Secp256k1 verifies ECDSA signatures over the secp256k1 curve.
type Secp256k1 interface {
	// VerifyDERLowS returns whether the DER-encoded signature is a valid
	// signature of the 32-byte digest by the SEC-encoded public key.  It
	// returns false - never an error - for well-formed inputs that simply
	// do not verify; callers are expected to have rejected malformed
	// encodings beforehand.
	VerifyDERLowS(signature, publicKey, digest []byte) bool
}

// Providers bundles the primitives a virtual machine is constructed with.
type Providers struct {
	Sha256    Sha256
	Ripemd160 Ripemd160
	Secp256k1 Secp256k1
}

// DefaultProviders returns the standard software implementations.
func DefaultProviders() Providers {
	return Providers{
		Sha256:    Sha256Provider{},
		Ripemd160: Ripemd160Provider{},
		Secp256k1: Secp256k1Provider{},
	}
}

// Sha256Provider implements Sha256 with the standard library.
type Sha256Provider struct{}

// Hash returns the SHA-256 digest of the message.
func (Sha256Provider) Hash(message []byte) []byte {
	digest := sha256.Sum256(message)
	return digest[:]
}

// Ripemd160Provider implements Ripemd160.
type Ripemd160Provider struct{}

// Hash returns the RIPEMD-160 digest of the message.
func (Ripemd160Provider) Hash(message []byte) []byte {
	h := ripemd160.New()
	h.Write(message)
	return h.Sum(nil)
}

// Secp256k1Provider implements Secp256k1.
type Secp256k1Provider struct{}

// VerifyDERLowS parses the public key and DER signature and verifies the
// signature against the digest.  Any parse failure yields false.
func (Secp256k1Provider) VerifyDERLowS(signature, publicKey, digest []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := secpecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pubKey)
}
