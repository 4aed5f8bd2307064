// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"math/big"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashForkID       SigHashType = 0x40
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines which bits of the hash type select the base
	// serialization mode.
	sigHashMask = 0x1f
)

// halfOrder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = func() *big.Int {
	order, _ := new(big.Int).SetString(
		"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	return new(big.Int).Rsh(order, 1)
}()

// checkHashTypeEncoding returns an error when the passed hash type does not
// adhere to the strict encoding requirements: a base type of all, none or
// single, the mandatory fork-id bit, and optionally the anyone-can-pay bit.
func checkHashTypeEncoding(hashType SigHashType) *Error {
	if hashType&SigHashForkID == 0 {
		str := fmt.Sprintf("hash type 0x%x does not have the fork-id "+
			"bit set", hashType)
		return scriptError(ErrInvalidSignatureEncoding, str)
	}
	baseType := hashType & sigHashMask
	if baseType < SigHashAll || baseType > SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrInvalidSignatureEncoding, str)
	}
	if hashType& ^(SigHashAnyOneCanPay|SigHashForkID|sigHashMask) != 0 {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrInvalidSignatureEncoding, str)
	}
	return nil
}

// checkPubKeyEncoding returns an error when the passed public key is neither
// a compressed nor an uncompressed SEC encoding.
func checkPubKeyEncoding(pubKey []byte) *Error {
	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		// Compressed
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}

	return scriptError(ErrInvalidPublicKeyEncoding,
		"unsupported public key type")
}

// checkSignatureEncoding returns an error when the passed signature is not a
// strictly DER-encoded ECDSA signature with a low S value.
func checkSignatureEncoding(sig []byte) *Error {

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.

	// Minimum length is when both numbers are 1 byte each.
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
	if len(sig) < 8 {
		// Too short
		str := fmt.Sprintf("malformed signature: too short: %d < 8",
			len(sig))
		return scriptError(ErrInvalidSignatureEncoding, str)
	}

	// Maximum length is when both numbers are 33 bytes each.  It is 33
	// bytes because a 256-bit integer requires 32 bytes and an additional
	// leading null byte might required if the high bit is set in the value.
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
	if len(sig) > 72 {
		// Too long
		str := fmt.Sprintf("malformed signature: too long: %d > 72",
			len(sig))
		return scriptError(ErrInvalidSignatureEncoding, str)
	}
	if sig[0] != 0x30 {
		// Wrong type
		str := fmt.Sprintf("malformed signature: format has wrong "+
			"type: 0x%x", sig[0])
		return scriptError(ErrInvalidSignatureEncoding, str)
	}
	if int(sig[1]) != len(sig)-2 {
		// Invalid length
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[1], len(sig)-2)
		return scriptError(ErrInvalidSignatureEncoding, str)
	}

	rLen := int(sig[3])

	// Make sure S is inside the signature.
	if rLen+5 > len(sig) {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: S out of bounds")
	}

	sLen := int(sig[rLen+5])

	// The length of the elements does not match the length of the
	// signature.
	if rLen+sLen+6 != len(sig) {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: invalid R length")
	}

	// R elements must be integers.
	if sig[2] != 0x02 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: missing first integer marker")
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: R length is zero")
	}

	// R must not be negative.
	if sig[4]&0x80 != 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: R value is negative")
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: invalid R value")
	}

	// S elements must be integers.
	if sig[rLen+4] != 0x02 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: missing second integer marker")
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: S length is zero")
	}

	// S must not be negative.
	if sig[rLen+6]&0x80 != 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: S value is negative")
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[rLen+6] == 0x00 && sig[rLen+7]&0x80 == 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"malformed signature: invalid S value")
	}

	// Verify the S value is <= half the order of the curve.  This check is
	// done because when it is higher, the complement modulo the order can
	// be used instead which is a shorter encoding by 1 byte.  Further,
	// without enforcing this, it is possible to replace a signature in a
	// valid transaction with the complement while still being a valid
	// signature that verifies.  This would result in changing the
	// transaction hash and thus is source of malleability.
	sValue := new(big.Int).SetBytes(sig[rLen+6 : rLen+6+sLen])
	if sValue.Cmp(halfOrder) > 0 {
		return scriptError(ErrInvalidSignatureEncoding,
			"signature is not canonical due to "+
				"unnecessarily high S value")
	}

	return nil
}

// checkTransactionSignatureEncoding validates the Bitcoin signature grammar:
// a strict DER signature followed by a single hash-type byte.  It returns the
// DER portion and the hash type.
func checkTransactionSignatureEncoding(sig []byte) ([]byte, SigHashType, *Error) {
	if len(sig) == 0 {
		return nil, 0, scriptError(ErrInvalidSignatureEncoding,
			"empty signature")
	}
	hashType := SigHashType(sig[len(sig)-1])
	if err := checkHashTypeEncoding(hashType); err != nil {
		return nil, 0, err
	}
	derSig := sig[:len(sig)-1]
	if err := checkSignatureEncoding(derSig); err != nil {
		return nil, 0, err
	}
	return derSig, hashType, nil
}
