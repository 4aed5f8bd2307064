// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "testing"

// TestCheckSignatureEncoding exercises the strict DER and low-S rules.
func TestCheckSignatureEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sig     []byte
		wantErr bool
	}{
		{"minimal valid", hexToBytes("3006020101020101"), false},
		{"valid padded r and s", hexToBytes("30080202008002020080"), false},
		{"empty", nil, true},
		{"too short", hexToBytes("30050201010201"), true},
		{"too long", append(hexToBytes("3081"),
			make([]byte, 71)...), true},
		{"wrong sequence tag", hexToBytes("3106020101020101"), true},
		{"bad total length", hexToBytes("3007020101020101"), true},
		{"missing r marker", hexToBytes("3006010101020101"), true},
		{"zero r length", hexToBytes("3006020002020101"), true},
		{"negative r", hexToBytes("3006020181020101"), true},
		{"padded r", hexToBytes("300702020001020101"), true},
		{"missing s marker", hexToBytes("3006020101010101"), true},
		{"negative s", hexToBytes("3006020101020181"), true},
		{"padded s", hexToBytes("300702010102020001"), true},
		{"high s", hexToBytes("3026020101022100" +
			"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"), true},
		{"half order s is allowed", hexToBytes("30250201010220" +
			"7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0"), false},
	}

	for _, test := range tests {
		err := checkSignatureEncoding(test.sig)
		if test.wantErr && err == nil {
			t.Errorf("%s: expected ErrInvalidSignatureEncoding, got nil",
				test.name)
			continue
		}
		if !test.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
			continue
		}
		if err != nil && err.ErrorCode != ErrInvalidSignatureEncoding {
			t.Errorf("%s: wrong error code %v", test.name,
				err.ErrorCode)
		}
	}
}

// TestCheckPubKeyEncoding exercises the SEC public key shape rules.
func TestCheckPubKeyEncoding(t *testing.T) {
	t.Parallel()

	compressed := make([]byte, 33)
	compressed[0] = 0x02
	compressedOdd := make([]byte, 33)
	compressedOdd[0] = 0x03
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04

	if err := checkPubKeyEncoding(compressed); err != nil {
		t.Errorf("compressed even: unexpected error %v", err)
	}
	if err := checkPubKeyEncoding(compressedOdd); err != nil {
		t.Errorf("compressed odd: unexpected error %v", err)
	}
	if err := checkPubKeyEncoding(uncompressed); err != nil {
		t.Errorf("uncompressed: unexpected error %v", err)
	}

	bad := [][]byte{
		nil,
		{0x02},
		make([]byte, 33),         // prefix 0x00
		make([]byte, 64),         // wrong length
		append([]byte{0x05}, make([]byte, 64)...), // bad prefix
		append([]byte{0x02}, make([]byte, 64)...), // compressed prefix, long body
	}
	for i, pubKey := range bad {
		err := checkPubKeyEncoding(pubKey)
		if err == nil || err.ErrorCode != ErrInvalidPublicKeyEncoding {
			t.Errorf("bad key %d: expected "+
				"ErrInvalidPublicKeyEncoding, got %v", i, err)
		}
	}
}

// TestCheckHashTypeEncoding exercises the recognized hash type combinations.
func TestCheckHashTypeEncoding(t *testing.T) {
	t.Parallel()

	valid := []SigHashType{
		SigHashAll | SigHashForkID,
		SigHashNone | SigHashForkID,
		SigHashSingle | SigHashForkID,
		SigHashAll | SigHashForkID | SigHashAnyOneCanPay,
		SigHashNone | SigHashForkID | SigHashAnyOneCanPay,
		SigHashSingle | SigHashForkID | SigHashAnyOneCanPay,
	}
	for _, hashType := range valid {
		if err := checkHashTypeEncoding(hashType); err != nil {
			t.Errorf("hash type 0x%x: unexpected error %v",
				hashType, err)
		}
	}

	invalid := []SigHashType{
		0,
		SigHashAll, // missing fork-id
		SigHashForkID,
		SigHashForkID | 0x04,
		SigHashAll | SigHashForkID | 0x20,
		SigHashAnyOneCanPay | SigHashAll,
	}
	for _, hashType := range invalid {
		err := checkHashTypeEncoding(hashType)
		if err == nil || err.ErrorCode != ErrInvalidSignatureEncoding {
			t.Errorf("hash type 0x%x: expected "+
				"ErrInvalidSignatureEncoding, got %v", hashType, err)
		}
	}
}
