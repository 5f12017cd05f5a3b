// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "encoding/hex"

const (
	// TokenIDLength length of token id in bytes.
	TokenIDLength = 20
)

// TokenID is the opaque identifier of a reward asset.
type TokenID [TokenIDLength]byte

// String implements the stringer interface.
func (t TokenID) String() string {
	return "0x" + hex.EncodeToString(t[:])
}

// Bytes returns byte slice form of token id.
func (t TokenID) Bytes() []byte {
	return t[:]
}

// IsZero returns true if the token id is all zero.
func (t TokenID) IsZero() bool {
	return t == TokenID{}
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TokenID) UnmarshalText(text []byte) error {
	parsed, err := ParseTokenID(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTokenID converts a string presented token id into TokenID type.
func ParseTokenID(s string) (TokenID, error) {
	b, err := parseFixed(s, TokenIDLength)
	if err != nil {
		return TokenID{}, err
	}
	var id TokenID
	copy(id[:], b)
	return id, nil
}

// MustParseTokenID converts a string presented token id into TokenID type, panic on error.
func MustParseTokenID(s string) TokenID {
	id, err := ParseTokenID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// BytesToTokenID converts a byte slice into token id.
// If b is larger than token id length, b will be cropped (from the left).
// If b is smaller than token id length, b will be extended (from the left).
func BytesToTokenID(b []byte) TokenID {
	var id TokenID
	copyRight(id[:], b)
	return id
}
