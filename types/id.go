// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const HashSize = 32

var ErrIDStrSize = fmt.Errorf("max ID string length is %v bytes", HashSize*2)

// ID is a transaction or block hash. The string form is lower-case hex,
// which is also the form used inside datastore keys.
type ID [HashSize]byte

// Compare returns 1 if hash > target, -1 if hash < target and
// 0 if hash == target.
func (id ID) Compare(target ID) int {
	for i := 0; i < len(id); i++ {
		a := id[i]
		b := target[i]
		if a > b {
			return 1
		}
		if a < b {
			return -1
		}
	}
	return 0
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ID) Bytes() []byte {
	return id[:]
}

func (id *ID) SetBytes(data []byte) {
	copy(id[:], data)
}

func NewID(digest []byte) ID {
	var id ID
	id.SetBytes(digest)
	return id
}

func NewIDFromString(id string) (ID, error) {
	if len(id) > HashSize*2 {
		return ID{}, ErrIDStrSize
	}
	ret, err := hex.DecodeString(strings.ToLower(id))
	if err != nil {
		return ID{}, err
	}
	var newID ID
	newID.SetBytes(ret)
	return newID, nil
}

func NewIDFromData(data []byte) ID {
	digest := sha256.Sum256(data)
	return ID(digest)
}

// AccountID addresses an account as name@domain.
type AccountID string

func NewAccountID(name, domain string) AccountID {
	return AccountID(name + "@" + domain)
}

// Split returns the account name and domain id. An id with no
// separator is returned as a bare name with an empty domain.
func (id AccountID) Split() (name, domain string) {
	if i := strings.IndexByte(string(id), '@'); i >= 0 {
		return string(id[:i]), string(id[i+1:])
	}
	return string(id), ""
}

func (id AccountID) Name() string {
	name, _ := id.Split()
	return name
}

func (id AccountID) Domain() string {
	_, domain := id.Split()
	return domain
}

// AssetID addresses an asset as name#domain.
type AssetID string

func NewAssetID(name, domain string) AssetID {
	return AssetID(name + "#" + domain)
}

// Split returns the asset name and domain id.
func (id AssetID) Split() (name, domain string) {
	if i := strings.IndexByte(string(id), '#'); i >= 0 {
		return string(id[:i]), string(id[i+1:])
	}
	return string(id), ""
}

func (id AssetID) Name() string {
	name, _ := id.Split()
	return name
}

func (id AssetID) Domain() string {
	_, domain := id.Split()
	return domain
}

// TxStatus records whether an indexed transaction was committed or
// rejected by its block.
type TxStatus bool

const (
	TxCommitted TxStatus = true
	TxRejected  TxStatus = false
)

func (s TxStatus) String() string {
	if s == TxCommitted {
		return "TRUE"
	}
	return "FALSE"
}

func TxStatusFromString(s string) (TxStatus, error) {
	switch s {
	case "TRUE":
		return TxCommitted, nil
	case "FALSE":
		return TxRejected, nil
	}
	return TxRejected, fmt.Errorf("unknown tx status %q", s)
}
