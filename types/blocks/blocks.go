// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blocks

import (
	"github.com/project-meridian/meridiand/types"
)

// Transaction is one already-validated transaction inside a block. The
// hash is computed and verified upstream together with the signatures.
type Transaction struct {
	Hash        types.ID                `cbor:"1,keyasint"`
	Creator     types.AccountID         `cbor:"2,keyasint"`
	CreatedTime uint64                  `cbor:"3,keyasint"`
	Quorum      uint32                  `cbor:"4,keyasint"`
	Commands    []types.CommandEnvelope `cbor:"5,keyasint"`
}

// Block is an already-agreed block handed to the engine for
// application. Consensus, ordering and signature checks are external.
type Block struct {
	Height       uint64          `cbor:"1,keyasint"`
	Hash         types.ID        `cbor:"2,keyasint"`
	PrevHash     types.ID        `cbor:"3,keyasint"`
	Timestamp    int64           `cbor:"4,keyasint"`
	Transactions []*Transaction  `cbor:"5,keyasint"`

	// RejectedHashes lists transactions that failed stateful
	// validation upstream. They are not executed but their hashes are
	// indexed with rejected status.
	RejectedHashes []types.ID `cbor:"6,keyasint,omitempty"`
}
