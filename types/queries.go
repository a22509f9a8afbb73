// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

// Query is one decoded read-only query. As with commands, wire decoding
// and signature verification happen upstream.
type Query interface {
	// Name returns the query name used in error descriptions.
	Name() string
}

// TxOrdering selects the secondary index used to page account
// transactions.
type TxOrdering int

const (
	// OrderByPosition pages in (height, index) order.
	OrderByPosition TxOrdering = iota
	// OrderByCreatedTime pages in transaction timestamp order.
	OrderByCreatedTime
)

type GetAccount struct {
	AccountID AccountID
}

func (q *GetAccount) Name() string { return "GetAccount" }

type GetSignatories struct {
	AccountID AccountID
}

func (q *GetSignatories) Name() string { return "GetSignatories" }

type GetAccountAssets struct {
	AccountID AccountID

	// PageSize zero means no pagination: return everything.
	PageSize     uint64
	FirstAssetID *AssetID
}

func (q *GetAccountAssets) Name() string { return "GetAccountAssets" }

// DetailCursor addresses one (writer, key) cell of the two-level
// account detail map.
type DetailCursor struct {
	Writer AccountID
	Key    string
}

type GetAccountDetail struct {
	AccountID AccountID

	// Writer and Key filter the result when non-empty.
	Writer AccountID
	Key    string

	PageSize uint64
	First    *DetailCursor
}

func (q *GetAccountDetail) Name() string { return "GetAccountDetail" }

type GetRoles struct{}

func (q *GetRoles) Name() string { return "GetRoles" }

type GetRolePermissions struct {
	RoleID string
}

func (q *GetRolePermissions) Name() string { return "GetRolePermissions" }

type GetAssetInfo struct {
	AssetID AssetID
}

func (q *GetAssetInfo) Name() string { return "GetAssetInfo" }

type GetPeers struct{}

func (q *GetPeers) Name() string { return "GetPeers" }

type GetBlock struct {
	Height uint64
}

func (q *GetBlock) Name() string { return "GetBlock" }

type GetTransactions struct {
	Hashes []ID
}

func (q *GetTransactions) Name() string { return "GetTransactions" }

type GetAccountTransactions struct {
	AccountID AccountID

	PageSize    uint64
	FirstTxHash *ID
	Ordering    TxOrdering
}

func (q *GetAccountTransactions) Name() string { return "GetAccountTransactions" }

type GetAccountAssetTransactions struct {
	AccountID AccountID
	AssetID   AssetID

	PageSize    uint64
	FirstTxHash *ID
}

func (q *GetAccountAssetTransactions) Name() string { return "GetAccountAssetTransactions" }

// GetEngineReceipts belongs to the smart-contract engine, which this
// node does not ship. The query executor answers it with NotSupported.
type GetEngineReceipts struct {
	TxHash ID
}

func (q *GetEngineReceipts) Name() string { return "GetEngineReceipts" }
