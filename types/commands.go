// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

// Command is one decoded ledger-mutating command. Wire decoding and
// signature verification happen upstream; the executor only sees these
// structs.
type Command interface {
	// Name returns the command name used in error descriptions.
	Name() string
}

type AddAssetQuantity struct {
	AssetID AssetID `cbor:"1,keyasint"`
	Amount  string  `cbor:"2,keyasint"`
}

func (c *AddAssetQuantity) Name() string { return "AddAssetQuantity" }

type AddPeer struct {
	PublicKey      string `cbor:"1,keyasint"`
	Address        string `cbor:"2,keyasint"`
	TLSCertificate string `cbor:"3,keyasint,omitempty"`
	SyncingPeer    bool   `cbor:"4,keyasint,omitempty"`
}

func (c *AddPeer) Name() string { return "AddPeer" }

type AddSignatory struct {
	AccountID AccountID `cbor:"1,keyasint"`
	PublicKey string    `cbor:"2,keyasint"`
}

func (c *AddSignatory) Name() string { return "AddSignatory" }

type AppendRole struct {
	AccountID AccountID `cbor:"1,keyasint"`
	RoleName  string    `cbor:"2,keyasint"`
}

func (c *AppendRole) Name() string { return "AppendRole" }

type CompareAndSetAccountDetail struct {
	AccountID AccountID `cbor:"1,keyasint"`
	Key       string    `cbor:"2,keyasint"`
	Value     string    `cbor:"3,keyasint"`
	OldValue  *string   `cbor:"4,keyasint,omitempty"`

	// CheckEmpty selects strict semantics: when set, a missing old
	// value only matches a missing stored value. When unset (legacy
	// mode) a missing old value matches any missing stored value and
	// the comparison is skipped entirely if the detail is absent.
	CheckEmpty bool `cbor:"5,keyasint,omitempty"`
}

func (c *CompareAndSetAccountDetail) Name() string { return "CompareAndSetAccountDetail" }

type CreateAccount struct {
	AccountName string `cbor:"1,keyasint"`
	DomainID    string `cbor:"2,keyasint"`
	PublicKey   string `cbor:"3,keyasint"`
}

func (c *CreateAccount) Name() string { return "CreateAccount" }

type CreateAsset struct {
	AssetName string `cbor:"1,keyasint"`
	DomainID  string `cbor:"2,keyasint"`
	Precision uint8  `cbor:"3,keyasint"`
}

func (c *CreateAsset) Name() string { return "CreateAsset" }

type CreateDomain struct {
	DomainID    string `cbor:"1,keyasint"`
	DefaultRole string `cbor:"2,keyasint"`
}

func (c *CreateDomain) Name() string { return "CreateDomain" }

type CreateRole struct {
	RoleName    string        `cbor:"1,keyasint"`
	Permissions PermissionSet `cbor:"2,keyasint"`
}

func (c *CreateRole) Name() string { return "CreateRole" }

type DetachRole struct {
	AccountID AccountID `cbor:"1,keyasint"`
	RoleName  string    `cbor:"2,keyasint"`
}

func (c *DetachRole) Name() string { return "DetachRole" }

type GrantPermission struct {
	AccountID  AccountID `cbor:"1,keyasint"`
	Permission Grantable `cbor:"2,keyasint"`
}

func (c *GrantPermission) Name() string { return "GrantPermission" }

type RemovePeer struct {
	PublicKey string `cbor:"1,keyasint"`
}

func (c *RemovePeer) Name() string { return "RemovePeer" }

type RemoveSignatory struct {
	AccountID AccountID `cbor:"1,keyasint"`
	PublicKey string    `cbor:"2,keyasint"`
}

func (c *RemoveSignatory) Name() string { return "RemoveSignatory" }

type RevokePermission struct {
	AccountID  AccountID `cbor:"1,keyasint"`
	Permission Grantable `cbor:"2,keyasint"`
}

func (c *RevokePermission) Name() string { return "RevokePermission" }

type SetAccountDetail struct {
	AccountID AccountID `cbor:"1,keyasint"`
	Key       string    `cbor:"2,keyasint"`
	Value     string    `cbor:"3,keyasint"`
}

func (c *SetAccountDetail) Name() string { return "SetAccountDetail" }

type SetQuorum struct {
	AccountID AccountID `cbor:"1,keyasint"`
	Quorum    uint32    `cbor:"2,keyasint"`
}

func (c *SetQuorum) Name() string { return "SetQuorum" }

type SetSettingValue struct {
	Key   string `cbor:"1,keyasint"`
	Value string `cbor:"2,keyasint"`
}

func (c *SetSettingValue) Name() string { return "SetSettingValue" }

type SubtractAssetQuantity struct {
	AssetID AssetID `cbor:"1,keyasint"`
	Amount  string  `cbor:"2,keyasint"`
}

func (c *SubtractAssetQuantity) Name() string { return "SubtractAssetQuantity" }

type TransferAsset struct {
	SrcAccountID  AccountID `cbor:"1,keyasint"`
	DestAccountID AccountID `cbor:"2,keyasint"`
	AssetID       AssetID   `cbor:"3,keyasint"`
	Description   string    `cbor:"4,keyasint,omitempty"`
	Amount        string    `cbor:"5,keyasint"`
}

func (c *TransferAsset) Name() string { return "TransferAsset" }

// CommandEnvelope is the serializable union of all commands. Exactly
// one field is non-nil. Block storage persists envelopes; everything
// else works with the Command interface.
type CommandEnvelope struct {
	AddAssetQuantity           *AddAssetQuantity           `cbor:"1,keyasint,omitempty"`
	AddPeer                    *AddPeer                    `cbor:"2,keyasint,omitempty"`
	AddSignatory               *AddSignatory               `cbor:"3,keyasint,omitempty"`
	AppendRole                 *AppendRole                 `cbor:"4,keyasint,omitempty"`
	CompareAndSetAccountDetail *CompareAndSetAccountDetail `cbor:"5,keyasint,omitempty"`
	CreateAccount              *CreateAccount              `cbor:"6,keyasint,omitempty"`
	CreateAsset                *CreateAsset                `cbor:"7,keyasint,omitempty"`
	CreateDomain               *CreateDomain               `cbor:"8,keyasint,omitempty"`
	CreateRole                 *CreateRole                 `cbor:"9,keyasint,omitempty"`
	DetachRole                 *DetachRole                 `cbor:"10,keyasint,omitempty"`
	GrantPermission            *GrantPermission            `cbor:"11,keyasint,omitempty"`
	RemovePeer                 *RemovePeer                 `cbor:"12,keyasint,omitempty"`
	RemoveSignatory            *RemoveSignatory            `cbor:"13,keyasint,omitempty"`
	RevokePermission           *RevokePermission           `cbor:"14,keyasint,omitempty"`
	SetAccountDetail           *SetAccountDetail           `cbor:"15,keyasint,omitempty"`
	SetQuorum                  *SetQuorum                  `cbor:"16,keyasint,omitempty"`
	SetSettingValue            *SetSettingValue            `cbor:"17,keyasint,omitempty"`
	SubtractAssetQuantity      *SubtractAssetQuantity      `cbor:"18,keyasint,omitempty"`
	TransferAsset              *TransferAsset              `cbor:"19,keyasint,omitempty"`
}

// WrapCommand returns the envelope holding cmd.
func WrapCommand(cmd Command) CommandEnvelope {
	var e CommandEnvelope
	switch c := cmd.(type) {
	case *AddAssetQuantity:
		e.AddAssetQuantity = c
	case *AddPeer:
		e.AddPeer = c
	case *AddSignatory:
		e.AddSignatory = c
	case *AppendRole:
		e.AppendRole = c
	case *CompareAndSetAccountDetail:
		e.CompareAndSetAccountDetail = c
	case *CreateAccount:
		e.CreateAccount = c
	case *CreateAsset:
		e.CreateAsset = c
	case *CreateDomain:
		e.CreateDomain = c
	case *CreateRole:
		e.CreateRole = c
	case *DetachRole:
		e.DetachRole = c
	case *GrantPermission:
		e.GrantPermission = c
	case *RemovePeer:
		e.RemovePeer = c
	case *RemoveSignatory:
		e.RemoveSignatory = c
	case *RevokePermission:
		e.RevokePermission = c
	case *SetAccountDetail:
		e.SetAccountDetail = c
	case *SetQuorum:
		e.SetQuorum = c
	case *SetSettingValue:
		e.SetSettingValue = c
	case *SubtractAssetQuantity:
		e.SubtractAssetQuantity = c
	case *TransferAsset:
		e.TransferAsset = c
	}
	return e
}

// Command returns the wrapped command, or nil for an empty envelope.
func (e CommandEnvelope) Command() Command {
	switch {
	case e.AddAssetQuantity != nil:
		return e.AddAssetQuantity
	case e.AddPeer != nil:
		return e.AddPeer
	case e.AddSignatory != nil:
		return e.AddSignatory
	case e.AppendRole != nil:
		return e.AppendRole
	case e.CompareAndSetAccountDetail != nil:
		return e.CompareAndSetAccountDetail
	case e.CreateAccount != nil:
		return e.CreateAccount
	case e.CreateAsset != nil:
		return e.CreateAsset
	case e.CreateDomain != nil:
		return e.CreateDomain
	case e.CreateRole != nil:
		return e.CreateRole
	case e.DetachRole != nil:
		return e.DetachRole
	case e.GrantPermission != nil:
		return e.GrantPermission
	case e.RemovePeer != nil:
		return e.RemovePeer
	case e.RemoveSignatory != nil:
		return e.RemoveSignatory
	case e.RevokePermission != nil:
		return e.RevokePermission
	case e.SetAccountDetail != nil:
		return e.SetAccountDetail
	case e.SetQuorum != nil:
		return e.SetQuorum
	case e.SetSettingValue != nil:
		return e.SetSettingValue
	case e.SubtractAssetQuantity != nil:
		return e.SubtractAssetQuantity
	case e.TransferAsset != nil:
		return e.TransferAsset
	}
	return nil
}
