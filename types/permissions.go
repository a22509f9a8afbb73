// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import "fmt"

// Permission is a role permission. Roles bundle permissions and are
// attached to accounts; an account's effective permission set is the
// union over all of its roles.
type Permission int

const (
	PermAppendRole Permission = iota
	PermCreateRole
	PermDetachRole
	PermAddAssetQty
	PermSubtractAssetQty
	PermAddPeer
	PermRemovePeer
	PermAddSignatory
	PermRemoveSignatory
	PermSetQuorum
	PermCreateAccount
	PermSetDetail
	PermCreateAsset
	PermTransfer
	PermReceive
	PermCreateDomain
	PermAddDomainAssetQty
	PermSubtractDomainAssetQty
	PermSetSettingValue

	PermReadAssets
	PermGetRoles
	PermGetMyAccount
	PermGetAllAccounts
	PermGetDomainAccounts
	PermGetMySignatories
	PermGetAllSignatories
	PermGetDomainSignatories
	PermGetMyAccAst
	PermGetAllAccAst
	PermGetDomainAccAst
	PermGetMyAccDetail
	PermGetAllAccDetail
	PermGetDomainAccDetail
	PermGetMyAccTxs
	PermGetAllAccTxs
	PermGetDomainAccTxs
	PermGetMyAccAstTxs
	PermGetAllAccAstTxs
	PermGetDomainAccAstTxs
	PermGetMyTxs
	PermGetAllTxs
	PermGetBlocks
	PermGetPeers

	PermGrantCanSetMyQuorum
	PermGrantCanAddMySignatory
	PermGrantCanRemoveMySignatory
	PermGrantCanTransferMyAssets
	PermGrantCanSetMyAccountDetail

	PermRoot

	PermissionCount
)

var permissionStrings = map[Permission]string{
	PermAppendRole:                 "can_append_role",
	PermCreateRole:                 "can_create_role",
	PermDetachRole:                 "can_detach_role",
	PermAddAssetQty:                "can_add_asset_qty",
	PermSubtractAssetQty:           "can_subtract_asset_qty",
	PermAddPeer:                    "can_add_peer",
	PermRemovePeer:                 "can_remove_peer",
	PermAddSignatory:               "can_add_signatory",
	PermRemoveSignatory:            "can_remove_signatory",
	PermSetQuorum:                  "can_set_quorum",
	PermCreateAccount:              "can_create_account",
	PermSetDetail:                  "can_set_detail",
	PermCreateAsset:                "can_create_asset",
	PermTransfer:                   "can_transfer",
	PermReceive:                    "can_receive",
	PermCreateDomain:               "can_create_domain",
	PermAddDomainAssetQty:          "can_add_domain_asset_qty",
	PermSubtractDomainAssetQty:     "can_subtract_domain_asset_qty",
	PermSetSettingValue:            "can_set_setting_value",
	PermReadAssets:                 "can_read_assets",
	PermGetRoles:                   "can_get_roles",
	PermGetMyAccount:               "can_get_my_account",
	PermGetAllAccounts:             "can_get_all_accounts",
	PermGetDomainAccounts:          "can_get_domain_accounts",
	PermGetMySignatories:           "can_get_my_signatories",
	PermGetAllSignatories:          "can_get_all_signatories",
	PermGetDomainSignatories:       "can_get_domain_signatories",
	PermGetMyAccAst:                "can_get_my_acc_ast",
	PermGetAllAccAst:               "can_get_all_acc_ast",
	PermGetDomainAccAst:            "can_get_domain_acc_ast",
	PermGetMyAccDetail:             "can_get_my_acc_detail",
	PermGetAllAccDetail:            "can_get_all_acc_detail",
	PermGetDomainAccDetail:         "can_get_domain_acc_detail",
	PermGetMyAccTxs:                "can_get_my_acc_txs",
	PermGetAllAccTxs:               "can_get_all_acc_txs",
	PermGetDomainAccTxs:            "can_get_domain_acc_txs",
	PermGetMyAccAstTxs:             "can_get_my_acc_ast_txs",
	PermGetAllAccAstTxs:            "can_get_all_acc_ast_txs",
	PermGetDomainAccAstTxs:         "can_get_domain_acc_ast_txs",
	PermGetMyTxs:                   "can_get_my_txs",
	PermGetAllTxs:                  "can_get_all_txs",
	PermGetBlocks:                  "can_get_blocks",
	PermGetPeers:                   "can_get_peers",
	PermGrantCanSetMyQuorum:        "can_grant_can_set_my_quorum",
	PermGrantCanAddMySignatory:     "can_grant_can_add_my_signatory",
	PermGrantCanRemoveMySignatory:  "can_grant_can_remove_my_signatory",
	PermGrantCanTransferMyAssets:   "can_grant_can_transfer_my_assets",
	PermGrantCanSetMyAccountDetail: "can_grant_can_set_my_account_detail",
	PermRoot:                       "root",
}

// String returns the Permission as a human-readable name.
func (p Permission) String() string {
	if s := permissionStrings[p]; s != "" {
		return s
	}
	return fmt.Sprintf("unknown permission (%d)", int(p))
}

// Grantable is a permission one account grants to another account over
// itself, as opposed to role permissions which are global.
type Grantable int

const (
	GrantSetMyQuorum Grantable = iota
	GrantAddMySignatory
	GrantRemoveMySignatory
	GrantTransferMyAssets
	GrantSetMyAccountDetail

	GrantableCount
)

var grantableStrings = map[Grantable]string{
	GrantSetMyQuorum:        "can_set_my_quorum",
	GrantAddMySignatory:     "can_add_my_signatory",
	GrantRemoveMySignatory:  "can_remove_my_signatory",
	GrantTransferMyAssets:   "can_transfer_my_assets",
	GrantSetMyAccountDetail: "can_set_my_account_detail",
}

// String returns the Grantable as a human-readable name.
func (g Grantable) String() string {
	if s := grantableStrings[g]; s != "" {
		return s
	}
	return fmt.Sprintf("unknown grantable permission (%d)", int(g))
}

// RequiredToGrant returns the role permission an account must hold to
// grant this grantable permission to somebody else.
func (g Grantable) RequiredToGrant() Permission {
	switch g {
	case GrantSetMyQuorum:
		return PermGrantCanSetMyQuorum
	case GrantAddMySignatory:
		return PermGrantCanAddMySignatory
	case GrantRemoveMySignatory:
		return PermGrantCanRemoveMySignatory
	case GrantTransferMyAssets:
		return PermGrantCanTransferMyAssets
	case GrantSetMyAccountDetail:
		return PermGrantCanSetMyAccountDetail
	}
	return PermRoot
}

// PermissionSet is a fixed-width set of role permissions. The persisted
// form is a bitstring of '0' and '1' characters, one per permission.
type PermissionSet [PermissionCount]bool

func NewPermissionSet(perms ...Permission) PermissionSet {
	var ps PermissionSet
	for _, p := range perms {
		ps.Set(p)
	}
	return ps
}

func (ps *PermissionSet) Set(p Permission) {
	ps[p] = true
}

func (ps *PermissionSet) Unset(p Permission) {
	ps[p] = false
}

func (ps PermissionSet) IsSet(p Permission) bool {
	return ps[p]
}

// SetAll sets every permission in the set. A role holding Root is
// expanded this way at creation time.
func (ps *PermissionSet) SetAll() {
	for i := range ps {
		ps[i] = true
	}
}

// Union merges other into the receiver.
func (ps *PermissionSet) Union(other PermissionSet) {
	for i := range ps {
		ps[i] = ps[i] || other[i]
	}
}

// IsSubsetOf reports whether every permission in ps is also in other.
func (ps PermissionSet) IsSubsetOf(other PermissionSet) bool {
	for i := range ps {
		if ps[i] && !other[i] {
			return false
		}
	}
	return true
}

// Bitstring returns the persisted representation.
func (ps PermissionSet) Bitstring() string {
	b := make([]byte, PermissionCount)
	for i := range ps {
		if ps[i] {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// PermissionSetFromBitstring decodes the persisted representation. The
// bitstring may be shorter than the current permission count if it was
// written by an older version; missing trailing bits read as unset.
func PermissionSetFromBitstring(s string) (PermissionSet, error) {
	var ps PermissionSet
	if len(s) > int(PermissionCount) {
		return ps, fmt.Errorf("permission bitstring too long: %d", len(s))
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			ps[i] = true
		case '0':
		default:
			return ps, fmt.Errorf("invalid permission bitstring character %q", s[i])
		}
	}
	return ps, nil
}

// GrantableSet is a fixed-width set of grantable permissions with the
// same bitstring persisted form as PermissionSet.
type GrantableSet [GrantableCount]bool

func NewGrantableSet(perms ...Grantable) GrantableSet {
	var gs GrantableSet
	for _, g := range perms {
		gs.Set(g)
	}
	return gs
}

func (gs *GrantableSet) Set(g Grantable) {
	gs[g] = true
}

func (gs *GrantableSet) Unset(g Grantable) {
	gs[g] = false
}

func (gs GrantableSet) IsSet(g Grantable) bool {
	return gs[g]
}

// IsEmpty reports whether no grantable permission is set.
func (gs GrantableSet) IsEmpty() bool {
	for _, set := range gs {
		if set {
			return false
		}
	}
	return true
}

func (gs GrantableSet) Bitstring() string {
	b := make([]byte, GrantableCount)
	for i := range gs {
		if gs[i] {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func GrantableSetFromBitstring(s string) (GrantableSet, error) {
	var gs GrantableSet
	if len(s) > int(GrantableCount) {
		return gs, fmt.Errorf("grantable bitstring too long: %d", len(s))
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			gs[i] = true
		case '0':
		default:
			return gs, fmt.Errorf("invalid grantable bitstring character %q", s[i])
		}
	}
	return gs, nil
}
