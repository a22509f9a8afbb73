// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"github.com/project-meridian/meridiand/types"
)

// genesisWriter is used as the detail writer when commands carry no
// creator (genesis block).
const genesisWriter = "genesis"

// MaxDescriptionSizeKey is the setting bounding TransferAsset
// description length. Unset means unbounded.
const MaxDescriptionSizeKey = "MaxDescriptionSize"

// CommandExecutor applies ledger commands to the world state view
// inside a caller-provided transaction. It is stateless; one executor
// serves any number of transactions sequentially.
type CommandExecutor struct{}

func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Execute applies cmd on behalf of creator. With doValidation false
// (genesis or replay of already-validated blocks) permission checks
// are skipped but structural and integrity checks still run. Expected
// failures come back as *Error with a stable code; storage failures as
// *StoreError.
func (e *CommandExecutor) Execute(tc *TxContext, cmd types.Command, creator types.AccountID, txHash types.ID, cmdIndex int, doValidation bool) error {
	var creatorPerms types.PermissionSet
	if doValidation {
		perms, err := accountPermissions(tc, creator)
		if err != nil {
			return err
		}
		creatorPerms = perms
	}

	var err error
	switch c := cmd.(type) {
	case *types.AddAssetQuantity:
		err = e.addAssetQuantity(tc, c, creator, creatorPerms, doValidation)
	case *types.AddPeer:
		err = e.addPeer(tc, c, creatorPerms, doValidation)
	case *types.AddSignatory:
		err = e.addSignatory(tc, c, creator, creatorPerms, doValidation)
	case *types.AppendRole:
		err = e.appendRole(tc, c, creatorPerms, doValidation)
	case *types.CompareAndSetAccountDetail:
		err = e.compareAndSetAccountDetail(tc, c, creator, creatorPerms, doValidation)
	case *types.CreateAccount:
		err = e.createAccount(tc, c, creatorPerms, doValidation)
	case *types.CreateAsset:
		err = e.createAsset(tc, c, creatorPerms, doValidation)
	case *types.CreateDomain:
		err = e.createDomain(tc, c, creatorPerms, doValidation)
	case *types.CreateRole:
		err = e.createRole(tc, c, creatorPerms, doValidation)
	case *types.DetachRole:
		err = e.detachRole(tc, c, creatorPerms, doValidation)
	case *types.GrantPermission:
		err = e.grantPermission(tc, c, creator, creatorPerms, doValidation)
	case *types.RemovePeer:
		err = e.removePeer(tc, c, creatorPerms, doValidation)
	case *types.RemoveSignatory:
		err = e.removeSignatory(tc, c, creator, creatorPerms, doValidation)
	case *types.RevokePermission:
		err = e.revokePermission(tc, c, creator, doValidation)
	case *types.SetAccountDetail:
		err = e.setAccountDetail(tc, c, creator, creatorPerms, doValidation)
	case *types.SetQuorum:
		err = e.setQuorum(tc, c, creator, creatorPerms, doValidation)
	case *types.SetSettingValue:
		err = e.setSettingValue(tc, c, creatorPerms, doValidation)
	case *types.SubtractAssetQuantity:
		err = e.subtractAssetQuantity(tc, c, creator, creatorPerms, doValidation)
	case *types.TransferAsset:
		err = e.transferAsset(tc, c, creator, creatorPerms, doValidation)
	default:
		err = errorf(CodeNotConfigured, "unknown command %s", cmd.Name())
	}
	if err != nil && !IsStoreFailure(err) {
		log.Debug("Command rejected",
			log.ArgsFromMap(map[string]any{
				"command": cmd.Name(),
				"creator": string(creator),
				"index":   cmdIndex,
				"error":   err.Error(),
			}))
	}
	return err
}

// checkAnyPermission passes when perms holds Root or any of the listed
// permissions.
func checkAnyPermission(perms types.PermissionSet, candidates ...types.Permission) error {
	if perms.IsSet(types.PermRoot) {
		return nil
	}
	for _, p := range candidates {
		if perms.IsSet(p) {
			return nil
		}
	}
	return errorf(CodeNoPermissions, "No permissions.")
}

// checkDomainPermission passes on the global permission, or on the
// domain-scoped one when the target domain is the creator's own.
func checkDomainPermission(domainID, creatorDomain string, perms types.PermissionSet, global, domainScoped types.Permission) error {
	if perms.IsSet(types.PermRoot) || perms.IsSet(global) {
		return nil
	}
	if domainID == creatorDomain && perms.IsSet(domainScoped) {
		return nil
	}
	return errorf(CodeNoPermissions, "No permissions.")
}

// checkGrantedPermission passes when the creator was granted g by the
// target account, or holds Root.
func checkGrantedPermission(perms types.PermissionSet, granted types.GrantableSet, g types.Grantable) error {
	if granted.IsSet(g) || perms.IsSet(types.PermRoot) {
		return nil
	}
	return errorf(CodeNoPermissions, "No permissions.")
}

// checkRoleOrGrantedPermission passes on the role permission or the
// granted permission.
func checkRoleOrGrantedPermission(perms types.PermissionSet, granted types.GrantableSet, role types.Permission, g types.Grantable) error {
	if perms.IsSet(types.PermRoot) || perms.IsSet(role) || granted.IsSet(g) {
		return nil
	}
	return errorf(CodeNoPermissions, "No permissions.")
}

// grantedToCreator loads the grantable set target granted to creator.
func grantedToCreator(tc *TxContext, creator, target types.AccountID) (types.GrantableSet, error) {
	gs, _, err := forGranted(tc, creator, target)
	return gs, err
}

func (e *CommandExecutor) addAssetQuantity(tc *TxContext, c *types.AddAssetQuantity, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	assetDomain := c.AssetID.Domain()
	if doValidation {
		if err := checkDomainPermission(assetDomain, creator.Domain(), perms,
			types.PermAddAssetQty, types.PermAddDomainAssetQty); err != nil {
			return err
		}
	}

	precision, _, err := forAsset(tc, c.AssetID, mustExist, CodeNotFound)
	if err != nil {
		return err
	}

	amount, perr := types.ParseAmount(c.Amount)
	if perr != nil || amount.Precision() > precision {
		return errorf(CodeInvalidAssetAmount, "Invalid asset %s amount %s", c.AssetID, c.Amount)
	}

	assetCount, err := forAccountAssetSize(tc, creator)
	if err != nil {
		return err
	}

	balance, found, err := forAccountAsset(tc, creator, c.AssetID, canExist, 0)
	if err != nil {
		return err
	}
	if !found {
		balance = types.NewAmount(precision)
		assetCount++
	}

	newBalance, perr := balance.Add(amount)
	if perr != nil {
		return errorf(CodeInvalidAssetAmount, "Invalid asset %s amount %s", c.AssetID, c.Amount)
	}

	if err := putAccountAsset(tc, creator, c.AssetID, newBalance); err != nil {
		return err
	}
	return putAccountAssetSize(tc, creator, assetCount)
}

func (e *CommandExecutor) addPeer(tc *TxContext, c *types.AddPeer, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, types.PermAddPeer); err != nil {
			return err
		}
	}

	// The key must be free in both peer keyspaces.
	if _, err := checkKey(tc, keyPeerAddress(c.PublicKey, false), mustNotExist, CodeMustNotExist, "peer "+c.PublicKey); err != nil {
		return err
	}
	if _, err := checkKey(tc, keyPeerAddress(c.PublicKey, true), mustNotExist, CodeMustNotExist, "peer "+c.PublicKey); err != nil {
		return err
	}

	count, err := forPeersCount(tc, c.SyncingPeer)
	if err != nil {
		return err
	}
	if err := putPeersCount(tc, c.SyncingPeer, count+1); err != nil {
		return err
	}

	return putPeer(tc, Peer{
		PublicKey:      c.PublicKey,
		Address:        c.Address,
		TLSCertificate: c.TLSCertificate,
		Syncing:        c.SyncingPeer,
	})
}

func (e *CommandExecutor) addSignatory(tc *TxContext, c *types.AddSignatory, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if creator == c.AccountID {
			if err := checkAnyPermission(perms, types.PermAddSignatory); err != nil {
				return err
			}
		} else {
			granted, err := grantedToCreator(tc, creator, c.AccountID)
			if err != nil {
				return err
			}
			if err := checkGrantedPermission(perms, granted, types.GrantAddMySignatory); err != nil {
				return err
			}
		}
	}

	if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
		return err
	}

	found, err := checkSignatory(tc, c.AccountID, c.PublicKey, canExist, 0)
	if err != nil {
		return err
	}
	if found {
		return errorf(CodeSignatoryMustNotExist, "Signatory must not exist.")
	}
	return putSignatory(tc, c.AccountID, c.PublicKey)
}

func (e *CommandExecutor) appendRole(tc *TxContext, c *types.AppendRole, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, types.PermAppendRole); err != nil {
			return err
		}
		rolePerms, _, err := forRole(tc, c.RoleName, mustExist, CodeNotFound)
		if err != nil {
			return err
		}
		if !rolePerms.IsSubsetOf(perms) {
			return errorf(CodeNoPermissions, "Insufficient permissions")
		}
	}

	if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
		return err
	}
	if _, err := checkAccountRole(tc, c.AccountID, c.RoleName, mustNotExist, CodeMustNotExist); err != nil {
		return err
	}
	return putAccountRole(tc, c.AccountID, c.RoleName)
}

func (e *CommandExecutor) compareAndSetAccountDetail(tc *TxContext, c *types.CompareAndSetAccountDetail, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		granted, err := grantedToCreator(tc, creator, c.AccountID)
		if err != nil {
			return err
		}
		if err := checkRoleOrGrantedPermission(perms, granted,
			types.PermGetMyAccDetail, types.GrantSetMyAccountDetail); err != nil {
			return err
		}
	}

	writer := creator
	if writer == "" {
		writer = genesisWriter
	}

	if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
		return err
	}

	stored, found, err := forAccountDetail(tc, c.AccountID, writer, c.Key, canExist, 0)
	if err != nil {
		return err
	}

	eq := c.OldValue != nil && found && stored == *c.OldValue
	var same bool
	if c.CheckEmpty {
		same = c.OldValue == nil && !found
	} else {
		same = !found
	}
	if !eq && !same {
		return errorf(CodeIncorrectOldValue, "Old value incorrect")
	}

	if err := putAccountDetail(tc, c.AccountID, writer, c.Key, c.Value); err != nil {
		return err
	}
	if !found {
		count, err := forAccountDetailsCount(tc, c.AccountID)
		if err != nil {
			return err
		}
		if err := putAccountDetailsCount(tc, c.AccountID, count+1); err != nil {
			return err
		}
	}
	return nil
}

// createAccount makes a roleless account with quorum one. Role
// attachment is always a separate explicit AppendRole; the domain's
// default role only gates who may create accounts in the domain.
func (e *CommandExecutor) createAccount(tc *TxContext, c *types.CreateAccount, perms types.PermissionSet, doValidation bool) error {
	if c.PublicKey == "" {
		return errorf(CodePublicKeyEmpty, "Pubkey empty.")
	}
	if doValidation {
		if err := checkAnyPermission(perms, types.PermCreateAccount); err != nil {
			return err
		}
	}

	defaultRole, _, err := forDomain(tc, c.DomainID, mustExist, CodeNotFound)
	if err != nil {
		return err
	}
	rolePerms, _, err := forRole(tc, defaultRole, mustExist, CodeNotFound)
	if err != nil {
		return err
	}
	if doValidation && !rolePerms.IsSubsetOf(perms) {
		return errorf(CodeNoPermissions, "Insufficient permissions")
	}

	accountID := types.NewAccountID(c.AccountName, c.DomainID)
	if doValidation {
		if _, err := checkAccount(tc, accountID, mustNotExist, CodeMustNotExist); err != nil {
			return err
		}
	}

	if err := putSignatory(tc, accountID, c.PublicKey); err != nil {
		return err
	}
	return putQuorum(tc, accountID, 1)
}

func (e *CommandExecutor) createAsset(tc *TxContext, c *types.CreateAsset, perms types.PermissionSet, doValidation bool) error {
	assetID := types.NewAssetID(c.AssetName, c.DomainID)
	if doValidation {
		if err := checkAnyPermission(perms, types.PermCreateAsset); err != nil {
			return err
		}
		if _, _, err := forAsset(tc, assetID, mustNotExist, CodeMustNotExist); err != nil {
			return err
		}
		if _, _, err := forDomain(tc, c.DomainID, mustExist, CodeNotFound); err != nil {
			return err
		}
	}
	return putAsset(tc, assetID, c.Precision)
}

func (e *CommandExecutor) createDomain(tc *TxContext, c *types.CreateDomain, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, types.PermCreateDomain); err != nil {
			return err
		}
		if _, _, err := forDomain(tc, c.DomainID, mustNotExist, CodeMustNotExist); err != nil {
			return err
		}
		if _, _, err := forRole(tc, c.DefaultRole, mustExist, CodeNotFound); err != nil {
			return err
		}
	}

	if err := incrementCount(tc, keyDomainsTotalCount()); err != nil {
		return err
	}
	return putDomain(tc, c.DomainID, c.DefaultRole)
}

func (e *CommandExecutor) createRole(tc *TxContext, c *types.CreateRole, perms types.PermissionSet, doValidation bool) error {
	rolePerms := c.Permissions
	// Root implies everything; expand at creation so permission
	// aggregation needs no special case.
	if rolePerms.IsSet(types.PermRoot) {
		rolePerms.SetAll()
	}

	if doValidation {
		if err := checkAnyPermission(perms, types.PermCreateRole); err != nil {
			return err
		}
		if !rolePerms.IsSubsetOf(perms) {
			return errorf(CodeNoPermissions, "Insufficient permissions")
		}
	}

	found, err := checkKey(tc, keyRole(c.RoleName), canExist, 0, "")
	if err != nil {
		return err
	}
	if found {
		return errorf(CodeRoleAlreadyExists, "Already exists.")
	}
	return putRole(tc, c.RoleName, rolePerms)
}

func (e *CommandExecutor) detachRole(tc *TxContext, c *types.DetachRole, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, types.PermDetachRole); err != nil {
			return err
		}
	}
	if _, _, err := forRole(tc, c.RoleName, mustExist, CodeNotFound); err != nil {
		return err
	}
	if doValidation {
		if _, err := checkAccountRole(tc, c.AccountID, c.RoleName, mustExist, CodeNotFound); err != nil {
			return err
		}
	}
	return deleteAccountRole(tc, c.AccountID, c.RoleName)
}

func (e *CommandExecutor) grantPermission(tc *TxContext, c *types.GrantPermission, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, c.Permission.RequiredToGrant()); err != nil {
			return err
		}
		if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
			return err
		}
	}

	granted, _, err := forGranted(tc, c.AccountID, creator)
	if err != nil {
		return err
	}
	if granted.IsSet(c.Permission) {
		return errorf(CodePermissionAlreadySet, "Permission is already set.")
	}
	granted.Set(c.Permission)
	return putGranted(tc, c.AccountID, creator, granted)
}

func (e *CommandExecutor) removePeer(tc *TxContext, c *types.RemovePeer, perms types.PermissionSet, doValidation bool) error {
	if c.PublicKey == "" {
		return errorf(CodePublicKeyEmpty, "Pubkey empty.")
	}
	if doValidation {
		if err := checkAnyPermission(perms, types.PermAddPeer, types.PermRemovePeer); err != nil {
			return err
		}
	}

	syncing := false
	_, _, err := forPeerAddress(tc, c.PublicKey, syncing, mustExist, CodeNotFound)
	if err != nil {
		if IsStoreFailure(err) {
			return err
		}
		syncing = true
		if _, _, err := forPeerAddress(tc, c.PublicKey, syncing, mustExist, CodeNotFound); err != nil {
			return err
		}
	}

	v, _, err := getValue(tc, keyPeersCount(syncing), mustExist, CodeNotFound, "peers count")
	if err != nil {
		return err
	}
	count, err := parseUintValue(v, "peers count")
	if err != nil {
		return err
	}
	if count == 1 {
		return errorf(CodePeersCountNotEnough, "Can not remove last peer %s.", c.PublicKey)
	}
	if err := putPeersCount(tc, syncing, count-1); err != nil {
		return err
	}
	return deletePeer(tc, c.PublicKey, syncing)
}

func (e *CommandExecutor) removeSignatory(tc *TxContext, c *types.RemoveSignatory, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	quorum, _, err := forQuorum(tc, c.AccountID, mustExist, CodeNoAccount)
	if err != nil {
		return err
	}

	if doValidation {
		if creator == c.AccountID {
			if err := checkAnyPermission(perms, types.PermRemoveSignatory); err != nil {
				return err
			}
		} else {
			granted, err := grantedToCreator(tc, creator, c.AccountID)
			if err != nil {
				return err
			}
			if err := checkGrantedPermission(perms, granted, types.GrantRemoveMySignatory); err != nil {
				return err
			}
		}
	}

	found, err := checkSignatory(tc, c.AccountID, c.PublicKey, canExist, 0)
	if err != nil {
		return err
	}
	if !found {
		return errorf(CodeNoSignatory, "Signatory does not exist.")
	}

	count, err := countSignatories(tc, c.AccountID)
	if err != nil {
		return err
	}
	if count <= uint64(quorum) {
		return errorf(CodeCountNotEnough,
			"Remove signatory %s for account %s with quorum %d failed.",
			c.PublicKey, c.AccountID, quorum)
	}
	return deleteSignatory(tc, c.AccountID, c.PublicKey)
}

func (e *CommandExecutor) revokePermission(tc *TxContext, c *types.RevokePermission, creator types.AccountID, doValidation bool) error {
	if doValidation {
		if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
			return err
		}
	}

	granted, _, err := forGranted(tc, c.AccountID, creator)
	if err != nil {
		return err
	}
	if !granted.IsSet(c.Permission) {
		return errorf(CodeNoPermissions, "Permission not set")
	}
	granted.Unset(c.Permission)
	if granted.IsEmpty() {
		return deleteGranted(tc, c.AccountID, creator)
	}
	return putGranted(tc, c.AccountID, creator, granted)
}

func (e *CommandExecutor) setAccountDetail(tc *TxContext, c *types.SetAccountDetail, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if c.AccountID != creator {
			granted, err := grantedToCreator(tc, creator, c.AccountID)
			if err != nil {
				return err
			}
			if err := checkRoleOrGrantedPermission(perms, granted,
				types.PermSetDetail, types.GrantSetMyAccountDetail); err != nil {
				return err
			}
		}
		if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
			return err
		}
	}

	writer := creator
	if writer == "" {
		writer = genesisWriter
	}

	_, found, err := forAccountDetail(tc, c.AccountID, writer, c.Key, canExist, 0)
	if err != nil {
		return err
	}
	if err := putAccountDetail(tc, c.AccountID, writer, c.Key, c.Value); err != nil {
		return err
	}
	if !found {
		count, err := forAccountDetailsCount(tc, c.AccountID)
		if err != nil {
			return err
		}
		if err := putAccountDetailsCount(tc, c.AccountID, count+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *CommandExecutor) setQuorum(tc *TxContext, c *types.SetQuorum, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if _, err := checkAccount(tc, c.AccountID, mustExist, CodeNoAccount); err != nil {
			return err
		}
		granted, err := grantedToCreator(tc, creator, c.AccountID)
		if err != nil {
			return err
		}
		if err := checkRoleOrGrantedPermission(perms, granted,
			types.PermSetQuorum, types.GrantSetMyQuorum); err != nil {
			return err
		}
	}

	count, err := countSignatories(tc, c.AccountID)
	if err != nil {
		return err
	}
	if uint64(c.Quorum) > count {
		return errorf(CodeCountNotEnough,
			"Quorum value more than signatories. Account %s, quorum %d, signatories %d.",
			c.AccountID, c.Quorum, count)
	}
	return putQuorum(tc, c.AccountID, c.Quorum)
}

func (e *CommandExecutor) setSettingValue(tc *TxContext, c *types.SetSettingValue, perms types.PermissionSet, doValidation bool) error {
	if doValidation {
		if err := checkAnyPermission(perms, types.PermSetSettingValue); err != nil {
			return err
		}
	}
	return putSetting(tc, c.Key, c.Value)
}

func (e *CommandExecutor) subtractAssetQuantity(tc *TxContext, c *types.SubtractAssetQuantity, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	assetDomain := c.AssetID.Domain()
	if doValidation {
		if err := checkDomainPermission(assetDomain, creator.Domain(), perms,
			types.PermSubtractAssetQty, types.PermSubtractDomainAssetQty); err != nil {
			return err
		}
	}

	precision, _, err := forAsset(tc, c.AssetID, mustExist, CodeNotFound)
	if err != nil {
		return err
	}

	amount, perr := types.ParseAmount(c.Amount)
	if perr != nil {
		return errorf(CodeInvalidAmount, "Invalid amount %s from %s", c.Amount, creator)
	}
	if amount.Precision() > precision {
		return errorf(CodeInvalidAmount,
			"Invalid precision of asset: %s from: %s. Expected: %d, but got: %d",
			c.AssetID, creator, precision, amount.Precision())
	}

	balance, found, err := forAccountAsset(tc, creator, c.AssetID, canExist, 0)
	if err != nil {
		return err
	}
	if !found {
		balance = types.NewAmount(precision)
	}

	newBalance, perr := balance.Sub(amount)
	if perr != nil {
		return errorf(CodeNotEnoughAssets, "Not enough assets")
	}
	return putAccountAsset(tc, creator, c.AssetID, newBalance)
}

func (e *CommandExecutor) transferAsset(tc *TxContext, c *types.TransferAsset, creator types.AccountID, perms types.PermissionSet, doValidation bool) error {
	if _, err := checkAccount(tc, c.DestAccountID, mustExist, CodeNoAccount); err != nil {
		return err
	}
	if _, err := checkAccount(tc, c.SrcAccountID, mustExist, CodeNoAccount); err != nil {
		return err
	}

	if doValidation {
		destPerms, err := accountPermissions(tc, c.DestAccountID)
		if err != nil {
			return err
		}
		if !destPerms.IsSet(types.PermReceive) && !destPerms.IsSet(types.PermRoot) {
			return errorf(CodeNoPermissions, "Not enough permissions. Destination %s can not receive.", c.DestAccountID)
		}

		if c.SrcAccountID != creator {
			granted, err := grantedToCreator(tc, creator, c.SrcAccountID)
			if err != nil {
				return err
			}
			if err := checkGrantedPermission(perms, granted, types.GrantTransferMyAssets); err != nil {
				return err
			}
		} else if err := checkAnyPermission(perms, types.PermTransfer); err != nil {
			return err
		}

		if _, _, err := forAsset(tc, c.AssetID, mustExist, CodeNotFound); err != nil {
			return err
		}

		maxDesc, found, err := forSetting(tc, MaxDescriptionSizeKey)
		if err != nil {
			return err
		}
		if found {
			limit, perr := parseUintValue(maxDesc, "max description size")
			if perr != nil {
				return perr
			}
			if uint64(len(c.Description)) > limit {
				return errorf(CodeInvalidFieldSize, "Too big description")
			}
		}
	}

	precision, _, err := forAsset(tc, c.AssetID, mustExist, CodeNotFound)
	if err != nil {
		return err
	}
	amount, perr := types.ParseAmount(c.Amount)
	if perr != nil {
		return errorf(CodeInvalidAmount, "Invalid amount %s", c.Amount)
	}
	if amount.Precision() > precision {
		return errorf(CodeInvalidAmount,
			"Invalid precision of asset: %s. Expected: %d, but got: %d",
			c.AssetID, precision, amount.Precision())
	}

	srcBalance, _, err := forAccountAsset(tc, c.SrcAccountID, c.AssetID, mustExist, CodeNotFound)
	if err != nil {
		return err
	}
	newSrcBalance, perr := srcBalance.Sub(amount)
	if perr != nil {
		return errorf(CodeNotEnoughAssets, "Not enough assets")
	}

	destAssetCount, err := forAccountAssetSize(tc, c.DestAccountID)
	if err != nil {
		return err
	}
	destBalance, found, err := forAccountAsset(tc, c.DestAccountID, c.AssetID, canExist, 0)
	if err != nil {
		return err
	}
	if !found {
		destBalance = types.NewAmount(precision)
		destAssetCount++
	}
	newDestBalance, perr := destBalance.Add(amount)
	if perr != nil {
		return errorf(CodeIncorrectBalance, "Incorrect balance")
	}

	if err := putAccountAsset(tc, c.SrcAccountID, c.AssetID, newSrcBalance); err != nil {
		return err
	}
	if err := putAccountAsset(tc, c.DestAccountID, c.AssetID, newDestBalance); err != nil {
		return err
	}
	return putAccountAssetSize(tc, c.DestAccountID, destAssetCount)
}
