// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"context"
	"testing"

	"github.com/project-meridian/meridiand/repo/mock"
	"github.com/project-meridian/meridiand/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alicePub = "f1d2d2f924e986ac86fdf7b36c94bcdf32beec15"
	bobPub   = "e242ed3bffccdf271b7fbaf34ed72d089537b42f"
	carolPub = "6eadeac2dade6347e87c0d24fd455feffa7069f0"
)

var (
	aliceID = types.NewAccountID("alice", "test")
	bobID   = types.NewAccountID("bob", "test")
	coinID  = types.NewAssetID("coin", "test")
)

func newTestExecutor(t *testing.T) (*CommandExecutor, *TxContext) {
	ds := mock.NewMapDatastore()
	tc, err := NewTxContext(context.Background(), ds)
	require.NoError(t, err)
	t.Cleanup(tc.Discard)
	return NewCommandExecutor(), tc
}

func execGenesis(t *testing.T, e *CommandExecutor, tc *TxContext, cmds ...types.Command) {
	t.Helper()
	for i, cmd := range cmds {
		require.NoError(t, e.Execute(tc, cmd, "", types.ID{}, i, false))
	}
}

// setupLedger seeds two accounts in domain "test": alice holding the
// root role and bob holding only the receive-capable user role.
func setupLedger(t *testing.T, e *CommandExecutor, tc *TxContext) {
	t.Helper()
	execGenesis(t, e, tc,
		&types.CreateRole{RoleName: "admin", Permissions: types.NewPermissionSet(types.PermRoot)},
		&types.CreateRole{RoleName: "user", Permissions: types.NewPermissionSet(types.PermReceive)},
		&types.CreateDomain{DomainID: "test", DefaultRole: "user"},
		&types.CreateAccount{AccountName: "alice", DomainID: "test", PublicKey: alicePub},
		&types.AppendRole{AccountID: aliceID, RoleName: "admin"},
		&types.CreateAccount{AccountName: "bob", DomainID: "test", PublicKey: bobPub},
		&types.AppendRole{AccountID: bobID, RoleName: "user"},
		&types.CreateAsset{AssetName: "coin", DomainID: "test", Precision: 2},
	)
}

func TestCreateDomainAndAccount(t *testing.T) {
	e, tc := newTestExecutor(t)
	execGenesis(t, e, tc,
		&types.CreateRole{RoleName: "user", Permissions: types.NewPermissionSet(types.PermReceive)},
		&types.CreateDomain{DomainID: "test", DefaultRole: "user"},
		&types.CreateAccount{AccountName: "alice", DomainID: "test", PublicKey: alicePub},
	)

	quorum, found, err := forQuorum(tc, aliceID, mustExist, CodeNoAccount)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(1), quorum)

	// No role is attached at creation.
	roles, err := accountRoles(tc, aliceID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	sigs, err := signatories(tc, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{alicePub}, sigs)

	count, err := forCount(tc, keyDomainsTotalCount())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCreateAccountEmptyPubkey(t *testing.T) {
	e, tc := newTestExecutor(t)
	err := e.Execute(tc, &types.CreateAccount{AccountName: "alice", DomainID: "test"}, "", types.ID{}, 0, false)
	assert.True(t, ErrorCodeIs(err, CodePublicKeyEmpty))
}

func TestCreateAccountUnknownDomain(t *testing.T) {
	e, tc := newTestExecutor(t)
	err := e.Execute(tc, &types.CreateAccount{AccountName: "alice", DomainID: "nowhere", PublicKey: alicePub}, "", types.ID{}, 0, false)
	assert.True(t, ErrorCodeIs(err, CodeNotFound))
}

func TestCreateDomainRequiresPermission(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	// Bob's user role carries no domain-creation permission.
	err := e.Execute(tc, &types.CreateDomain{DomainID: "market", DefaultRole: "user"}, bobID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))

	// Root bypasses every permission check.
	err = e.Execute(tc, &types.CreateDomain{DomainID: "market", DefaultRole: "user"}, aliceID, types.ID{}, 0, true)
	assert.NoError(t, err)
}

func TestAddAndSubtractAssetQuantity(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	for i := 0; i < 2; i++ {
		err := e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "1.00"}, aliceID, types.ID{}, i, true)
		require.NoError(t, err)
	}

	balance, found, err := forAccountAsset(tc, aliceID, coinID, canExist, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2.00", balance.String())

	size, err := forAccountAssetSize(tc, aliceID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), size)

	// Underflow is rejected and leaves the balance untouched.
	err = e.Execute(tc, &types.SubtractAssetQuantity{AssetID: coinID, Amount: "3.00"}, aliceID, types.ID{}, 2, true)
	assert.True(t, ErrorCodeIs(err, CodeNotEnoughAssets))

	balance, _, err = forAccountAsset(tc, aliceID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.Equal(t, "2.00", balance.String())

	err = e.Execute(tc, &types.SubtractAssetQuantity{AssetID: coinID, Amount: "0.50"}, aliceID, types.ID{}, 3, true)
	require.NoError(t, err)
	balance, _, err = forAccountAsset(tc, aliceID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.Equal(t, "1.50", balance.String())
}

func TestAddAssetQuantityPrecisionMismatch(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "1.005"}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeInvalidAssetAmount))
}

func TestAddAssetQuantityUnknownAsset(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.AddAssetQuantity{AssetID: types.NewAssetID("gold", "test"), Amount: "1.00"}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNotFound))
}

func TestTransferAsset(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	require.NoError(t, e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "5.00"}, aliceID, types.ID{}, 0, true))

	err := e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: bobID,
		AssetID:       coinID,
		Amount:        "2.00",
	}, aliceID, types.ID{}, 1, true)
	require.NoError(t, err)

	src, _, err := forAccountAsset(tc, aliceID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.Equal(t, "3.00", src.String())

	dest, _, err := forAccountAsset(tc, bobID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.Equal(t, "2.00", dest.String())

	destSize, err := forAccountAssetSize(tc, bobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), destSize)
}

func TestTransferAssetNoSourceBalance(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: bobID,
		AssetID:       coinID,
		Amount:        "1.00",
	}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNotFound))

	// No balance row appears on either side.
	_, found, err := forAccountAsset(tc, aliceID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = forAccountAsset(tc, bobID, coinID, canExist, 0)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTransferAssetInsufficientFunds(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	require.NoError(t, e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "2.00"}, aliceID, types.ID{}, 0, true))

	err := e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: bobID,
		AssetID:       coinID,
		Amount:        "3.00",
	}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeNotEnoughAssets))
}

func TestTransferAssetDestinationCannotReceive(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	execGenesis(t, e, tc,
		&types.CreateAccount{AccountName: "carol", DomainID: "test", PublicKey: carolPub},
	)
	require.NoError(t, e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "2.00"}, aliceID, types.ID{}, 0, true))

	// Carol is roleless and therefore lacks the receive permission.
	err := e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: types.NewAccountID("carol", "test"),
		AssetID:       coinID,
		Amount:        "1.00",
	}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))
}

func TestTransferAssetDescriptionLimit(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	execGenesis(t, e, tc, &types.SetSettingValue{Key: MaxDescriptionSizeKey, Value: "5"})
	require.NoError(t, e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "2.00"}, aliceID, types.ID{}, 0, true))

	err := e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: bobID,
		AssetID:       coinID,
		Description:   "rather too long",
		Amount:        "1.00",
	}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeInvalidFieldSize))

	err = e.Execute(tc, &types.TransferAsset{
		SrcAccountID:  aliceID,
		DestAccountID: bobID,
		AssetID:       coinID,
		Description:   "rent",
		Amount:        "1.00",
	}, aliceID, types.ID{}, 2, true)
	assert.NoError(t, err)
}

func TestSetQuorumTooHigh(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 2}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeCountNotEnough))

	quorum, _, err := forQuorum(tc, aliceID, mustExist, CodeNoAccount)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), quorum)

	// With a second signatory the same quorum is legal.
	require.NoError(t, e.Execute(tc, &types.AddSignatory{AccountID: aliceID, PublicKey: carolPub}, aliceID, types.ID{}, 1, true))
	require.NoError(t, e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 2}, aliceID, types.ID{}, 2, true))

	quorum, _, err = forQuorum(tc, aliceID, mustExist, CodeNoAccount)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), quorum)
}

func TestRemoveSignatoryQuorumGuard(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	require.NoError(t, e.Execute(tc, &types.AddSignatory{AccountID: aliceID, PublicKey: carolPub}, aliceID, types.ID{}, 0, true))
	require.NoError(t, e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 2}, aliceID, types.ID{}, 1, true))

	// Removing would leave fewer signatories than the quorum needs.
	err := e.Execute(tc, &types.RemoveSignatory{AccountID: aliceID, PublicKey: carolPub}, aliceID, types.ID{}, 2, true)
	assert.True(t, ErrorCodeIs(err, CodeCountNotEnough))

	require.NoError(t, e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 1}, aliceID, types.ID{}, 3, true))
	require.NoError(t, e.Execute(tc, &types.RemoveSignatory{AccountID: aliceID, PublicKey: carolPub}, aliceID, types.ID{}, 4, true))

	sigs, err := signatories(tc, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{alicePub}, sigs)
}

func TestRemoveMissingSignatory(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.RemoveSignatory{AccountID: aliceID, PublicKey: carolPub}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoSignatory))
}

func TestSignatoryCaseInsensitive(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	upper := "ABCDEF0123456789"
	require.NoError(t, e.Execute(tc, &types.AddSignatory{AccountID: aliceID, PublicKey: upper}, aliceID, types.ID{}, 0, true))

	found, err := checkSignatory(tc, aliceID, "abcdef0123456789", canExist, 0)
	require.NoError(t, err)
	assert.True(t, found)

	// Re-adding the same key in another case is a duplicate.
	err = e.Execute(tc, &types.AddSignatory{AccountID: aliceID, PublicKey: "AbCdEf0123456789"}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeSignatoryMustNotExist))
}

func TestAddAndRemovePeer(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	require.NoError(t, e.Execute(tc, &types.AddPeer{PublicKey: alicePub, Address: "127.0.0.1:50541"}, aliceID, types.ID{}, 0, true))

	err := e.Execute(tc, &types.AddPeer{PublicKey: alicePub, Address: "127.0.0.1:50542"}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeMustNotExist))

	// The last peer cannot be removed.
	err = e.Execute(tc, &types.RemovePeer{PublicKey: alicePub}, aliceID, types.ID{}, 2, true)
	assert.True(t, ErrorCodeIs(err, CodePeersCountNotEnough))

	require.NoError(t, e.Execute(tc, &types.AddPeer{PublicKey: bobPub, Address: "127.0.0.1:50542"}, aliceID, types.ID{}, 3, true))
	require.NoError(t, e.Execute(tc, &types.RemovePeer{PublicKey: alicePub}, aliceID, types.ID{}, 4, true))

	count, err := forPeersCount(tc, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	ps, err := peers(tc, false)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, bobPub, ps[0].PublicKey)
}

func TestRemovePeerErrors(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.RemovePeer{}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodePublicKeyEmpty))

	err = e.Execute(tc, &types.RemovePeer{PublicKey: carolPub}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeNotFound))
}

func TestRemoveSyncingPeer(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	require.NoError(t, e.Execute(tc, &types.AddPeer{PublicKey: alicePub, Address: "1.2.3.4:1", SyncingPeer: true}, aliceID, types.ID{}, 0, true))
	require.NoError(t, e.Execute(tc, &types.AddPeer{PublicKey: bobPub, Address: "1.2.3.4:2", SyncingPeer: true}, aliceID, types.ID{}, 1, true))

	// The peer is found in the syncing keyspace after the normal one
	// misses.
	require.NoError(t, e.Execute(tc, &types.RemovePeer{PublicKey: alicePub}, aliceID, types.ID{}, 2, true))

	count, err := forPeersCount(tc, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCreateRole(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.CreateRole{RoleName: "admin", Permissions: types.NewPermissionSet()}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeRoleAlreadyExists))

	// Root expands to the full permission set at creation time.
	perms, _, err := forRole(tc, "admin", mustExist, CodeNotFound)
	require.NoError(t, err)
	for p := types.Permission(0); p < types.PermissionCount; p++ {
		assert.True(t, perms.IsSet(p), "permission %s", p)
	}
}

func TestCreateRoleInsufficientPermissions(t *testing.T) {
	e, tc := newTestExecutor(t)
	execGenesis(t, e, tc,
		&types.CreateRole{RoleName: "creator", Permissions: types.NewPermissionSet(types.PermCreateRole)},
		&types.CreateRole{RoleName: "user", Permissions: types.NewPermissionSet(types.PermReceive)},
		&types.CreateDomain{DomainID: "test", DefaultRole: "user"},
		&types.CreateAccount{AccountName: "alice", DomainID: "test", PublicKey: alicePub},
		&types.AppendRole{AccountID: aliceID, RoleName: "creator"},
	)

	// A role may not carry permissions its creator lacks.
	err := e.Execute(tc, &types.CreateRole{
		RoleName:    "minter",
		Permissions: types.NewPermissionSet(types.PermAddAssetQty),
	}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))
}

func TestAppendAndDetachRole(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.AppendRole{AccountID: bobID, RoleName: "user"}, aliceID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeMustNotExist))

	err = e.Execute(tc, &types.AppendRole{AccountID: types.NewAccountID("nobody", "test"), RoleName: "user"}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeNoAccount))

	require.NoError(t, e.Execute(tc, &types.DetachRole{AccountID: bobID, RoleName: "user"}, aliceID, types.ID{}, 2, true))
	roles, err := accountRoles(tc, bobID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	// Detaching a role the account does not hold fails.
	err = e.Execute(tc, &types.DetachRole{AccountID: bobID, RoleName: "user"}, aliceID, types.ID{}, 3, true)
	assert.True(t, ErrorCodeIs(err, CodeNotFound))
}

func TestGrantAndRevokePermission(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	// Without a grant bob may not touch alice's quorum.
	err := e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 1}, bobID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))

	require.NoError(t, e.Execute(tc, &types.GrantPermission{AccountID: bobID, Permission: types.GrantSetMyQuorum}, aliceID, types.ID{}, 1, true))

	err = e.Execute(tc, &types.GrantPermission{AccountID: bobID, Permission: types.GrantSetMyQuorum}, aliceID, types.ID{}, 2, true)
	assert.True(t, ErrorCodeIs(err, CodePermissionAlreadySet))

	require.NoError(t, e.Execute(tc, &types.SetQuorum{AccountID: aliceID, Quorum: 1}, bobID, types.ID{}, 3, true))

	require.NoError(t, e.Execute(tc, &types.RevokePermission{AccountID: bobID, Permission: types.GrantSetMyQuorum}, aliceID, types.ID{}, 4, true))

	// The grantable record disappears once its last bit is revoked.
	_, found, err := forGranted(tc, bobID, aliceID)
	require.NoError(t, err)
	assert.False(t, found)

	err = e.Execute(tc, &types.RevokePermission{AccountID: bobID, Permission: types.GrantSetMyQuorum}, aliceID, types.ID{}, 5, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))
}

func TestSetAccountDetail(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	require.NoError(t, e.Execute(tc, &types.SetAccountDetail{AccountID: aliceID, Key: "age", Value: "30"}, aliceID, types.ID{}, 0, true))

	v, found, err := forAccountDetail(tc, aliceID, aliceID, "age", canExist, 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "30", v)

	count, err := forAccountDetailsCount(tc, aliceID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// Overwriting does not bump the details counter.
	require.NoError(t, e.Execute(tc, &types.SetAccountDetail{AccountID: aliceID, Key: "age", Value: "31"}, aliceID, types.ID{}, 1, true))
	count, err = forAccountDetailsCount(tc, aliceID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCompareAndSetAccountDetail(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	// Missing detail with no expected old value: the set goes through.
	require.NoError(t, e.Execute(tc, &types.CompareAndSetAccountDetail{
		AccountID: aliceID, Key: "city", Value: "berlin", CheckEmpty: true,
	}, aliceID, types.ID{}, 0, true))

	// A stale expectation is rejected.
	stale := "paris"
	err := e.Execute(tc, &types.CompareAndSetAccountDetail{
		AccountID: aliceID, Key: "city", Value: "tokyo", OldValue: &stale, CheckEmpty: true,
	}, aliceID, types.ID{}, 1, true)
	assert.True(t, ErrorCodeIs(err, CodeIncorrectOldValue))

	current := "berlin"
	require.NoError(t, e.Execute(tc, &types.CompareAndSetAccountDetail{
		AccountID: aliceID, Key: "city", Value: "tokyo", OldValue: &current, CheckEmpty: true,
	}, aliceID, types.ID{}, 2, true))

	v, _, err := forAccountDetail(tc, aliceID, aliceID, "city", canExist, 0)
	require.NoError(t, err)
	assert.Equal(t, "tokyo", v)

	// Strict mode refuses a nil expectation against an existing value.
	err = e.Execute(tc, &types.CompareAndSetAccountDetail{
		AccountID: aliceID, Key: "city", Value: "oslo", CheckEmpty: true,
	}, aliceID, types.ID{}, 3, true)
	assert.True(t, ErrorCodeIs(err, CodeIncorrectOldValue))
}

func TestSetSettingValue(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)

	err := e.Execute(tc, &types.SetSettingValue{Key: MaxDescriptionSizeKey, Value: "64"}, bobID, types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))

	require.NoError(t, e.Execute(tc, &types.SetSettingValue{Key: MaxDescriptionSizeKey, Value: "64"}, aliceID, types.ID{}, 1, true))

	v, found, err := forSetting(tc, MaxDescriptionSizeKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "64", v)
}

func TestRolelessCreatorHasNoPermissions(t *testing.T) {
	e, tc := newTestExecutor(t)
	setupLedger(t, e, tc)
	execGenesis(t, e, tc,
		&types.CreateAccount{AccountName: "carol", DomainID: "test", PublicKey: carolPub},
	)

	err := e.Execute(tc, &types.AddAssetQuantity{AssetID: coinID, Amount: "1.00"}, types.NewAccountID("carol", "test"), types.ID{}, 0, true)
	assert.True(t, ErrorCodeIs(err, CodeNoPermissions))
}
