// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/project-meridian/meridiand/types"
)

// existence states the accessor's expectation about a key. Violating a
// MustExist/MustNotExist expectation yields a numbered Error with the
// code supplied by the caller.
type existence int

const (
	canExist existence = iota
	mustExist
	mustNotExist
)

// valueSeparator joins the fields of composite values (top block info,
// transaction statuses).
const valueSeparator = "#"

// getValue reads key honoring the existence expectation. On a
// mustExist miss or a mustNotExist hit it returns a numbered Error
// built from code and the entity description.
func getValue(tc *TxContext, key string, ex existence, code int, entity string) (string, bool, error) {
	v, found, err := tc.Get(key)
	if err != nil {
		return "", false, err
	}
	switch ex {
	case mustExist:
		if !found {
			return "", false, errorf(code, "%s does not exist", entity)
		}
	case mustNotExist:
		if found {
			return "", true, errorf(code, "%s already exists", entity)
		}
	}
	return string(v), found, nil
}

// checkKey verifies only the presence of key, for marker entries whose
// value carries no information.
func checkKey(tc *TxContext, key string, ex existence, code int, entity string) (bool, error) {
	_, found, err := getValue(tc, key, ex, code, entity)
	return found, err
}

func parseUintValue(s, entity string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errorf(CodeOperationFailed, "malformed %s value %q", entity, s)
	}
	return n, nil
}

func formatUintValue(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// Accounts. An account exists iff its quorum key exists.

func forQuorum(tc *TxContext, id types.AccountID, ex existence, code int) (uint32, bool, error) {
	name, domain := id.Split()
	v, found, err := getValue(tc, keyQuorum(domain, name), ex, code, fmt.Sprintf("account %s", id))
	if err != nil || !found {
		return 0, found, err
	}
	n, err := parseUintValue(v, "quorum")
	if err != nil {
		return 0, true, err
	}
	return uint32(n), true, nil
}

func putQuorum(tc *TxContext, id types.AccountID, quorum uint32) error {
	name, domain := id.Split()
	return tc.PutString(keyQuorum(domain, name), formatUintValue(uint64(quorum)))
}

// checkAccount verifies the account's presence without reading the
// quorum.
func checkAccount(tc *TxContext, id types.AccountID, ex existence, code int) (bool, error) {
	name, domain := id.Split()
	return checkKey(tc, keyQuorum(domain, name), ex, code, fmt.Sprintf("account %s", id))
}

// Roles.

func forRole(tc *TxContext, role string, ex existence, code int) (types.PermissionSet, bool, error) {
	v, found, err := getValue(tc, keyRole(role), ex, code, fmt.Sprintf("role %s", role))
	if err != nil || !found {
		return types.PermissionSet{}, found, err
	}
	ps, perr := types.PermissionSetFromBitstring(v)
	if perr != nil {
		return types.PermissionSet{}, true, errorf(CodeOperationFailed, "malformed role %s: %v", role, perr)
	}
	return ps, true, nil
}

func putRole(tc *TxContext, role string, perms types.PermissionSet) error {
	return tc.PutString(keyRole(role), perms.Bitstring())
}

func checkAccountRole(tc *TxContext, id types.AccountID, role string, ex existence, code int) (bool, error) {
	name, domain := id.Split()
	return checkKey(tc, keyAccountRole(domain, name, role), ex, code,
		fmt.Sprintf("account %s role %s", id, role))
}

func putAccountRole(tc *TxContext, id types.AccountID, role string) error {
	name, domain := id.Split()
	return tc.PutString(keyAccountRole(domain, name, role), "")
}

func deleteAccountRole(tc *TxContext, id types.AccountID, role string) error {
	name, domain := id.Split()
	return tc.Delete(keyAccountRole(domain, name, role))
}

// accountRoles returns the account's roles in key order.
func accountRoles(tc *TxContext, id types.AccountID) ([]string, error) {
	name, domain := id.Split()
	prefix := keyAccountRolesPrefix(domain, name)
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var roles []string
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		roles = append(roles, decodeSegment(kv.Key, len(prefix)))
	}
	return roles, it.Err()
}

// accountPermissions unions the permission sets of every role the
// account holds. A roleless account has the empty set.
func accountPermissions(tc *TxContext, id types.AccountID) (types.PermissionSet, error) {
	roles, err := accountRoles(tc, id)
	if err != nil {
		return types.PermissionSet{}, err
	}
	var perms types.PermissionSet
	for _, role := range roles {
		ps, _, err := forRole(tc, role, mustExist, CodeNotFound)
		if err != nil {
			return types.PermissionSet{}, err
		}
		perms.Union(ps)
	}
	return perms, nil
}

// Domains.

func forDomain(tc *TxContext, domainID string, ex existence, code int) (defaultRole string, found bool, err error) {
	return getValue(tc, keyDomain(domainID), ex, code, fmt.Sprintf("domain %s", domainID))
}

func putDomain(tc *TxContext, domainID, defaultRole string) error {
	return tc.PutString(keyDomain(domainID), defaultRole)
}

// Assets.

func forAsset(tc *TxContext, id types.AssetID, ex existence, code int) (precision uint8, found bool, err error) {
	name, domain := id.Split()
	v, found, err := getValue(tc, keyAsset(domain, name), ex, code, fmt.Sprintf("asset %s", id))
	if err != nil || !found {
		return 0, found, err
	}
	n, err := parseUintValue(v, "asset precision")
	if err != nil {
		return 0, true, err
	}
	if n > types.MaxPrecision {
		return 0, true, errorf(CodeOperationFailed, "malformed asset %s precision %d", id, n)
	}
	return uint8(n), true, nil
}

func putAsset(tc *TxContext, id types.AssetID, precision uint8) error {
	name, domain := id.Split()
	return tc.PutString(keyAsset(domain, name), formatUintValue(uint64(precision)))
}

// Account assets. Balances are stored as decimal strings at the
// asset's precision.

func forAccountAsset(tc *TxContext, account types.AccountID, asset types.AssetID, ex existence, code int) (types.Amount, bool, error) {
	name, domain := account.Split()
	v, found, err := getValue(tc, keyAccountAsset(domain, name, asset), ex, code,
		fmt.Sprintf("account %s asset %s", account, asset))
	if err != nil || !found {
		return types.Amount{}, found, err
	}
	amount, perr := types.ParseAmount(v)
	if perr != nil {
		return types.Amount{}, true, errorf(CodeOperationFailed, "malformed balance of %s for %s: %v", asset, account, perr)
	}
	return amount, true, nil
}

func putAccountAsset(tc *TxContext, account types.AccountID, asset types.AssetID, amount types.Amount) error {
	name, domain := account.Split()
	return tc.PutString(keyAccountAsset(domain, name, asset), amount.String())
}

func forAccountAssetSize(tc *TxContext, account types.AccountID) (uint64, error) {
	name, domain := account.Split()
	v, found, err := getValue(tc, keyAccountAssetSize(domain, name), canExist, 0, "")
	if err != nil || !found {
		return 0, err
	}
	return parseUintValue(v, "account asset count")
}

func putAccountAssetSize(tc *TxContext, account types.AccountID, n uint64) error {
	name, domain := account.Split()
	return tc.PutString(keyAccountAssetSize(domain, name), formatUintValue(n))
}

// AccountAsset is one (asset, balance) pair of an account.
type AccountAsset struct {
	AssetID types.AssetID
	Balance types.Amount
}

// accountAssets returns all balances of the account in asset-id order.
func accountAssets(tc *TxContext, id types.AccountID) ([]AccountAsset, error) {
	name, domain := id.Split()
	prefix := keyAccountAssetsPrefix(domain, name)
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []AccountAsset
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		assetID := types.AssetID(decodeSegment(kv.Key, len(prefix)))
		amount, perr := types.ParseAmount(string(kv.Value))
		if perr != nil {
			return nil, errorf(CodeOperationFailed, "malformed balance of %s for %s: %v", assetID, id, perr)
		}
		out = append(out, AccountAsset{AssetID: assetID, Balance: amount})
	}
	return out, it.Err()
}

// Account details.

func forAccountDetail(tc *TxContext, id types.AccountID, writer types.AccountID, key string, ex existence, code int) (string, bool, error) {
	name, domain := id.Split()
	return getValue(tc, keyAccountDetail(domain, name, writer, key), ex, code,
		fmt.Sprintf("account %s detail %s by %s", id, key, writer))
}

func putAccountDetail(tc *TxContext, id types.AccountID, writer types.AccountID, key, value string) error {
	name, domain := id.Split()
	return tc.PutString(keyAccountDetail(domain, name, writer, key), value)
}

func forAccountDetailsCount(tc *TxContext, id types.AccountID) (uint64, error) {
	name, domain := id.Split()
	v, found, err := getValue(tc, keyAccountDetailsCount(domain, name), canExist, 0, "")
	if err != nil || !found {
		return 0, err
	}
	return parseUintValue(v, "account details count")
}

func putAccountDetailsCount(tc *TxContext, id types.AccountID, n uint64) error {
	name, domain := id.Split()
	return tc.PutString(keyAccountDetailsCount(domain, name), formatUintValue(n))
}

// AccountDetail is one (writer, key, value) cell of an account's
// detail map.
type AccountDetail struct {
	Writer types.AccountID
	Key    string
	Value  string
}

// accountDetails returns the account's details ordered by writer then
// key. Empty writer and key match everything.
func accountDetails(tc *TxContext, id types.AccountID, writer types.AccountID, key string) ([]AccountDetail, error) {
	name, domain := id.Split()
	prefix := keyAccountDetailsPrefix(domain, name)
	if writer != "" {
		prefix = keyAccountDetailsWriterPrefix(domain, name, writer)
	}
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	basePrefix := keyAccountDetailsPrefix(domain, name)
	var out []AccountDetail
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		segs := splitSegments(kv.Key, len(basePrefix))
		if len(segs) != 2 {
			return nil, errorf(CodeOperationFailed, "malformed detail key %q", kv.Key)
		}
		d := AccountDetail{Writer: types.AccountID(segs[0]), Key: segs[1], Value: string(kv.Value)}
		if key != "" && d.Key != key {
			continue
		}
		out = append(out, d)
	}
	return out, it.Err()
}

// Grantable permissions. The set under the holder's path records what
// the grantor allowed the holder to do to the grantor's account.

func forGranted(tc *TxContext, holder, grantor types.AccountID) (types.GrantableSet, bool, error) {
	name, domain := holder.Split()
	v, found, err := getValue(tc, keyGranted(domain, name, grantor), canExist, 0, "")
	if err != nil || !found {
		return types.GrantableSet{}, found, err
	}
	gs, perr := types.GrantableSetFromBitstring(v)
	if perr != nil {
		return types.GrantableSet{}, true, errorf(CodeOperationFailed, "malformed grantable permissions of %s by %s: %v", holder, grantor, perr)
	}
	return gs, true, nil
}

func putGranted(tc *TxContext, holder, grantor types.AccountID, gs types.GrantableSet) error {
	name, domain := holder.Split()
	return tc.PutString(keyGranted(domain, name, grantor), gs.Bitstring())
}

func deleteGranted(tc *TxContext, holder, grantor types.AccountID) error {
	name, domain := holder.Split()
	return tc.Delete(keyGranted(domain, name, grantor))
}

// Signatories. Stored lowercased; lookups are case-insensitive.

func checkSignatory(tc *TxContext, id types.AccountID, pubkey string, ex existence, code int) (bool, error) {
	name, domain := id.Split()
	return checkKey(tc, keySignatory(domain, name, pubkey), ex, code,
		fmt.Sprintf("signatory %s of account %s", strings.ToLower(pubkey), id))
}

func putSignatory(tc *TxContext, id types.AccountID, pubkey string) error {
	name, domain := id.Split()
	return tc.PutString(keySignatory(domain, name, pubkey), "")
}

func deleteSignatory(tc *TxContext, id types.AccountID, pubkey string) error {
	name, domain := id.Split()
	return tc.Delete(keySignatory(domain, name, pubkey))
}

// signatories returns the account's public keys in key order.
func signatories(tc *TxContext, id types.AccountID) ([]string, error) {
	name, domain := id.Split()
	prefix := keySignatoriesPrefix(domain, name)
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var keys []string
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, decodeSegment(kv.Key, len(prefix)))
	}
	return keys, it.Err()
}

func countSignatories(tc *TxContext, id types.AccountID) (uint64, error) {
	sigs, err := signatories(tc, id)
	if err != nil {
		return 0, err
	}
	return uint64(len(sigs)), nil
}

// Peers. Keyed by lowercased public key; the syncing flag selects a
// disjoint keyspace.

// Peer is one consensus or syncing peer of the network.
type Peer struct {
	PublicKey      string
	Address        string
	TLSCertificate string
	Syncing        bool
}

func forPeerAddress(tc *TxContext, pubkey string, syncing bool, ex existence, code int) (string, bool, error) {
	return getValue(tc, keyPeerAddress(pubkey, syncing), ex, code,
		fmt.Sprintf("peer %s", strings.ToLower(pubkey)))
}

func putPeer(tc *TxContext, p Peer) error {
	if err := tc.PutString(keyPeerAddress(p.PublicKey, p.Syncing), p.Address); err != nil {
		return err
	}
	if p.TLSCertificate != "" {
		return tc.PutString(keyPeerTLS(p.PublicKey, p.Syncing), p.TLSCertificate)
	}
	return nil
}

func deletePeer(tc *TxContext, pubkey string, syncing bool) error {
	if err := tc.Delete(keyPeerAddress(pubkey, syncing)); err != nil {
		return err
	}
	return tc.Delete(keyPeerTLS(pubkey, syncing))
}

func forPeersCount(tc *TxContext, syncing bool) (uint64, error) {
	v, found, err := getValue(tc, keyPeersCount(syncing), canExist, 0, "")
	if err != nil || !found {
		return 0, err
	}
	return parseUintValue(v, "peers count")
}

func putPeersCount(tc *TxContext, syncing bool, n uint64) error {
	return tc.PutString(keyPeersCount(syncing), formatUintValue(n))
}

// peers returns all peers of one keyspace in public-key order. TLS
// certificates are filled in from the sibling keyspace.
func peers(tc *TxContext, syncing bool) ([]Peer, error) {
	prefix := keyPeersPrefix(syncing)
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []Peer
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, Peer{
			PublicKey: decodeSegment(kv.Key, len(prefix)),
			Address:   string(kv.Value),
			Syncing:   syncing,
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		cert, found, err := getValue(tc, keyPeerTLS(out[i].PublicKey, syncing), canExist, 0, "")
		if err != nil {
			return nil, err
		}
		if found {
			out[i].TLSCertificate = cert
		}
	}
	return out, nil
}

// Settings.

func forSetting(tc *TxContext, key string) (string, bool, error) {
	return getValue(tc, keySetting(key), canExist, 0, "")
}

func putSetting(tc *TxContext, key, value string) error {
	return tc.PutString(keySetting(key), value)
}

// Counters. A missing counter reads as zero.

func forCount(tc *TxContext, key string) (uint64, error) {
	v, found, err := getValue(tc, key, canExist, 0, "")
	if err != nil || !found {
		return 0, err
	}
	return parseUintValue(v, "counter")
}

func incrementCount(tc *TxContext, key string) error {
	n, err := forCount(tc, key)
	if err != nil {
		return err
	}
	return tc.PutString(key, formatUintValue(n+1))
}

// Top block marker. Value is "<height>#<hash>".

// TopBlockInfo identifies the highest applied block.
type TopBlockInfo struct {
	Height uint64
	Hash   types.ID
}

func (t TopBlockInfo) String() string {
	return formatUintValue(t.Height) + valueSeparator + t.Hash.String()
}

func parseTopBlockInfo(s string) (TopBlockInfo, error) {
	h, rest, ok := strings.Cut(s, valueSeparator)
	if !ok {
		return TopBlockInfo{}, errorf(CodeOperationFailed, "malformed top block info %q", s)
	}
	height, err := strconv.ParseUint(h, 10, 64)
	if err != nil {
		return TopBlockInfo{}, errorf(CodeOperationFailed, "malformed top block height %q", h)
	}
	hash, err := types.NewIDFromString(rest)
	if err != nil {
		return TopBlockInfo{}, errorf(CodeOperationFailed, "malformed top block hash %q", rest)
	}
	return TopBlockInfo{Height: height, Hash: hash}, nil
}

func forTopBlock(tc *TxContext) (TopBlockInfo, bool, error) {
	v, found, err := getValue(tc, keyTopBlock(), canExist, 0, "")
	if err != nil || !found {
		return TopBlockInfo{}, found, err
	}
	info, perr := parseTopBlockInfo(v)
	if perr != nil {
		return TopBlockInfo{}, true, perr
	}
	return info, true, nil
}

func putTopBlock(tc *TxContext, info TopBlockInfo) error {
	return tc.PutString(keyTopBlock(), info.String())
}
