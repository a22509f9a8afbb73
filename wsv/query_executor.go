// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"context"

	"github.com/project-meridian/meridiand/blockstore"
	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/types"
	"github.com/project-meridian/meridiand/types/blocks"
)

// QueryResponse is implemented by every typed query answer.
type QueryResponse interface {
	queryResponse()
}

// AccountResponse answers GetAccount.
type AccountResponse struct {
	AccountID    types.AccountID
	Quorum       uint32
	Roles        []string
	DetailsCount uint64
}

// SignatoriesResponse answers GetSignatories.
type SignatoriesResponse struct {
	Keys []string
}

// AccountAssetsResponse answers GetAccountAssets.
type AccountAssetsResponse struct {
	Assets     []AccountAsset
	TotalCount uint64

	// NextAssetID is the cursor for the next page, nil on the last
	// page.
	NextAssetID *types.AssetID
}

// AccountDetailResponse answers GetAccountDetail.
type AccountDetailResponse struct {
	Details    []AccountDetail
	TotalCount uint64
	NextCursor *types.DetailCursor
}

// RolesResponse answers GetRoles.
type RolesResponse struct {
	Roles []string
}

// RolePermissionsResponse answers GetRolePermissions.
type RolePermissionsResponse struct {
	Permissions types.PermissionSet
}

// AssetInfoResponse answers GetAssetInfo.
type AssetInfoResponse struct {
	AssetID   types.AssetID
	Precision uint8
}

// PeersResponse answers GetPeers with both consensus and syncing
// peers.
type PeersResponse struct {
	Peers []Peer
}

// BlockResponse answers GetBlock.
type BlockResponse struct {
	Block *blocks.Block
}

// TransactionsResponse answers GetTransactions.
type TransactionsResponse struct {
	Transactions []*blocks.Transaction
}

// TransactionsPageResponse answers the paginated transaction queries.
type TransactionsPageResponse struct {
	Transactions []*blocks.Transaction
	TotalCount   uint64
	NextTxHash   *types.ID
}

func (AccountResponse) queryResponse()          {}
func (SignatoriesResponse) queryResponse()      {}
func (AccountAssetsResponse) queryResponse()    {}
func (AccountDetailResponse) queryResponse()    {}
func (RolesResponse) queryResponse()            {}
func (RolePermissionsResponse) queryResponse()  {}
func (AssetInfoResponse) queryResponse()        {}
func (PeersResponse) queryResponse()            {}
func (BlockResponse) queryResponse()            {}
func (TransactionsResponse) queryResponse()     {}
func (TransactionsPageResponse) queryResponse() {}

// SignatureValidator checks a query's signatures against the creator
// account's signatories. The engine itself does not do cryptography;
// the default validator accepts everything and deployments plug in a
// real one.
type SignatureValidator func(q types.Query, creator types.AccountID) bool

// QueryExecutor answers read-only queries against a snapshot of the
// world state view. Safe for concurrent use; every Execute opens its
// own read transaction.
type QueryExecutor struct {
	ds          repo.Datastore
	blocks      *blockstore.BlockStore
	validateSig SignatureValidator
}

// QueryExecutorOption configures a QueryExecutor.
type QueryExecutorOption func(qe *QueryExecutor)

// WithSignatureValidator installs a signature validator.
func WithSignatureValidator(v SignatureValidator) QueryExecutorOption {
	return func(qe *QueryExecutor) { qe.validateSig = v }
}

func NewQueryExecutor(ds repo.Datastore, bs *blockstore.BlockStore, opts ...QueryExecutorOption) *QueryExecutor {
	qe := &QueryExecutor{
		ds:          ds,
		blocks:      bs,
		validateSig: func(types.Query, types.AccountID) bool { return true },
	}
	for _, opt := range opts {
		opt(qe)
	}
	return qe
}

// ValidateSignatures reports whether the query's signatures satisfy
// the creator's quorum, per the installed validator.
func (qe *QueryExecutor) ValidateSignatures(q types.Query, creator types.AccountID) bool {
	return qe.validateSig(q, creator)
}

// Execute answers q on behalf of creator. Expected failures come back
// as *QueryError; storage failures as *StoreError.
func (qe *QueryExecutor) Execute(ctx context.Context, q types.Query, creator types.AccountID) (QueryResponse, error) {
	tc, err := NewReadTxContext(ctx, qe.ds)
	if err != nil {
		return nil, err
	}
	defer tc.Discard()

	switch query := q.(type) {
	case *types.GetAccount:
		return qe.getAccount(tc, query, creator)
	case *types.GetSignatories:
		return qe.getSignatories(tc, query, creator)
	case *types.GetAccountAssets:
		return qe.getAccountAssets(tc, query, creator)
	case *types.GetAccountDetail:
		return qe.getAccountDetail(tc, query, creator)
	case *types.GetRoles:
		return qe.getRoles(tc, creator)
	case *types.GetRolePermissions:
		return qe.getRolePermissions(tc, query, creator)
	case *types.GetAssetInfo:
		return qe.getAssetInfo(tc, query, creator)
	case *types.GetPeers:
		return qe.getPeers(tc, creator)
	case *types.GetBlock:
		return qe.getBlock(ctx, tc, query, creator)
	case *types.GetTransactions:
		return qe.getTransactions(ctx, tc, query, creator)
	case *types.GetAccountTransactions:
		return qe.getAccountTransactions(ctx, tc, query, creator)
	case *types.GetAccountAssetTransactions:
		return qe.getAccountAssetTransactions(ctx, tc, query, creator)
	case *types.GetEngineReceipts:
		return nil, queryErrorf(QueryErrNotSupported, 0, "%s is not supported", q.Name())
	default:
		return nil, queryErrorf(QueryErrNotSupported, 0, "unknown query %s", q.Name())
	}
}

// checkQueryPermission applies the narrow-to-wide permission triple:
// the global permission, the domain-scoped one when the target lives
// in the creator's domain, or the self-scoped one when the target is
// the creator.
func checkQueryPermission(tc *TxContext, creator, target types.AccountID, global, domainScoped, self types.Permission) error {
	perms, err := accountPermissions(tc, creator)
	if err != nil {
		return err
	}
	if perms.IsSet(types.PermRoot) || perms.IsSet(global) {
		return nil
	}
	if creator.Domain() == target.Domain() && perms.IsSet(domainScoped) {
		return nil
	}
	if creator == target && perms.IsSet(self) {
		return nil
	}
	return queryErrorf(QueryErrStatefulFailed, CodeNoPermissions,
		"account %s has no permission to query %s", creator, target)
}

func checkGlobalQueryPermission(tc *TxContext, creator types.AccountID, p types.Permission) error {
	perms, err := accountPermissions(tc, creator)
	if err != nil {
		return err
	}
	if perms.IsSet(types.PermRoot) || perms.IsSet(p) {
		return nil
	}
	return queryErrorf(QueryErrStatefulFailed, CodeNoPermissions,
		"account %s has no permission %s", creator, p)
}

func (qe *QueryExecutor) getAccount(tc *TxContext, q *types.GetAccount, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllAccounts, types.PermGetDomainAccounts, types.PermGetMyAccount); err != nil {
		return nil, err
	}

	quorum, found, err := forQuorum(tc, q.AccountID, canExist, 0)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, queryErrorf(QueryErrNoAccount, 0, "account %s not found", q.AccountID)
	}
	roles, err := accountRoles(tc, q.AccountID)
	if err != nil {
		return nil, err
	}
	detailsCount, err := forAccountDetailsCount(tc, q.AccountID)
	if err != nil {
		return nil, err
	}
	return AccountResponse{
		AccountID:    q.AccountID,
		Quorum:       quorum,
		Roles:        roles,
		DetailsCount: detailsCount,
	}, nil
}

func (qe *QueryExecutor) getSignatories(tc *TxContext, q *types.GetSignatories, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllSignatories, types.PermGetDomainSignatories, types.PermGetMySignatories); err != nil {
		return nil, err
	}

	keys, err := signatories(tc, q.AccountID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, queryErrorf(QueryErrNoSignatories, 0, "no signatories for account %s", q.AccountID)
	}
	return SignatoriesResponse{Keys: keys}, nil
}

func (qe *QueryExecutor) getAccountAssets(tc *TxContext, q *types.GetAccountAssets, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllAccAst, types.PermGetDomainAccAst, types.PermGetMyAccAst); err != nil {
		return nil, err
	}
	if _, err := checkAccount(tc, q.AccountID, mustExist, CodeNoAccount); err != nil {
		if IsStoreFailure(err) {
			return nil, err
		}
		return nil, queryErrorf(QueryErrNoAccount, 0, "account %s not found", q.AccountID)
	}

	assets, err := accountAssets(tc, q.AccountID)
	if err != nil {
		return nil, err
	}

	start := 0
	if q.FirstAssetID != nil {
		start = -1
		for i, a := range assets {
			if a.AssetID == *q.FirstAssetID {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
				"first asset %s not found in account %s", *q.FirstAssetID, q.AccountID)
		}
	}

	resp := AccountAssetsResponse{TotalCount: uint64(len(assets))}
	page := assets[start:]
	if q.PageSize > 0 && uint64(len(page)) > q.PageSize {
		next := page[q.PageSize].AssetID
		resp.NextAssetID = &next
		page = page[:q.PageSize]
	}
	resp.Assets = page
	return resp, nil
}

func (qe *QueryExecutor) getAccountDetail(tc *TxContext, q *types.GetAccountDetail, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllAccDetail, types.PermGetDomainAccDetail, types.PermGetMyAccDetail); err != nil {
		return nil, err
	}
	if _, err := checkAccount(tc, q.AccountID, mustExist, CodeNoAccount); err != nil {
		if IsStoreFailure(err) {
			return nil, err
		}
		return nil, queryErrorf(QueryErrNoAccount, 0, "account %s not found", q.AccountID)
	}

	details, err := accountDetails(tc, q.AccountID, q.Writer, q.Key)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 && (q.Writer != "" || q.Key != "") {
		return nil, queryErrorf(QueryErrNoAccountDetail, 0,
			"no details of account %s match writer %q key %q", q.AccountID, q.Writer, q.Key)
	}

	start := 0
	if q.First != nil {
		start = -1
		for i, d := range details {
			if d.Writer == q.First.Writer && d.Key == q.First.Key {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
				"first record (%s, %s) not found for account %s", q.First.Writer, q.First.Key, q.AccountID)
		}
	}

	resp := AccountDetailResponse{TotalCount: uint64(len(details))}
	page := details[start:]
	if q.PageSize > 0 && uint64(len(page)) > q.PageSize {
		next := types.DetailCursor{Writer: page[q.PageSize].Writer, Key: page[q.PageSize].Key}
		resp.NextCursor = &next
		page = page[:q.PageSize]
	}
	resp.Details = page
	return resp, nil
}

func (qe *QueryExecutor) getRoles(tc *TxContext, creator types.AccountID) (QueryResponse, error) {
	if err := checkGlobalQueryPermission(tc, creator, types.PermGetRoles); err != nil {
		return nil, err
	}

	prefix := keyRolesPrefix()
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
	if err := it.Err(); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, queryErrorf(QueryErrNoRoles, 0, "no roles exist")
	}
	return RolesResponse{Roles: roles}, nil
}

func (qe *QueryExecutor) getRolePermissions(tc *TxContext, q *types.GetRolePermissions, creator types.AccountID) (QueryResponse, error) {
	if err := checkGlobalQueryPermission(tc, creator, types.PermGetRoles); err != nil {
		return nil, err
	}

	perms, found, err := forRole(tc, q.RoleID, canExist, 0)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, queryErrorf(QueryErrNoRoles, 0, "role %s not found", q.RoleID)
	}
	return RolePermissionsResponse{Permissions: perms}, nil
}

func (qe *QueryExecutor) getAssetInfo(tc *TxContext, q *types.GetAssetInfo, creator types.AccountID) (QueryResponse, error) {
	if err := checkGlobalQueryPermission(tc, creator, types.PermReadAssets); err != nil {
		return nil, err
	}

	precision, found, err := forAsset(tc, q.AssetID, canExist, 0)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, queryErrorf(QueryErrNoAsset, 0, "asset %s not found", q.AssetID)
	}
	return AssetInfoResponse{AssetID: q.AssetID, Precision: precision}, nil
}

func (qe *QueryExecutor) getPeers(tc *TxContext, creator types.AccountID) (QueryResponse, error) {
	if err := checkGlobalQueryPermission(tc, creator, types.PermGetPeers); err != nil {
		return nil, err
	}

	consensus, err := peers(tc, false)
	if err != nil {
		return nil, err
	}
	syncing, err := peers(tc, true)
	if err != nil {
		return nil, err
	}
	return PeersResponse{Peers: append(consensus, syncing...)}, nil
}

func (qe *QueryExecutor) getBlock(ctx context.Context, tc *TxContext, q *types.GetBlock, creator types.AccountID) (QueryResponse, error) {
	if err := checkGlobalQueryPermission(tc, creator, types.PermGetBlocks); err != nil {
		return nil, err
	}

	top, found, err := forTopBlock(tc)
	if err != nil {
		return nil, err
	}
	if !found || q.Height > top.Height {
		return nil, queryErrorf(QueryErrStatefulFailed, CodeNotFound,
			"Your requested height %d is greater than the top block height %d", q.Height, top.Height)
	}

	blk, err := qe.blocks.ByHeight(ctx, q.Height)
	if err != nil {
		return nil, queryErrorf(QueryErrStatefulFailed, CodeNotFound,
			"block at height %d: %v", q.Height, err)
	}
	return BlockResponse{Block: blk}, nil
}

func (qe *QueryExecutor) getTransactions(ctx context.Context, tc *TxContext, q *types.GetTransactions, creator types.AccountID) (QueryResponse, error) {
	perms, err := accountPermissions(tc, creator)
	if err != nil {
		return nil, err
	}
	all := perms.IsSet(types.PermRoot) || perms.IsSet(types.PermGetAllTxs)
	mine := perms.IsSet(types.PermGetMyTxs)
	if !all && !mine {
		return nil, queryErrorf(QueryErrStatefulFailed, CodeNoPermissions,
			"account %s has no permission to read transactions", creator)
	}

	txs := make([]*blocks.Transaction, 0, len(q.Hashes))
	for _, hash := range q.Hashes {
		rec, err := qe.txStatusRecord(tc, hash)
		if err != nil {
			return nil, err
		}
		tx, err := qe.blocks.Transaction(ctx, rec.Height, hash)
		if err != nil || tx == nil {
			return nil, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
				"transaction %s not found at height %d", hash, rec.Height)
		}
		if !all && tx.Creator != creator {
			return nil, queryErrorf(QueryErrStatefulFailed, CodeNoPermissions,
				"account %s may only read its own transactions", creator)
		}
		txs = append(txs, tx)
	}
	return TransactionsResponse{Transactions: txs}, nil
}

func (qe *QueryExecutor) txStatusRecord(tc *TxContext, hash types.ID) (TxStatusRecord, error) {
	v, found, err := getValue(tc, keyTxStatus(hash), canExist, 0, "")
	if err != nil {
		return TxStatusRecord{}, err
	}
	if !found {
		return TxStatusRecord{}, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
			"transaction %s not found", hash)
	}
	return decodeTxStatusRecord(v)
}

// indexPage walks an index prefix, optionally skipping until startKey,
// and returns up to pageSize entry values (transaction hashes) plus
// the hash that would begin the next page. pageSize zero means no
// limit.
func indexPage(tc *TxContext, prefix, startKey string, pageSize uint64) (hashes []string, positions []string, next *string, err error) {
	it, err := tc.ScanPrefix(prefix)
	if err != nil {
		return nil, nil, nil, err
	}
	defer it.Close()

	skipping := startKey != ""
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		if skipping {
			if kv.Key != startKey {
				continue
			}
			skipping = false
		}
		if pageSize > 0 && uint64(len(hashes)) == pageSize {
			h := string(kv.Value)
			next = &h
			break
		}
		hashes = append(hashes, string(kv.Value))
		positions = append(positions, kv.Key)
	}
	if err := it.Err(); err != nil {
		return nil, nil, nil, err
	}
	if skipping {
		return nil, nil, nil, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
			"pagination start entry not found")
	}
	return hashes, positions, next, nil
}

func (qe *QueryExecutor) loadIndexedTxs(ctx context.Context, hashes, positions []string, prefix string, heightSegment int) ([]*blocks.Transaction, error) {
	txs := make([]*blocks.Transaction, 0, len(hashes))
	for i, h := range hashes {
		hash, err := types.NewIDFromString(h)
		if err != nil {
			return nil, errorf(CodeOperationFailed, "malformed index value %q", h)
		}
		segs := splitSegments(positions[i], len(prefix))
		if heightSegment >= len(segs) {
			return nil, errorf(CodeOperationFailed, "malformed index key %q", positions[i])
		}
		height, err := parseUintValue(segs[heightSegment], "index height")
		if err != nil {
			return nil, err
		}
		tx, err := qe.blocks.Transaction(ctx, height, hash)
		if err != nil || tx == nil {
			return nil, queryErrorf(QueryErrStatefulFailed, CodeMustNotExist,
				"transaction %s not found at height %d", hash, height)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (qe *QueryExecutor) getAccountTransactions(ctx context.Context, tc *TxContext, q *types.GetAccountTransactions, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllAccTxs, types.PermGetDomainAccTxs, types.PermGetMyAccTxs); err != nil {
		return nil, err
	}

	total, err := forCount(tc, keyTxsTotalCount(q.AccountID))
	if err != nil {
		return nil, err
	}

	var prefix, startKey string
	var heightSegment int
	switch q.Ordering {
	case types.OrderByCreatedTime:
		prefix = keyTxByTimestampPrefix(q.AccountID)
		heightSegment = 1
	default:
		prefix = keyTxByPositionPrefix(q.AccountID)
		heightSegment = 0
	}

	if q.FirstTxHash != nil {
		rec, err := qe.txStatusRecord(tc, *q.FirstTxHash)
		if err != nil {
			return nil, err
		}
		if q.Ordering == types.OrderByCreatedTime {
			startKey = keyTxByTimestamp(q.AccountID, rec.CreatedTime, rec.Height, rec.Index)
		} else {
			startKey = keyTxByPosition(q.AccountID, rec.Height, rec.Index, rec.CreatedTime)
		}
	}

	hashes, positions, next, err := indexPage(tc, prefix, startKey, q.PageSize)
	if err != nil {
		return nil, err
	}
	txs, err := qe.loadIndexedTxs(ctx, hashes, positions, prefix, heightSegment)
	if err != nil {
		return nil, err
	}

	resp := TransactionsPageResponse{Transactions: txs, TotalCount: total}
	if next != nil {
		id, err := types.NewIDFromString(*next)
		if err != nil {
			return nil, errorf(CodeOperationFailed, "malformed index value %q", *next)
		}
		resp.NextTxHash = &id
	}
	return resp, nil
}

func (qe *QueryExecutor) getAccountAssetTransactions(ctx context.Context, tc *TxContext, q *types.GetAccountAssetTransactions, creator types.AccountID) (QueryResponse, error) {
	if err := checkQueryPermission(tc, creator, q.AccountID,
		types.PermGetAllAccAstTxs, types.PermGetDomainAccAstTxs, types.PermGetMyAccAstTxs); err != nil {
		return nil, err
	}

	prefix := keyTxByAssetPositionPrefix(q.AccountID, q.AssetID)

	// The asset index carries no dedicated counter; the total is the
	// number of entries under the prefix.
	allHashes, _, _, err := indexPage(tc, prefix, "", 0)
	if err != nil {
		return nil, err
	}
	total := uint64(len(allHashes))

	var startKey string
	if q.FirstTxHash != nil {
		rec, err := qe.txStatusRecord(tc, *q.FirstTxHash)
		if err != nil {
			return nil, err
		}
		startKey = keyTxByAssetPosition(q.AccountID, q.AssetID, rec.Height, rec.Index)
	}

	hashes, positions, next, err := indexPage(tc, prefix, startKey, q.PageSize)
	if err != nil {
		return nil, err
	}
	txs, err := qe.loadIndexedTxs(ctx, hashes, positions, prefix, 0)
	if err != nil {
		return nil, err
	}

	resp := TransactionsPageResponse{Transactions: txs, TotalCount: total}
	if next != nil {
		id, err := types.NewIDFromString(*next)
		if err != nil {
			return nil, errorf(CodeOperationFailed, "malformed index value %q", *next)
		}
		resp.NextTxHash = &id
	}
	return resp, nil
}
