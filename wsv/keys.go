// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"fmt"
	"strings"

	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/types"
)

// The key codec maps logical entity paths onto the flat ordered
// keyspace. Every key is the delimiter-joined sequence of a partition
// tag, literal entity tags and caller-supplied segments:
//
//	/w/D/<domain>                     domain -> default role
//	/w/D/<domain>/a/<name>/O/q        account quorum
//	/w/D/<domain>/a/<name>/O/I        account asset count
//	/w/D/<domain>/a/<name>/O/V        account details count
//	/w/D/<domain>/a/<name>/r/<role>   account role marker
//	/w/D/<domain>/a/<name>/S/<pubkey> signatory marker
//	/w/D/<domain>/a/<name>/x/<asset>  account asset balance
//	/w/D/<domain>/a/<name>/d/<writer>/<key> account detail
//	/w/D/<domain>/a/<name>/g/<grantor>      granted permissions
//	/w/D/<domain>/x/<asset_name>      asset precision
//	/w/D/V                            domains total count
//	/w/r/<role>                       role permission bitset
//	/w/i/<key>                        setting
//	/w/n/p/M/<pubkey>                 peer address   (l for syncing)
//	/w/n/p/N/<pubkey>                 peer TLS cert
//	/w/n/p/Z                          peers count
//	/w/n/s/Q                          top block info
//	/w/t/u/<hash>                     tx status
//	/w/t/a/<account>/P/<height>/<index>/<ts> tx by position
//	/w/t/a/<account>/T/<ts>/<height>/<index> tx by timestamp
//	/w/t/a/<account>/x/<asset>/<height>/<index> tx by asset position
//	/w/t/a/<account>/V                account txs total count
//	/w/t/V                            all txs total count
//	/w/v                              schema version
//
// Heights, indices and timestamps inside keys are zero-padded decimal
// so byte order equals numeric order.

// makeKey joins path segments with the delimiter. Empty segments and
// segments containing the delimiter byte indicate a programming error
// upstream of the codec and panic.
func makeKey(segments ...string) string {
	var sb strings.Builder
	for _, s := range segments {
		if s == "" {
			panic("key codec: empty path segment")
		}
		if strings.Contains(s, repo.KeyDelimiter) {
			panic(fmt.Sprintf("key codec: segment %q contains delimiter", s))
		}
		// "." and ".." would be collapsed by datastore key cleaning,
		// aliasing distinct logical paths onto one key.
		if s == "." || s == ".." {
			panic(fmt.Sprintf("key codec: segment %q is not a valid path element", s))
		}
		sb.WriteString(repo.KeyDelimiter)
		sb.WriteString(s)
	}
	return sb.String()
}

// decodeSegment returns the path segment starting right after prefix,
// up to the next delimiter or the end of the key. The prefix must be a
// full-segment boundary (end with a complete segment).
func decodeSegment(key string, prefixLen int) string {
	rest := key[prefixLen:]
	rest = strings.TrimPrefix(rest, repo.KeyDelimiter)
	if i := strings.Index(rest, repo.KeyDelimiter); i >= 0 {
		return rest[:i]
	}
	return rest
}

// splitSegments returns all path segments after a prefix.
func splitSegments(key string, prefixLen int) []string {
	rest := strings.TrimPrefix(key[prefixLen:], repo.KeyDelimiter)
	if rest == "" {
		return nil
	}
	return strings.Split(rest, repo.KeyDelimiter)
}

// padUint renders n as zero-padded decimal so lexicographic key order
// matches numeric order.
func padUint(n uint64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

const (
	heightKeyWidth = 16
	indexKeyWidth  = 16
	tsKeyWidth     = 20
)

func keySchemaVersion() string {
	return makeKey(repo.TagWsv, repo.FileVersion)
}

func keyDomain(domainID string) string {
	return makeKey(repo.TagWsv, repo.TagDomain, domainID)
}

func keyDomainsTotalCount() string {
	return makeKey(repo.TagWsv, repo.TagDomain, repo.FileTotalCount)
}

func accountPath(domainID, name string) []string {
	return []string{repo.TagWsv, repo.TagDomain, domainID, repo.TagAccounts, name}
}

func keyQuorum(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagOptions, repo.FileQuorum)...)
}

func keyAccountAssetSize(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagOptions, repo.FileAssetSize)...)
}

func keyAccountDetailsCount(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagOptions, repo.FileTotalCount)...)
}

func keyAccountRole(domainID, name, role string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagRoles, role)...)
}

func keyAccountRolesPrefix(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagRoles)...)
}

func keySignatory(domainID, name, pubkey string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagSignatories, strings.ToLower(pubkey))...)
}

func keySignatoriesPrefix(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagSignatories)...)
}

func keyAccountAsset(domainID, name string, assetID types.AssetID) string {
	return makeKey(append(accountPath(domainID, name), repo.TagAssets, string(assetID))...)
}

func keyAccountAssetsPrefix(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagAssets)...)
}

func keyAccountDetail(domainID, name string, writer types.AccountID, detailKey string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagDetails, string(writer), detailKey)...)
}

func keyAccountDetailsPrefix(domainID, name string) string {
	return makeKey(append(accountPath(domainID, name), repo.TagDetails)...)
}

func keyAccountDetailsWriterPrefix(domainID, name string, writer types.AccountID) string {
	return makeKey(append(accountPath(domainID, name), repo.TagDetails, string(writer))...)
}

// keyGranted holds the grantable permissions the holder account was
// granted by the grantor account.
func keyGranted(holderDomain, holderName string, grantor types.AccountID) string {
	return makeKey(append(accountPath(holderDomain, holderName), repo.TagGrantable, string(grantor))...)
}

func keyAsset(domainID, assetName string) string {
	return makeKey(repo.TagWsv, repo.TagDomain, domainID, repo.TagAssets, assetName)
}

func keyRole(role string) string {
	return makeKey(repo.TagWsv, repo.TagRoles, role)
}

func keyRolesPrefix() string {
	return makeKey(repo.TagWsv, repo.TagRoles)
}

func keySetting(key string) string {
	return makeKey(repo.TagWsv, repo.TagSettings, key)
}

func peersTag(syncing bool) string {
	if syncing {
		return repo.TagSyncingPeers
	}
	return repo.TagPeers
}

func keyPeerAddress(pubkey string, syncing bool) string {
	return makeKey(repo.TagWsv, repo.TagNetwork, peersTag(syncing), repo.TagAddress, strings.ToLower(pubkey))
}

func keyPeersPrefix(syncing bool) string {
	return makeKey(repo.TagWsv, repo.TagNetwork, peersTag(syncing), repo.TagAddress)
}

func keyPeerTLS(pubkey string, syncing bool) string {
	return makeKey(repo.TagWsv, repo.TagNetwork, peersTag(syncing), repo.TagTLS, strings.ToLower(pubkey))
}

func keyPeersCount(syncing bool) string {
	return makeKey(repo.TagWsv, repo.TagNetwork, peersTag(syncing), repo.FilePeersCount)
}

func keyTopBlock() string {
	return makeKey(repo.TagWsv, repo.TagNetwork, repo.TagStore, repo.FileTopBlock)
}

func keyTxStatus(hash types.ID) string {
	return makeKey(repo.TagWsv, repo.TagTransactions, repo.TagStatuses, hash.String())
}

func txAccountPath(account types.AccountID) []string {
	return []string{repo.TagWsv, repo.TagTransactions, repo.TagAccounts, string(account)}
}

func keyTxByPosition(account types.AccountID, height uint64, index uint64, ts uint64) string {
	return makeKey(append(txAccountPath(account),
		repo.TagPosition, padUint(height, heightKeyWidth), padUint(index, indexKeyWidth), padUint(ts, tsKeyWidth))...)
}

func keyTxByPositionPrefix(account types.AccountID) string {
	return makeKey(append(txAccountPath(account), repo.TagPosition)...)
}

func keyTxByTimestamp(account types.AccountID, ts uint64, height uint64, index uint64) string {
	return makeKey(append(txAccountPath(account),
		repo.TagTimestamp, padUint(ts, tsKeyWidth), padUint(height, heightKeyWidth), padUint(index, indexKeyWidth))...)
}

func keyTxByTimestampPrefix(account types.AccountID) string {
	return makeKey(append(txAccountPath(account), repo.TagTimestamp)...)
}

func keyTxByAssetPosition(account types.AccountID, asset types.AssetID, height uint64, index uint64) string {
	return makeKey(append(txAccountPath(account),
		repo.TagAssets, string(asset), padUint(height, heightKeyWidth), padUint(index, indexKeyWidth))...)
}

func keyTxByAssetPositionPrefix(account types.AccountID, asset types.AssetID) string {
	return makeKey(append(txAccountPath(account), repo.TagAssets, string(asset))...)
}

func keyTxsTotalCount(account types.AccountID) string {
	return makeKey(append(txAccountPath(account), repo.FileTotalCount)...)
}

func keyAllTxsTotalCount() string {
	return makeKey(repo.TagWsv, repo.TagTransactions, repo.FileTotalCount)
}
