// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

// Datastore keys are hierarchical paths joined with a single delimiter
// byte. Each entity kind gets a distinguishing single-character literal
// segment so that keyspaces never collide. The layout is stable: tools
// and existing databases depend on it.
const (
	// KeyDelimiter joins path segments. It may not occur inside a
	// segment value.
	KeyDelimiter = "/"

	// Top level partitions.
	TagWsv   = "w" // world state view
	TagStore = "s" // block store

	// WSV path tags.
	TagNetwork      = "n"
	TagSettings     = "i"
	TagAssets       = "x"
	TagRoles        = "r"
	TagTransactions = "t"
	TagAccounts     = "a"
	TagPeers        = "p"
	TagSyncingPeers = "l"
	TagStatuses     = "u"
	TagDetails      = "d"
	TagGrantable    = "g"
	TagPosition     = "P"
	TagTimestamp    = "T"
	TagDomain       = "D"
	TagSignatories  = "S"
	TagOptions      = "O"
	TagAddress      = "M"
	TagTLS          = "N"

	// File tags: leaf keys holding a single value rather than a
	// folder of entries.
	FileQuorum     = "q"
	FileAssetSize  = "I"
	FileTopBlock   = "Q"
	FilePeersCount = "Z"
	FileTotalCount = "V"
	FileVersion    = "v"
)
