// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSetBitstring(t *testing.T) {
	ps := NewPermissionSet(PermCreateDomain, PermCreateAccount, PermRoot)

	s := ps.Bitstring()
	assert.Len(t, s, int(PermissionCount))
	assert.Equal(t, 3, strings.Count(s, "1"))

	ps2, err := PermissionSetFromBitstring(s)
	require.NoError(t, err)
	assert.Equal(t, ps, ps2)

	_, err = PermissionSetFromBitstring("0110")
	assert.Error(t, err)

	_, err = PermissionSetFromBitstring(strings.Repeat("2", int(PermissionCount)))
	assert.Error(t, err)
}

func TestPermissionSetSubset(t *testing.T) {
	small := NewPermissionSet(PermCreateAccount)
	big := NewPermissionSet(PermCreateAccount, PermCreateDomain)

	assert.True(t, small.IsSubsetOf(big))
	assert.False(t, big.IsSubsetOf(small))
	assert.True(t, big.IsSubsetOf(big))
}

func TestPermissionSetUnion(t *testing.T) {
	ps := NewPermissionSet(PermCreateAccount)
	ps.Union(NewPermissionSet(PermCreateDomain))

	assert.True(t, ps.IsSet(PermCreateAccount))
	assert.True(t, ps.IsSet(PermCreateDomain))
	assert.False(t, ps.IsSet(PermRoot))
}

func TestPermissionSetSetAll(t *testing.T) {
	var ps PermissionSet
	ps.SetAll()
	for p := Permission(0); p < PermissionCount; p++ {
		assert.True(t, ps.IsSet(p), "permission %s", p)
	}
}

func TestRequiredToGrant(t *testing.T) {
	assert.Equal(t, PermGrantCanSetMyQuorum, GrantSetMyQuorum.RequiredToGrant())
	assert.Equal(t, PermGrantCanAddMySignatory, GrantAddMySignatory.RequiredToGrant())
	assert.Equal(t, PermGrantCanRemoveMySignatory, GrantRemoveMySignatory.RequiredToGrant())
	assert.Equal(t, PermGrantCanTransferMyAssets, GrantTransferMyAssets.RequiredToGrant())
	assert.Equal(t, PermGrantCanSetMyAccountDetail, GrantSetMyAccountDetail.RequiredToGrant())
}

func TestGrantableSetBitstring(t *testing.T) {
	gs := NewGrantableSet(GrantSetMyQuorum, GrantTransferMyAssets)

	s := gs.Bitstring()
	assert.Len(t, s, int(GrantableCount))

	gs2, err := GrantableSetFromBitstring(s)
	require.NoError(t, err)
	assert.Equal(t, gs, gs2)

	gs.Unset(GrantSetMyQuorum)
	gs.Unset(GrantTransferMyAssets)
	assert.True(t, gs.IsEmpty())
}
