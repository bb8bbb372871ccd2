package credentials

import (
	"testing"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h, err := Hash([]byte("hunter2"), MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", h)

	ok, err := Verify(h, []byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(h, []byte("hunter3"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash([]byte("same"), MinCost)
	require.NoError(t, err)
	b, err := Hash([]byte("same"), MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_Validation(t *testing.T) {
	_, err := Hash(nil, MinCost)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = Hash([]byte("pw"), MinCost-1)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = Hash([]byte("pw"), MaxCost+1)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestVerify_MalformedHash(t *testing.T) {
	ok, err := Verify("not-a-bcrypt-hash", []byte("pw"))
	require.ErrorIs(t, err, common.ErrDataCorruption)
	assert.False(t, ok)
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	Wipe(b)
	assert.Equal(t, make([]byte, 6), b)
	Wipe(nil)
}
