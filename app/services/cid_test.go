package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	testutil "github.com/amirphl/mushola/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestCID(t *testing.T) {
	a := DigestCID([]byte("adzan"))
	b := DigestCID([]byte("adzan"))
	c := DigestCID([]byte("doa"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "bafy"))
	assert.Equal(t, strings.ToLower(a), a)
	// blake2b-256 in unpadded base32 is 52 characters
	assert.Len(t, a, len("bafy")+52)
}

func TestDigestCIDSeparatesParts(t *testing.T) {
	assert.NotEqual(t, DigestCID([]byte("ab"), []byte("c")), DigestCID([]byte("a"), []byte("bc")))
}

func TestNewSyntheticCIDIsFresh(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		cid := NewSyntheticCID("file-1", "photo.png")
		_, dup := seen[cid]
		require.False(t, dup)
		seen[cid] = struct{}{}
	}
}

func TestMockPinningProvider(t *testing.T) {
	mock := NewMockPinningProvider()
	data := testutil.GIFBytes()

	result, err := mock.Pin(context.Background(), PinInput{
		FileName:    "crescent.gif",
		ContentType: "image/gif",
		Reader:      bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.Equal(t, DigestCID(data), result.CID)
	assert.Equal(t, int64(len(data)), result.Size)

	pinned := mock.GetPinned()
	require.Len(t, pinned, 1)
	assert.Equal(t, "crescent.gif", pinned[0].FileName)
	assert.Equal(t, "filebase", mock.Name())
}
