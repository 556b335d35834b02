package bufferpool

import (
	"crypto/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, poolSize int) (*Pool, string) {
	t.Helper()
	path := t.TempDir() + "/test.db"
	disk, existed, err := NewDiskManager(path)
	require.NoError(t, err)
	require.False(t, existed)
	t.Cleanup(func() { disk.Remove(path) })
	return NewPool(poolSize, disk), path
}

func TestPoolAllocAndExhaustion(t *testing.T) {
	bpm, _ := newTestPool(t, 10)

	page, err := bpm.AllocPage()
	require.NoError(t, err)
	assert.Equal(t, PageID(0), page.ID())

	var randomBinData [PageSize]byte
	_, err = rand.Read(randomBinData[:])
	require.NoError(t, err)
	randomBinData[PageSize/2] = '0'
	randomBinData[PageSize-1] = '0'
	copy(page.Data(), randomBinData[:])

	for i := 1; i < 10; i++ {
		_, err := bpm.AllocPage()
		require.NoError(t, err)
	}

	for i := 10; i < 20; i++ {
		_, err := bpm.AllocPage()
		assert.Error(t, err)
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, bpm.UnpinPage(PageID(i), true))
	}
	require.NoError(t, bpm.FlushFile())

	for i := 0; i < 5; i++ {
		p, err := bpm.AllocPage()
		require.NoError(t, err)
		require.NoError(t, bpm.UnpinPage(p.ID(), false))
	}

	page0, err := bpm.ReadPage(0)
	require.NoError(t, err)
	assert.Equal(t, randomBinData[:], page0.Data())
	require.NoError(t, bpm.UnpinPage(0, true))
}

func TestUnpinUnpinnedPage(t *testing.T) {
	bpm, _ := newTestPool(t, 4)
	page, err := bpm.AllocPage()
	require.NoError(t, err)
	require.NoError(t, bpm.UnpinPage(page.ID(), false))
	err = bpm.UnpinPage(page.ID(), false)
	assert.ErrorIs(t, err, ErrPageNotPinned)
}

func TestFlushFileFailsWhilePinned(t *testing.T) {
	bpm, _ := newTestPool(t, 4)
	page, err := bpm.AllocPage()
	require.NoError(t, err)

	err = bpm.FlushFile()
	assert.ErrorIs(t, err, ErrPagePinned)

	require.NoError(t, bpm.UnpinPage(page.ID(), true))
	require.NoError(t, bpm.FlushFile())
}

func TestDiskManagerRoundTrip(t *testing.T) {
	path := t.TempDir() + "/raw.db"
	dm, existed, err := NewDiskManager(path)
	require.NoError(t, err)
	assert.False(t, existed)

	var buf [PageSize]byte
	buf[0] = 42
	require.NoError(t, dm.WritePage(3, buf[:]))

	var out [PageSize]byte
	require.NoError(t, dm.ReadPage(3, out[:]))
	assert.Equal(t, buf, out)
	require.NoError(t, dm.Close())

	dm2, existed2, err := NewDiskManager(path)
	require.NoError(t, err)
	assert.True(t, existed2)
	require.NoError(t, dm2.ReadPage(3, out[:]))
	assert.Equal(t, buf, out)
	require.NoError(t, dm2.Close())
	require.NoError(t, os.Remove(path))
}
