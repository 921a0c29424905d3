package buffer

import (
	"testing"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDisk is an in-memory disk.Manager that also records every
// WritePage call, in order, so tests can assert on writeback ordering
// (scenario S2) without touching a real file.
type recordingDisk struct {
	pages   map[common.PageID][]byte
	written []common.PageID
}

func newRecordingDisk() *recordingDisk {
	return &recordingDisk{pages: make(map[common.PageID][]byte)}
}

func (d *recordingDisk) ReadPage(id common.PageID, dest []byte) error {
	if src, ok := d.pages[id]; ok {
		copy(dest, src)
		return nil
	}
	for i := range dest {
		dest[i] = 0
	}
	return nil
}

func (d *recordingDisk) WritePage(id common.PageID, src []byte) error {
	buf := make([]byte, len(src))
	copy(buf, src)
	d.pages[id] = buf
	d.written = append(d.written, id)
	return nil
}

func TestExhaustion_S1(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(3, disk, WithReplacerK(2))

	for i := 0; i < 3; i++ {
		_, _, ok := pool.NewPage()
		require.True(t, ok, "iteration %d should succeed", i)
	}

	_, _, ok := pool.NewPage()
	assert.False(t, ok, "fourth new_page with all pins held must return none")
}

func TestRecycleAfterUnpin_S2(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(3, disk, WithReplacerK(2))

	p1, buf1, ok := pool.NewPage()
	require.True(t, ok)
	copy(buf1, []byte("dirty page one"))

	_, _, ok = pool.NewPage()
	require.True(t, ok)
	_, _, ok = pool.NewPage()
	require.True(t, ok)

	require.True(t, pool.UnpinPage(p1, true), "unpin(p1, dirty=true)")

	_, _, ok = pool.NewPage()
	require.True(t, ok, "new_page should succeed by evicting the now-unpinned p1")

	require.NotEmpty(t, disk.written, "victim writeback should have called write_page")
	assert.Equal(t, p1, disk.written[0], "the dirty victim written back must be p1")
}

func TestDeletePinned_S6(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(3, disk, WithReplacerK(2))

	pid, _, ok := pool.NewPage()
	require.True(t, ok)

	assert.False(t, pool.DeletePage(pid), "delete_page on a pinned frame must fail")

	count, resident := pool.PinCount(pid)
	require.True(t, resident, "p must remain resident after the failed delete")
	assert.Equal(t, 1, count, "p must remain pinned after the failed delete")
}

func TestNewPageThenFetch_L1(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(4, disk)

	pid, _, ok := pool.NewPage()
	require.True(t, ok)

	_, ok = pool.FetchPage(pid)
	require.True(t, ok)

	count, resident := pool.PinCount(pid)
	require.True(t, resident)
	assert.Equal(t, 2, count, "fetch_page on a just-made page increments pin_count by one")
}

func TestFetchThenUnpinIsObservationallyIdentical_L2(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(4, disk)

	pid, _, ok := pool.NewPage()
	require.True(t, ok)
	require.True(t, pool.UnpinPage(pid, false))

	before, _ := pool.PinCount(pid)

	_, ok = pool.FetchPage(pid)
	require.True(t, ok)
	require.True(t, pool.UnpinPage(pid, false))

	after, _ := pool.PinCount(pid)
	assert.Equal(t, before, after, "fetch+unpin(clean) should leave pin_count unchanged")
}

func TestFlushPageMatchesDisk_L3(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(4, disk)

	pid, buf, ok := pool.NewPage()
	require.True(t, ok)
	copy(buf, []byte("payload"))
	require.True(t, pool.UnpinPage(pid, true))

	require.True(t, pool.FlushPage(pid))
	assert.Equal(t, []byte("payload"), disk.pages[pid][:7])
}

func TestUnpinAbsentOrDoubleUnpin(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(2, disk)

	assert.False(t, pool.UnpinPage(common.PageID(999), false), "unpin of an absent page must fail")

	pid, _, ok := pool.NewPage()
	require.True(t, ok)
	require.True(t, pool.UnpinPage(pid, false))
	assert.False(t, pool.UnpinPage(pid, false), "double unpin must fail")
}

func TestDeleteAbsentPageIsNoOpSuccess(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(2, disk)
	assert.True(t, pool.DeletePage(common.PageID(42)))
}

func TestFlushAllPagesOnlyTouchesValidFrames(t *testing.T) {
	disk := newRecordingDisk()
	pool := NewPool(3, disk)

	pid, buf, ok := pool.NewPage()
	require.True(t, ok)
	copy(buf, []byte("abc"))
	require.True(t, pool.UnpinPage(pid, true))

	pool.FlushAllPages()
	assert.Equal(t, []common.PageID{pid}, disk.written, "only the one resident page is written; empty frames are skipped")
}
