// Command bufferpool is a small demo driver for the buffer pool: it opens
// an mmap'd heap file, allocates one page, writes into it, unpins it as
// dirty, flushes it, and reports what happened through glog.
package main

import (
	"flag"
	"os"

	"github.com/arraydb/bufferpool/internal/storage/buffer"
	"github.com/arraydb/bufferpool/internal/storage/disk"
	"github.com/golang/glog"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	dbPath := "bufferpool_demo.dat"
	dm, err := disk.NewFileManager(dbPath, 16)
	if err != nil {
		glog.Exitf("open disk manager: %v", err)
	}
	defer dm.Close()
	defer os.Remove(dbPath)

	pool := buffer.NewPool(4, dm, buffer.WithReplacerK(2))

	pageID, buf, ok := pool.NewPage()
	if !ok {
		glog.Exitf("pool exhausted on first new_page")
	}
	copy(buf, []byte("hello, buffer pool"))

	if !pool.UnpinPage(pageID, true) {
		glog.Errorf("unexpected unpin failure for page %d", pageID)
	}
	if !pool.FlushPage(pageID) {
		glog.Errorf("unexpected flush failure for page %d", pageID)
	}

	stats := pool.Stats()
	glog.Infof("demo done: page=%d hits=%d misses=%d evictions=%d", pageID, stats.Hits, stats.Misses, stats.Evictions)
}
