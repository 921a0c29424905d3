// Package disk provides the disk-manager collaborator spec.md §1/§6
// describes as out-of-scope-but-depended-on: a blocking, byte-addressable
// page store the buffer pool calls while holding its own latch. Manager
// is the interface the buffer pool actually depends on; FileManager is
// one concrete, mmap-backed implementation used by this module's own
// tests and demo CLI.
package disk

import "github.com/arraydb/bufferpool/internal/common"

// Manager is the disk manager interface consumed by the buffer pool:
// read_page(page_id, dest_buffer) / write_page(page_id, src_buffer) from
// spec.md §6, translated to Go signatures. Both calls are blocking;
// neither takes a context, matching spec.md §5's "no cancellation"
// ordering guarantee.
type Manager interface {
	ReadPage(id common.PageID, dest []byte) error
	WritePage(id common.PageID, src []byte) error
}
