// Package page defines the on-disk page format: a fixed-size, checksummed
// header framing the buffer pool's logical common.PageSize payload. The
// buffer pool itself treats pages as opaque byte buffers (spec.md §6);
// this package is the one place that on-disk framing is spelled out, and
// disk.FileManager wraps/unwraps every read and write through it so the
// checksum check actually runs on the disk I/O path.
package page

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/arraydb/bufferpool/internal/common"
)

// HeaderSize is PageID (8 bytes) + Checksum (4 bytes).
const HeaderSize = 12

// PayloadSize is the logical page size the buffer pool deals in; it is
// carried verbatim, not truncated, so framing a page never loses bytes.
const PayloadSize = common.PageSize

// FramedSize is the total number of bytes Serialize produces and
// Deserialize consumes: the on-disk footprint of one page, header
// included.
const FramedSize = HeaderSize + PayloadSize

// ErrChecksumMismatch is returned by Deserialize when the stored checksum
// does not match the payload.
var ErrChecksumMismatch = errors.New("page: checksum mismatch")

// Page is the in-memory view of one on-disk page.
type Page struct {
	Header  Header
	Payload [PayloadSize]byte
}

// Header is the fixed-size prefix of every serialized page.
type Header struct {
	PageID   common.PageID
	Checksum uint32
}

// New returns a zeroed page stamped with id.
func New(id common.PageID) *Page {
	return &Page{Header: Header{PageID: id}}
}

// Serialize packs p into a FramedSize byte buffer, computing the checksum
// over the payload.
func (p *Page) Serialize() []byte {
	buf := make([]byte, FramedSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	checksum := crc32.ChecksumIEEE(p.Payload[:])
	binary.LittleEndian.PutUint32(buf[8:12], checksum)
	copy(buf[HeaderSize:], p.Payload[:])
	return buf
}

// Deserialize unpacks data (which must be FramedSize bytes) into a Page,
// validating the stored checksum against the payload.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != FramedSize {
		return nil, errors.New("page: deserialize expects a full framed buffer")
	}

	p := &Page{}
	p.Header.PageID = common.PageID(binary.LittleEndian.Uint64(data[0:8]))
	p.Header.Checksum = binary.LittleEndian.Uint32(data[8:12])
	copy(p.Payload[:], data[HeaderSize:])

	if crc32.ChecksumIEEE(p.Payload[:]) != p.Header.Checksum {
		return nil, ErrChecksumMismatch
	}
	return p, nil
}
