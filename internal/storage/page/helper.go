package page

import (
	"github.com/arraydb/bufferpool/internal/common"
)

// NewTestPage builds a page stamped with pageID and payload truncated or
// zero-padded to fit, for use in tests.
func NewTestPage(pageID common.PageID, payload []byte) *Page {
	p := New(pageID)
	if len(payload) > len(p.Payload) {
		payload = payload[:len(p.Payload)]
	}
	copy(p.Payload[:], payload)
	return p
}
