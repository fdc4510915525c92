package listing

import (
	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

// LoadedMsg delivers a decoded page for the request with the given
// generation.
type LoadedMsg struct {
	view       *View
	Generation uint64
	Path       string
	Page       *catalog.Page
}

// FailedMsg delivers the error of a request that did not produce a page.
type FailedMsg struct {
	view       *View
	Generation uint64
	Path       string
	Err        error
}
