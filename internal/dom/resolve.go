package dom

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// maxFrameDepth bounds the upward owning-frame walk so a corrupt index with
// a frame cycle fails deterministically instead of looping.
const maxFrameDepth = 32

// buildFramePath walks the owning-frame chain from frameID up to the root
// sentinel and returns the iframe host ids in root-to-target order, ready
// for descent. An element that lives in the root frame yields an empty path.
func buildFramePath(scrape *entity.ScrapedPage, frameID string) ([]string, error) {
	var path []string
	for frameID != entity.RootFrameID {
		if len(path) >= maxFrameDepth {
			return nil, &FrameChainTooDeepError{FrameID: frameID, MaxDepth: maxFrameDepth}
		}
		path = append(path, frameID)

		host, ok := scrape.IDToElement[frameID]
		if !ok || host == nil {
			return nil, &MissingElementError{ElementID: frameID}
		}
		if host.FrameID == "" {
			return nil, &ElementWithoutFrameError{ElementID: frameID}
		}
		frameID = host.FrameID
	}

	// the walk collects nearest-ancestor first, descent needs root first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// bindLocator descends framePath from page, hopping into each iframe's
// content document, and returns a locator for selector scoped to the deepest
// frame plus that frame context. Host lookups are immediate queries: a
// missing host fails now rather than waiting for a node that a scrape
// already proved present.
func bindLocator(page *rod.Page, framePath []string, selector string) (*Locator, *rod.Page, error) {
	current := page
	for _, frameID := range framePath {
		hostSelector := fmt.Sprintf("[%s='%s']", entity.IdentityAttribute, frameID)

		found, host, err := current.Has(hostSelector)
		if err != nil {
			return nil, nil, fmt.Errorf("query frame host %q: %w", hostSelector, err)
		}
		if !found {
			return nil, nil, &MissingElementError{Selector: hostSelector, ElementID: frameID}
		}

		frame, err := host.Frame()
		if err != nil || frame == nil {
			return nil, nil, &NoneFrameError{FrameID: frameID}
		}
		current = frame
	}
	return newLocator(current, selector), current, nil
}
