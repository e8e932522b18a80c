package dom

import (
	"time"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

const (
	// DefaultActionTimeout bounds browser-facing waits unless the caller
	// passes its own.
	DefaultActionTimeout = 5 * time.Second

	// DefaultTextInputDelay is the pause between key events during
	// sequential typing.
	DefaultTextInputDelay = 10 * time.Millisecond

	// DefaultTextPressMaxLength is the tail length typed key by key; any
	// prefix beyond it is filled in one shot.
	DefaultTextPressMaxLength = 10
)

// Config carries the resolution-layer knobs. Passing it explicitly keeps
// behavior reproducible under test instead of reading process-wide settings.
type Config struct {
	ActionTimeout      time.Duration
	TextInputDelay     time.Duration
	TextPressMaxLength int
}

func DefaultConfig() Config {
	return Config{
		ActionTimeout:      DefaultActionTimeout,
		TextInputDelay:     DefaultTextInputDelay,
		TextPressMaxLength: DefaultTextPressMaxLength,
	}
}

// DomUtil turns stable element ids into live, validated handles. One DomUtil
// serves one scrape of one page; a navigation or re-scrape calls for a fresh
// pair.
type DomUtil struct {
	scrape *entity.ScrapedPage
	page   *rod.Page
	cfg    Config
	log    output.LoggerPort
}

func NewDomUtil(scrape *entity.ScrapedPage, page *rod.Page, cfg Config, log output.LoggerPort) *DomUtil {
	return &DomUtil{scrape: scrape, page: page, cfg: cfg, log: log}
}

// Scrape returns the index snapshot this DomUtil resolves against.
func (d *DomUtil) Scrape() *entity.ScrapedPage { return d.scrape }

// GetElementByID resolves id to exactly one live element. The index lookups
// fail first and cheapest; once a locator is bound, zero or multiple live
// matches fail hard rather than picking a node silently.
func (d *DomUtil) GetElementByID(elementID string) (*ElementHandle, error) {
	meta, ok := d.scrape.IDToElement[elementID]
	if !ok || meta == nil {
		return nil, &MissingElementDictError{ElementID: elementID}
	}

	frameID, ok := d.scrape.IDToFrame[elementID]
	if !ok || frameID == "" {
		return nil, &MissingElementInIframeError{ElementID: elementID}
	}

	css, ok := d.scrape.IDToCSS[elementID]
	if !ok || css == "" {
		return nil, &MissingElementInCSSMapError{ElementID: elementID}
	}

	framePath, err := buildFramePath(d.scrape, frameID)
	if err != nil {
		return nil, err
	}

	locator, frame, err := bindLocator(d.page, framePath, css)
	if err != nil {
		return nil, err
	}

	count, err := locator.Count()
	if err != nil {
		return nil, err
	}
	if count < 1 {
		d.log.Warn("No elements found with css, validation failed", "css", css, "elementId", elementID)
		return nil, &MissingElementError{Selector: css, ElementID: elementID}
	}
	if count > 1 {
		d.log.Warn("Multiple elements found with css, validation failed",
			"count", count, "css", css, "elementId", elementID)
		return nil, &MultipleElementsFoundError{Count: count, Selector: css, ElementID: elementID}
	}

	return newElementHandle(elementID, locator, frame, meta, d.cfg, d.log), nil
}
