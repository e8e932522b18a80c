package entity

// IdentityAttribute is the DOM attribute injected during scraping. It carries
// an element's stable id and is also how iframe host elements are matched
// while a frame path is being resolved.
const IdentityAttribute = "unique_id"

// RootFrameID is the owning-frame sentinel for elements that live in the main
// document rather than inside an iframe.
const RootFrameID = "main.frame"

// SelectOption mirrors the option objects produced by the in-page scripts.
type SelectOption struct {
	OptionIndex int    `json:"optionIndex"`
	Text        string `json:"text"`
}

// ElementMetadata is the value snapshot of one DOM node taken during a scrape.
// It is never live: after a navigation the whole snapshot must be replaced,
// not patched in place.
type ElementMetadata struct {
	ID           string             `json:"id"`
	TagName      string             `json:"tagName"`
	Attributes   map[string]string  `json:"attributes,omitempty"`
	Children     []*ElementMetadata `json:"children,omitempty"`
	Interactable bool               `json:"interactable"`
	Options      []SelectOption     `json:"options,omitempty"`
	FrameID      string             `json:"frame"`
	Text         string             `json:"text,omitempty"`
}

// Attr returns the snapshot value of a single attribute and whether it was
// captured at scrape time.
func (m *ElementMetadata) Attr(name string) (string, bool) {
	if m.Attributes == nil {
		return "", false
	}
	v, ok := m.Attributes[name]
	return v, ok
}

// ScrapedPage is the index one scrape produces: the element tree roots plus
// the id to metadata, id to selector and id to owning-frame maps. Every id in
// IDToCSS must have an IDToFrame entry, and frame-ownership chains must be
// acyclic.
type ScrapedPage struct {
	URL         string
	Elements    []*ElementMetadata
	IDToElement map[string]*ElementMetadata
	IDToCSS     map[string]string
	IDToFrame   map[string]string
	CleanedHTML string
}
