package scraper

import (
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// Config controls how deep a scrape follows nested iframes and whether the
// cleaned html view is produced alongside the index.
type Config struct {
	MaxFrameDepth int
	CleanHTML     bool
}

func DefaultConfig() Config {
	return Config{
		MaxFrameDepth: 3,
		CleanHTML:     true,
	}
}

// Service builds the element index of a page: the stamped element tree plus
// the id-to-metadata, id-to-selector and id-to-frame maps that resolution
// runs against. A scrape is a snapshot; actions that mutate the page call
// for a new one.
type Service struct {
	cfg Config
	log output.LoggerPort
}

func NewService(cfg Config, log output.LoggerPort) *Service {
	return &Service{cfg: cfg, log: log}
}

// Scrape walks the page and every reachable iframe up to MaxFrameDepth,
// stamps elements with stable ids and returns the assembled index.
func (s *Service) Scrape(page *rod.Page) (*entity.ScrapedPage, error) {
	elements, _, err := s.scrapeFrame(page, entity.RootFrameID, 0, 0)
	if err != nil {
		return nil, err
	}

	scrape := &entity.ScrapedPage{
		Elements:    elements,
		IDToElement: make(map[string]*entity.ElementMetadata),
		IDToCSS:     make(map[string]string),
		IDToFrame:   make(map[string]string),
	}

	if info, err := page.Info(); err == nil {
		scrape.URL = info.URL
	}

	var index func(node *entity.ElementMetadata)
	index = func(node *entity.ElementMetadata) {
		scrape.IDToElement[node.ID] = node
		scrape.IDToFrame[node.ID] = node.FrameID
		scrape.IDToCSS[node.ID] = fmt.Sprintf("[%s='%s']", entity.IdentityAttribute, node.ID)
		for _, child := range node.Children {
			index(child)
		}
	}
	for _, el := range elements {
		index(el)
	}

	if s.cfg.CleanHTML {
		raw, err := page.HTML()
		if err != nil {
			s.log.Warn("Reading page html failed", "error", err)
		} else {
			scrape.CleanedHTML = CleanHTML(raw, nil)
		}
	}

	s.log.Info("Page scraped", "url", scrape.URL, "elements", len(scrape.IDToElement))
	return scrape, nil
}

// scrapeFrame runs the tree builder in one frame and, within the depth
// bound, descends into each iframe it stamped. Iframe content that cannot be
// reached is logged and skipped so one opaque frame does not sink the whole
// scrape.
func (s *Service) scrapeFrame(page *rod.Page, frameID string, counter, depth int) ([]*entity.ElementMetadata, int, error) {
	res, err := page.Eval(elementTreeJS, counter, frameID)
	if err != nil {
		return nil, counter, fmt.Errorf("build element tree in frame %s: %w", frameID, err)
	}
	var payload treePayload
	if err := json.Unmarshal([]byte(res.Value.Str()), &payload); err != nil {
		return nil, counter, fmt.Errorf("decode element tree of frame %s: %w", frameID, err)
	}
	counter = payload.Next

	if depth >= s.cfg.MaxFrameDepth {
		return payload.Elements, counter, nil
	}

	var walk func(node *entity.ElementMetadata)
	walk = func(node *entity.ElementMetadata) {
		if node.TagName == "iframe" || node.TagName == "frame" {
			hostSelector := fmt.Sprintf("[%s='%s']", entity.IdentityAttribute, node.ID)
			found, host, err := page.Has(hostSelector)
			if err != nil || !found {
				s.log.Warn("Iframe host not found, skipping frame", "elementId", node.ID)
				return
			}
			frame, err := host.Frame()
			if err != nil || frame == nil {
				s.log.Warn("Iframe content unreachable, skipping frame", "elementId", node.ID)
				return
			}
			children, next, err := s.scrapeFrame(frame, node.ID, counter, depth+1)
			if err != nil {
				s.log.Warn("Scraping iframe failed, skipping frame", "elementId", node.ID, "error", err)
				return
			}
			counter = next
			node.Children = append(node.Children, children...)
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, el := range payload.Elements {
		walk(el)
	}

	return payload.Elements, counter, nil
}
