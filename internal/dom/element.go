package dom

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// Tags that can take a selection on their own, next to the custom dropdown
// widgets.
var selectableTags = []string{"input", "select"}

// ElementHandle binds one scraped element to a live locator and the frame it
// resolved into. The metadata snapshot answers most questions; attribute
// reads fall back to the live DOM only when the snapshot has no usable
// value.
type ElementHandle struct {
	id      string
	locator *Locator
	frame   *rod.Page
	meta    *entity.ElementMetadata
	cfg     Config
	log     output.LoggerPort
}

func newElementHandle(id string, locator *Locator, frame *rod.Page, meta *entity.ElementMetadata, cfg Config, log output.LoggerPort) *ElementHandle {
	return &ElementHandle{id: id, locator: locator, frame: frame, meta: meta, cfg: cfg, log: log}
}

// ID returns the stable element id the handle was resolved from.
func (h *ElementHandle) ID() string { return h.id }

// TagName returns the lowercase tag captured at scrape time.
func (h *ElementHandle) TagName() string { return h.meta.TagName }

// Locator exposes the bound locator for raw driver operations.
func (h *ElementHandle) Locator() *Locator { return h.locator }

// Frame returns the frame context the element resolved into.
func (h *ElementHandle) Frame() *rod.Page { return h.frame }

// Metadata returns the scrape-time snapshot backing this handle.
func (h *ElementHandle) Metadata() *entity.ElementMetadata { return h.meta }

// Options returns the option list captured at scrape time.
func (h *ElementHandle) Options() []entity.SelectOption { return h.meta.Options }

// Attr returns an attribute value, preferring the snapshot. When the
// snapshot is missing the attribute or holds an empty value, the live DOM is
// consulted so late-injected attributes are still seen.
func (h *ElementHandle) Attr(name string, timeout time.Duration) (string, error) {
	if v, ok := h.meta.Attr(name); ok && v != "" {
		return v, nil
	}
	return h.DynamicAttr(name, timeout)
}

// DynamicAttr always reads the attribute from the live DOM, bypassing the
// snapshot. An absent attribute reads as the empty string.
func (h *ElementHandle) DynamicAttr(name string, timeout time.Duration) (string, error) {
	v, err := h.locator.Attribute(name, timeout)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// IsInteractable reports the scrape-time interactability flag.
func (h *ElementHandle) IsInteractable() bool { return h.meta.Interactable }

// IsSelect2Dropdown reports whether the element is one of the select2 anchor
// shapes: the choice link, the chosen or arrow span, or the search input.
func (h *ElementHandle) IsSelect2Dropdown() (bool, error) {
	class, err := h.Attr("class", h.cfg.ActionTimeout)
	if err != nil {
		return false, err
	}
	if class == "" {
		return false, nil
	}
	switch h.TagName() {
	case "a":
		return strings.Contains(class, "select2-choice"), nil
	case "span":
		return strings.Contains(class, "select2-chosen") || strings.Contains(class, "select2-arrow"), nil
	case "input":
		return strings.Contains(class, "select2-input"), nil
	}
	return false, nil
}

// IsComboboxDropdown reports whether the element carries the ARIA combobox
// contract: an input with role combobox popping up a listbox.
func (h *ElementHandle) IsComboboxDropdown() (bool, error) {
	if h.TagName() != "input" {
		return false, nil
	}
	role, err := h.Attr("role", h.cfg.ActionTimeout)
	if err != nil {
		return false, err
	}
	if role != "combobox" {
		return false, nil
	}
	haspopup, err := h.Attr("aria-haspopup", h.cfg.ActionTimeout)
	if err != nil {
		return false, err
	}
	return haspopup == "listbox", nil
}

// IsCheckbox reports whether the element is an input of type checkbox.
func (h *ElementHandle) IsCheckbox() (bool, error) {
	if h.TagName() != "input" {
		return false, nil
	}
	typ, err := h.Attr("type", h.cfg.ActionTimeout)
	if err != nil {
		return false, err
	}
	return typ == "checkbox", nil
}

// IsRadio reports whether the element is an input of type radio.
func (h *ElementHandle) IsRadio() (bool, error) {
	if h.TagName() != "input" {
		return false, nil
	}
	typ, err := h.Attr("type", h.cfg.ActionTimeout)
	if err != nil {
		return false, err
	}
	return typ == "radio", nil
}

// IsSelectable reports whether the element can take a selection: a custom
// dropdown widget or a native input or select.
func (h *ElementHandle) IsSelectable() (bool, error) {
	select2, err := h.IsSelect2Dropdown()
	if err != nil {
		return false, err
	}
	if select2 {
		return true, nil
	}
	combobox, err := h.IsComboboxDropdown()
	if err != nil {
		return false, err
	}
	if combobox {
		return true, nil
	}
	for _, tag := range selectableTags {
		if h.TagName() == tag {
			return true, nil
		}
	}
	return false, nil
}

// Select2Dropdown builds the overlay-panel dropdown strategy for this
// element, refusing elements that are not select2 anchors.
func (h *ElementHandle) Select2Dropdown() (Dropdown, error) {
	ok, err := h.IsSelect2Dropdown()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotSelect2DropdownError{ElementID: h.id}
	}
	return newSelect2Dropdown(h), nil
}

// ComboboxDropdown builds the ARIA combobox dropdown strategy for this
// element, refusing elements without the combobox contract.
func (h *ElementHandle) ComboboxDropdown() (Dropdown, error) {
	ok, err := h.IsComboboxDropdown()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotComboboxDropdownError{ElementID: h.id}
	}
	return newComboboxDropdown(h), nil
}

// InputFill replaces the element's value with text in one shot.
func (h *ElementHandle) InputFill(text string, timeout time.Duration) error {
	return h.locator.Fill(text, timeout)
}

// InputClear empties the element's value.
func (h *ElementHandle) InputClear(timeout time.Duration) error {
	return h.locator.Clear(timeout)
}

// InputSequentially enters text so the page sees real key events. Text
// longer than TextPressMaxLength is filled in one shot except for the
// trailing runes, which are typed one by one with TextInputDelay between
// them. That keeps long inputs fast while still firing the key handlers
// autocomplete fields listen on.
func (h *ElementHandle) InputSequentially(text string, timeout time.Duration) error {
	runes := []rune(text)
	if len(runes) > h.cfg.TextPressMaxLength {
		split := len(runes) - h.cfg.TextPressMaxLength
		if err := h.locator.Fill(string(runes[:split]), timeout); err != nil {
			return err
		}
		runes = runes[split:]
	}
	return h.locator.TypeSequentially(string(runes), h.cfg.TextInputDelay, timeout)
}

// FindElementIDInLabelChildren scans the label's immediate children for the
// first interactable child with the given tag and returns its id. An empty
// id means no child matched.
func (h *ElementHandle) FindElementIDInLabelChildren(tagName string) (string, error) {
	if h.TagName() != "label" {
		return "", &NotLabelError{TagName: h.TagName()}
	}
	for _, child := range h.meta.Children {
		if child == nil || !child.Interactable {
			continue
		}
		if child.TagName == tagName {
			return child.ID, nil
		}
	}
	return "", nil
}

// FindLabelFor follows the label's for attribute to its control and resolves
// it through du. It returns nil without error when the element is not a
// label, the attribute is empty, or the target id does not match exactly one
// live element carrying a stable id.
func (h *ElementHandle) FindLabelFor(du *DomUtil, timeout time.Duration) (*ElementHandle, error) {
	if h.TagName() != "label" {
		return nil, nil
	}

	forID, err := h.Attr("for", timeout)
	if err != nil {
		return nil, err
	}
	if forID == "" {
		return nil, nil
	}

	target := newLocator(h.frame, fmt.Sprintf("[id='%s']", forID))
	count, err := target.Count()
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, nil
	}

	uniqueID, err := target.Attribute(entity.IdentityAttribute, timeout)
	if err != nil {
		return nil, err
	}
	if uniqueID == nil {
		return nil, nil
	}

	return du.GetElementByID(*uniqueID)
}

// FindSelectableChild walks the subtree breadth-first, starting at this
// element, and returns the first node that can take a selection: either an
// interactable selectable element, or the selectable control a label points
// at. Label resolution failures are logged and skipped so one broken label
// does not abort the search; a child that fails to resolve aborts it,
// because the index itself is stale at that point. nil means the subtree has
// no selectable node.
func (h *ElementHandle) FindSelectableChild(du *DomUtil) (*ElementHandle, error) {
	queue := []*ElementHandle{h}
	for index := 0; index < len(queue); index++ {
		item := queue[index]

		selectable, err := item.IsSelectable()
		if err != nil {
			return nil, err
		}
		if item.IsInteractable() && selectable {
			return item, nil
		}

		if target, err := item.labelForSelectable(du); err != nil {
			h.log.Error("Failed to find element by label-for", "elementId", item.ID(), "error", err)
		} else if target != nil {
			return target, nil
		}

		for _, child := range item.meta.Children {
			if child == nil {
				continue
			}
			childHandle, err := du.GetElementByID(child.ID)
			if err != nil {
				return nil, err
			}
			queue = append(queue, childHandle)
		}
	}
	return nil, nil
}

// labelForSelectable resolves the label-for target and keeps it only when it
// is selectable.
func (h *ElementHandle) labelForSelectable(du *DomUtil) (*ElementHandle, error) {
	target, err := h.FindLabelFor(du, h.cfg.ActionTimeout)
	if err != nil || target == nil {
		return nil, err
	}
	selectable, err := target.IsSelectable()
	if err != nil {
		return nil, err
	}
	if !selectable {
		return nil, nil
	}
	return target, nil
}
