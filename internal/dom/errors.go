package dom

import "fmt"

// Resolution and widget failures are typed so callers can branch with
// errors.As instead of matching message text. Messages carry the selector and
// element id verbatim because they are read next to the scrape index when an
// action fails.

// MissingElementDictError means the id has no metadata entry in the scrape
// index.
type MissingElementDictError struct {
	ElementID string
}

func (e *MissingElementDictError) Error() string {
	return fmt.Sprintf("invalid element id. element_id=%s", e.ElementID)
}

// MissingElementInIframeError means the id has no owning-frame entry.
type MissingElementInIframeError struct {
	ElementID string
}

func (e *MissingElementInIframeError) Error() string {
	return fmt.Sprintf("found no iframe owning the element. element_id=%s", e.ElementID)
}

// MissingElementInCSSMapError means the id has no selector entry.
type MissingElementInCSSMapError struct {
	ElementID string
}

func (e *MissingElementInCSSMapError) Error() string {
	return fmt.Sprintf("found no css selector for the element. element_id=%s", e.ElementID)
}

// MissingElementError means the selector matched nothing in the live DOM,
// usually because a previous action removed or replaced the element.
type MissingElementError struct {
	Selector  string
	ElementID string
}

func (e *MissingElementError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("found no elements, might be removed by previous actions. element_id=%s", e.ElementID)
	}
	return fmt.Sprintf("found no elements, might be removed by previous actions. selector=%s element_id=%s", e.Selector, e.ElementID)
}

// MultipleElementsFoundError means the selector stopped being unique.
type MultipleElementsFoundError struct {
	Count     int
	Selector  string
	ElementID string
}

func (e *MultipleElementsFoundError) Error() string {
	return fmt.Sprintf("found %d elements, expected 1. selector=%s element_id=%s", e.Count, e.Selector, e.ElementID)
}

// NoneFrameError means an iframe host element yielded no frame content.
type NoneFrameError struct {
	FrameID string
}

func (e *NoneFrameError) Error() string {
	return fmt.Sprintf("frame content is none. frame_id=%s", e.FrameID)
}

// ElementWithoutFrameError means a metadata entry on the owning-frame chain
// has no frame association at all.
type ElementWithoutFrameError struct {
	ElementID string
}

func (e *ElementWithoutFrameError) Error() string {
	return fmt.Sprintf("element has no frame association. element_id=%s", e.ElementID)
}

// FrameChainTooDeepError means the owning-frame walk did not reach the root
// within the depth bound. A healthy index never nests frames that deep, so
// this almost always signals a cycle.
type FrameChainTooDeepError struct {
	FrameID  string
	MaxDepth int
}

func (e *FrameChainTooDeepError) Error() string {
	return fmt.Sprintf("frame chain exceeded %d levels, index may contain a cycle. frame_id=%s", e.MaxDepth, e.FrameID)
}

// NotLabelError means a label-only operation was called on something else.
type NotLabelError struct {
	TagName string
}

func (e *NotLabelError) Error() string {
	return fmt.Sprintf("<%s> element is not <label>", e.TagName)
}

// NotSelect2DropdownError rejects building the select2 strategy on an
// element that does not match any select2 anchor shape.
type NotSelect2DropdownError struct {
	ElementID string
}

func (e *NotSelect2DropdownError) Error() string {
	return fmt.Sprintf("element is not a select2 dropdown. element_id=%s", e.ElementID)
}

// NotComboboxDropdownError rejects building the combobox strategy on an
// element without the combobox ARIA contract.
type NotComboboxDropdownError struct {
	ElementID string
}

func (e *NotComboboxDropdownError) Error() string {
	return fmt.Sprintf("element is not a combobox dropdown. element_id=%s", e.ElementID)
}

// NoDropdownAnchorError means the widget's panel never appeared after the
// interaction that should have opened it.
type NoDropdownAnchorError struct {
	Dropdown  string
	ElementID string
}

func (e *NoDropdownAnchorError) Error() string {
	return fmt.Sprintf("no %s dropdown panel found. element_id=%s", e.Dropdown, e.ElementID)
}

// MultipleDropdownAnchorError means more than one panel is open at once, so
// option reads would be ambiguous.
type MultipleDropdownAnchorError struct {
	Dropdown  string
	ElementID string
}

func (e *MultipleDropdownAnchorError) Error() string {
	return fmt.Sprintf("found multiple %s dropdown panels, expected 1. element_id=%s", e.Dropdown, e.ElementID)
}

// CurrentValueError wraps any failure while reading a dropdown's current
// value, keeping the widget strategy and element id attached.
type CurrentValueError struct {
	Dropdown  string
	ElementID string
	Reason    string
	Err       error
}

func (e *CurrentValueError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	return fmt.Sprintf("failed to get current value of %s dropdown. element_id=%s reason=%s", e.Dropdown, e.ElementID, reason)
}

func (e *CurrentValueError) Unwrap() error { return e.Err }
