package dom

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
	"github.com/chandrakanthm/skyvern/internal/scraper"
)

// Dropdown drives one custom dropdown widget: open it, read its current
// value, enumerate its options and select one by index. Implementations hold
// no open/closed state; every call re-reads the live DOM.
type Dropdown interface {
	Name() string
	Open(timeout time.Duration) error
	Close(timeout time.Duration) error
	CurrentValue(timeout time.Duration) (string, error)
	Options(timeout time.Duration) ([]entity.SelectOption, error)
	SelectByIndex(index int, timeout time.Duration) error
}

var (
	_ Dropdown = (*select2Dropdown)(nil)
	_ Dropdown = (*comboboxDropdown)(nil)
)

const (
	// select2 appends its overlay panel to the body, outside the anchor's
	// subtree, always under this id.
	select2PanelSelector = "[id='select2-drop']"

	// both widgets render options as listbox items
	optionSelector = "li[role='option']"

	select2ChosenSelector = "span[class='select2-chosen']"
)

// findDropdownPanel waits for the widget's panel to become visible and
// enforces that exactly one matches in frame.
func findDropdownPanel(frame *rod.Page, selector, dropdown, elementID string, timeout time.Duration) (*Locator, error) {
	panel := newLocator(frame, selector)
	if err := panel.WaitVisible(timeout); err != nil {
		count, countErr := panel.Count()
		if countErr == nil && count == 0 {
			return nil, &NoDropdownAnchorError{Dropdown: dropdown, ElementID: elementID}
		}
		return nil, err
	}

	count, err := panel.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &NoDropdownAnchorError{Dropdown: dropdown, ElementID: elementID}
	}
	if count > 1 {
		return nil, &MultipleDropdownAnchorError{Dropdown: dropdown, ElementID: elementID}
	}
	return panel, nil
}

// select2Dropdown drives the select2 overlay widget. The anchor may be any
// of the select2 anchor shapes; the panel is found by its well-known id in
// the anchor's frame.
type select2Dropdown struct {
	anchor *ElementHandle
	log    output.LoggerPort
}

func newSelect2Dropdown(anchor *ElementHandle) *select2Dropdown {
	return &select2Dropdown{anchor: anchor, log: anchor.log}
}

func (d *select2Dropdown) Name() string { return "select2" }

func (d *select2Dropdown) findPanel(timeout time.Duration) (*Locator, error) {
	return findDropdownPanel(d.anchor.Frame(), select2PanelSelector, d.Name(), d.anchor.ID(), timeout)
}

// Open clicks the anchor and waits for the overlay panel to appear.
func (d *select2Dropdown) Open(timeout time.Duration) error {
	if err := d.anchor.Locator().Click(timeout); err != nil {
		return err
	}
	_, err := d.findPanel(timeout)
	return err
}

// Close dismisses the open panel by sending Escape to it.
func (d *select2Dropdown) Close(timeout time.Duration) error {
	panel, err := d.findPanel(timeout)
	if err != nil {
		return err
	}
	return panel.Press(input.Escape, timeout)
}

// CurrentValue reads the chosen text. The anchor tag decides where the
// chosen span sits relative to the bound locator.
func (d *select2Dropdown) CurrentValue(timeout time.Duration) (string, error) {
	switch d.anchor.TagName() {
	case "input":
		// multi-select variant, value enumeration not supported yet; callers
		// get an empty value rather than a guess
		d.log.Warn("select2 multi-select value extraction is not supported", "elementId", d.anchor.ID())
		return "", nil
	case "a":
		text, err := d.anchor.Locator().Locator(select2ChosenSelector).Text(timeout)
		if err != nil {
			return "", d.valueError(err)
		}
		return text, nil
	case "span":
		// chosen/arrow spans sit next to each other, the chosen text lives
		// under their shared parent
		el, err := d.anchor.Locator().element(timeout)
		if err != nil {
			return "", d.valueError(err)
		}
		parent, err := el.Parent()
		if err != nil {
			return "", d.valueError(err)
		}
		chosen, err := parent.Element(select2ChosenSelector)
		if err != nil {
			return "", d.valueError(err)
		}
		text, err := chosen.Text()
		if err != nil {
			return "", d.valueError(err)
		}
		return text, nil
	default:
		return "", &CurrentValueError{Dropdown: d.Name(), ElementID: d.anchor.ID(), Reason: "invalid element of select2"}
	}
}

func (d *select2Dropdown) valueError(err error) error {
	return &CurrentValueError{Dropdown: d.Name(), ElementID: d.anchor.ID(), Err: err}
}

// Options enumerates the open panel's options in DOM order.
func (d *select2Dropdown) Options(timeout time.Duration) ([]entity.SelectOption, error) {
	panel, err := d.findPanel(timeout)
	if err != nil {
		return nil, err
	}
	el, err := panel.element(timeout)
	if err != nil {
		return nil, err
	}
	return scraper.Select2Options(el)
}

// SelectByIndex clicks the option at index, counted the same way Options
// enumerates.
func (d *select2Dropdown) SelectByIndex(index int, timeout time.Duration) error {
	panel, err := d.findPanel(timeout)
	if err != nil {
		return err
	}
	return panel.Locator(optionSelector).clickNth(index, timeout)
}

// comboboxDropdown drives the ARIA combobox pattern: an input anchor whose
// aria-controls attribute names the listbox panel.
type comboboxDropdown struct {
	anchor *ElementHandle
	log    output.LoggerPort
}

func newComboboxDropdown(anchor *ElementHandle) *comboboxDropdown {
	return &comboboxDropdown{anchor: anchor, log: anchor.log}
}

func (d *comboboxDropdown) Name() string { return "combobox" }

// findPanel locates the controlled listbox. The panel id is always read
// live: frameworks inject aria-controls after first render, so the snapshot
// value cannot be trusted.
func (d *comboboxDropdown) findPanel(timeout time.Duration) (*Locator, error) {
	controlID, err := d.anchor.DynamicAttr("aria-controls", timeout)
	if err != nil {
		return nil, err
	}
	if controlID == "" {
		return nil, &NoDropdownAnchorError{Dropdown: d.Name(), ElementID: d.anchor.ID()}
	}
	selector := fmt.Sprintf("[id='%s']", controlID)
	return findDropdownPanel(d.anchor.Frame(), selector, d.Name(), d.anchor.ID(), timeout)
}

// Open clicks the anchor and waits for the controlled listbox to appear.
func (d *comboboxDropdown) Open(timeout time.Duration) error {
	if err := d.anchor.Locator().Click(timeout); err != nil {
		return err
	}
	_, err := d.findPanel(timeout)
	return err
}

// Close collapses the listbox by tabbing focus off the anchor.
func (d *comboboxDropdown) Close(timeout time.Duration) error {
	return d.anchor.Locator().Press(input.Tab, timeout)
}

// CurrentValue reads the anchor's live value attribute.
func (d *comboboxDropdown) CurrentValue(timeout time.Duration) (string, error) {
	value, err := d.anchor.DynamicAttr("value", timeout)
	if err != nil {
		return "", &CurrentValueError{Dropdown: d.Name(), ElementID: d.anchor.ID(), Err: err}
	}
	return value, nil
}

// Options enumerates the controlled listbox's options in DOM order.
func (d *comboboxDropdown) Options(timeout time.Duration) ([]entity.SelectOption, error) {
	panel, err := d.findPanel(timeout)
	if err != nil {
		return nil, err
	}
	el, err := panel.element(timeout)
	if err != nil {
		return nil, err
	}
	return scraper.ComboboxOptions(el)
}

// SelectByIndex clicks the option at index, counted the same way Options
// enumerates.
func (d *comboboxDropdown) SelectByIndex(index int, timeout time.Duration) error {
	panel, err := d.findPanel(timeout)
	if err != nil {
		return err
	}
	return panel.Locator(optionSelector).clickNth(index, timeout)
}
