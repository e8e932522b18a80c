package dom

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Locator pairs a css selector with the frame context it is scoped to. It
// holds no node identity: every call re-queries the live DOM, so a locator
// stays valid across re-renders as long as the selector still matches.
type Locator struct {
	page     *rod.Page
	selector string
}

func newLocator(page *rod.Page, selector string) *Locator {
	return &Locator{page: page, selector: selector}
}

// Selector returns the css selector this locator queries.
func (l *Locator) Selector() string { return l.selector }

// Page returns the frame context the selector is scoped to.
func (l *Locator) Page() *rod.Page { return l.page }

// Locator narrows to a descendant selector inside the same frame context.
func (l *Locator) Locator(selector string) *Locator {
	return newLocator(l.page, l.selector+" "+selector)
}

// Count reports how many nodes currently match. It never waits.
func (l *Locator) Count() (int, error) {
	elements, err := l.page.Elements(l.selector)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", l.selector, err)
	}
	return len(elements), nil
}

// element waits for one matching node within timeout.
func (l *Locator) element(timeout time.Duration) (*rod.Element, error) {
	el, err := l.page.Timeout(timeout).Element(l.selector)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w", l.selector, err)
	}
	return el, nil
}

// Attribute reads an attribute from the matched node. A nil result means the
// attribute is absent on the live element.
func (l *Locator) Attribute(name string, timeout time.Duration) (*string, error) {
	el, err := l.element(timeout)
	if err != nil {
		return nil, err
	}
	val, err := el.Attribute(name)
	if err != nil {
		return nil, fmt.Errorf("read attribute %q of %q: %w", name, l.selector, err)
	}
	return val, nil
}

// Text returns the visible text of the matched node.
func (l *Locator) Text(timeout time.Duration) (string, error) {
	el, err := l.element(timeout)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", l.selector, err)
	}
	return text, nil
}

// WaitVisible blocks until the matched node is visible.
func (l *Locator) WaitVisible(timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %q: %w", l.selector, err)
	}
	return nil
}

// Click waits for visibility and performs a single left click.
func (l *Locator) Click(timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %q: %w", l.selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", l.selector, err)
	}
	return nil
}

// clickNth clicks the nth matching node in DOM order.
func (l *Locator) clickNth(index int, timeout time.Duration) error {
	elements, err := l.page.Timeout(timeout).Elements(l.selector)
	if err != nil {
		return fmt.Errorf("enumerate %q: %w", l.selector, err)
	}
	if index < 0 || index >= len(elements) {
		return fmt.Errorf("index %d out of range, %d nodes match %q", index, len(elements), l.selector)
	}
	el := elements[index]
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %q nth=%d: %w", l.selector, index, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q nth=%d: %w", l.selector, index, err)
	}
	return nil
}

// Fill replaces the current value with text in one shot, without per-key
// events.
func (l *Locator) Fill(text string, timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text of %q: %w", l.selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("fill %q: %w", l.selector, err)
	}
	return nil
}

// Clear empties the current value by replacing the full selection.
func (l *Locator) Clear(timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text of %q: %w", l.selector, err)
	}
	if err := el.Type(input.Backspace); err != nil {
		return fmt.Errorf("clear %q: %w", l.selector, err)
	}
	return nil
}

// Press sends a single key event to the matched node.
func (l *Locator) Press(key input.Key, timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	if err := el.Type(key); err != nil {
		return fmt.Errorf("press key on %q: %w", l.selector, err)
	}
	return nil
}

// TypeSequentially sends text one key event at a time, pausing delay between
// characters, so keystroke-driven pages see every character arrive.
func (l *Locator) TypeSequentially(text string, delay, timeout time.Duration) error {
	el, err := l.element(timeout)
	if err != nil {
		return err
	}
	for i, r := range []rune(text) {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		if err := el.Type(input.Key(r)); err != nil {
			return fmt.Errorf("type %q into %q: %w", r, l.selector, err)
		}
	}
	return nil
}
