package scraper

import (
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// elementTreeJS walks one frame's document, stamps every element with a
// stable id attribute and serializes the tree. The attribute name must stay
// in sync with entity.IdentityAttribute. The counter start is passed in so
// ids stay unique across frames; the next free value is returned with the
// tree.
const elementTreeJS = `(start, frameId) => {
	const interactableTags = new Set(['a', 'button', 'input', 'select', 'textarea', 'option', 'label']);
	const interactableRoles = new Set(['button', 'link', 'checkbox', 'radio', 'combobox', 'option', 'listbox', 'textbox', 'searchbox', 'menuitem', 'tab', 'switch']);

	const isInteractable = (el) => {
		const tag = el.tagName.toLowerCase();
		if (interactableTags.has(tag)) return true;
		const role = el.getAttribute('role');
		if (role && interactableRoles.has(role)) return true;
		if (el.hasAttribute('onclick') || el.hasAttribute('contenteditable')) return true;
		const style = window.getComputedStyle(el);
		if (style.cursor === 'pointer' && el.hasAttribute('tabindex')) return true;
		return false;
	};

	const isVisible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};

	const directText = (el) => {
		let text = '';
		for (const node of el.childNodes) {
			if (node.nodeType === Node.TEXT_NODE) text += node.textContent;
		}
		return text.trim();
	};

	let counter = start;

	const build = (el) => {
		const id = 'el_' + counter++;
		el.setAttribute('unique_id', id);

		const attributes = {};
		for (const attr of el.attributes) {
			if (attr.name === 'unique_id') continue;
			attributes[attr.name] = attr.value;
		}

		const node = {
			id: id,
			tagName: el.tagName.toLowerCase(),
			attributes: attributes,
			children: [],
			interactable: isInteractable(el) && isVisible(el),
			frame: frameId,
			text: directText(el),
		};

		if (node.tagName === 'select') {
			node.options = [];
			for (let i = 0; i < el.options.length; i++) {
				node.options.push({ optionIndex: i, text: (el.options[i].text || '').trim() });
			}
		}

		for (const child of el.children) {
			node.children.push(build(child));
		}
		return node;
	};

	const elements = [];
	const roots = document.body ? document.body.children : [];
	for (const child of roots) {
		elements.push(build(child));
	}
	return JSON.stringify({ elements: elements, next: counter });
}`

// treePayload is the wire shape elementTreeJS returns.
type treePayload struct {
	Elements []*entity.ElementMetadata `json:"elements"`
	Next     int                       `json:"next"`
}

// Both custom widgets render their options as listbox items. Keeping the
// selector identical to the one used for index-based clicks guarantees that
// optionIndex aligns with what a click would hit.
const select2OptionsJS = `() => {
	const items = this.querySelectorAll("li[role='option']");
	const options = [];
	items.forEach((item, index) => {
		options.push({ optionIndex: index, text: (item.textContent || '').trim() });
	});
	return JSON.stringify(options);
}`

const comboboxOptionsJS = `() => {
	const items = this.querySelectorAll("li[role='option']");
	const options = [];
	items.forEach((item, index) => {
		const label = item.getAttribute('aria-label');
		options.push({ optionIndex: index, text: (label || item.textContent || '').trim() });
	});
	return JSON.stringify(options);
}`

// Select2Options enumerates the options of an open select2 overlay panel in
// DOM order.
func Select2Options(panel *rod.Element) ([]entity.SelectOption, error) {
	return evalOptions(panel, select2OptionsJS, "select2")
}

// ComboboxOptions enumerates the options of an open combobox listbox panel
// in DOM order, preferring aria-label text when present.
func ComboboxOptions(panel *rod.Element) ([]entity.SelectOption, error) {
	return evalOptions(panel, comboboxOptionsJS, "combobox")
}

func evalOptions(panel *rod.Element, js, widget string) ([]entity.SelectOption, error) {
	res, err := panel.Eval(js)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s options: %w", widget, err)
	}
	var options []entity.SelectOption
	if err := json.Unmarshal([]byte(res.Value.Str()), &options); err != nil {
		return nil, fmt.Errorf("decode %s options: %w", widget, err)
	}
	return options, nil
}
