package scraper

import (
	"strings"
	"testing"
)

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func TestCleanHTML_RemovesScriptStyle(t *testing.T) {
	html := `
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	if contains(out, "<script") || contains(out, "<style") {
		t.Errorf("script/style tags must be removed, output: %s", out)
	}
	if !contains(out, `id="main"`) {
		t.Errorf("expected to keep normal elements")
	}
}

func TestCleanHTML_RemovesComments(t *testing.T) {
	html := `
<body>
    <!-- internal note -->
    <div>Text</div>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	if contains(out, "internal note") {
		t.Errorf("html comments must be removed")
	}
}

func TestCleanHTML_KeepsResolutionAttributes(t *testing.T) {
	html := `
<body>
    <input unique_id="el_12" id="x" class="form" aria-haspopup="listbox" data-x="1" onclick="go()">
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	if !contains(out, `unique_id="el_12"`) {
		t.Errorf("stable id attribute must be kept")
	}
	if !contains(out, `aria-haspopup="listbox"`) {
		t.Errorf("aria attributes must be kept, widgets depend on them")
	}
	if !contains(out, `id="x"`) || !contains(out, `class="form"`) {
		t.Errorf("id and class must be kept")
	}
	if contains(out, "data-x") {
		t.Errorf("data-* attribute must be removed")
	}
	if contains(out, "onclick") {
		t.Errorf("event handler attributes must be removed")
	}
}

func TestCleanHTML_RemovesInlineStyles(t *testing.T) {
	html := `
<body>
    <div style="color:red" class="ok">Hi</div>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	if contains(out, "style=") {
		t.Errorf("style attribute must be removed")
	}
	if !contains(out, `class="ok"`) {
		t.Errorf("class must remain")
	}
}

func TestCleanHTML_KeepsIframes(t *testing.T) {
	html := `
<body>
    <iframe id="embedded" src="/inner"></iframe>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	if !contains(out, "<iframe") {
		t.Errorf("iframes carry indexed content and must survive cleaning")
	}
}

func TestCleanHTML_PlainTextInput(t *testing.T) {
	out := CleanHTML("just text, no markup", nil)
	if !contains(out, "just text, no markup") {
		t.Errorf("plain text input must survive cleaning, got: %s", out)
	}
}

func TestCleanHTML_Truncation(t *testing.T) {
	var big strings.Builder
	big.WriteString("<body>")
	for i := 0; i < 20000; i++ {
		big.WriteString("<div>test</div>")
	}
	big.WriteString("</body>")

	out := CleanHTML(big.String(), &DefaultCleanConfig)

	if len(out) > 130_500 {
		t.Errorf("output must be truncated near the configured limit")
	}
	if !contains(out, "truncated") {
		t.Errorf("truncation notice must appear")
	}
}
