package dom

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/logger"
	"github.com/chandrakanthm/skyvern/internal/scraper"
)

// Test page templates
const (
	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="signup">
		<label for="email">Email</label>
		<input id="email" type="text" name="email" />
		<label for="country">Country</label>
		<select id="country" name="country">
			<option>Iceland</option>
			<option>Norway</option>
		</select>
		<input id="agree" type="checkbox" name="agree" />
		<button id="submit" type="submit">Sign up</button>
	</form>
</body>
</html>`

	TypingHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="typebox" type="text" />
	<div id="keycount">0</div>
	<script>
		let count = 0;
		document.getElementById('typebox').addEventListener('keydown', function() {
			count++;
			document.getElementById('keycount').textContent = String(count);
		});
	</script>
</body>
</html>`

	Select2HTML = `<!DOCTYPE html>
<html>
<body>
	<div class="select2-container">
		<a id="color" class="select2-choice" href="javascript:void(0)">
			<span class="select2-chosen">Red</span>
			<span class="select2-arrow"><b></b></span>
		</a>
	</div>
	<div id="select2-drop" class="select2-drop" tabindex="-1" style="display:none">
		<ul class="select2-results">
			<li role="option" class="select2-result">Red</li>
			<li role="option" class="select2-result">Green</li>
			<li role="option" class="select2-result">Blue</li>
		</ul>
	</div>
	<script>
		const anchor = document.getElementById('color');
		const drop = document.getElementById('select2-drop');
		anchor.addEventListener('click', function() {
			drop.style.display = 'block';
		});
		document.addEventListener('keydown', function(e) {
			if (e.key === 'Escape') drop.style.display = 'none';
		});
		drop.querySelectorAll('li').forEach(function(li) {
			li.addEventListener('click', function() {
				anchor.querySelector('.select2-chosen').textContent = li.textContent;
				drop.style.display = 'none';
			});
		});
	</script>
</body>
</html>`

	ComboboxHTML = `<!DOCTYPE html>
<html>
<body>
	<label for="fruit">Fruit</label>
	<input id="fruit" role="combobox" aria-haspopup="listbox" aria-expanded="false" />
	<ul id="fruit-listbox" role="listbox" style="display:none">
		<li role="option">Apple</li>
		<li role="option">Banana</li>
		<li role="option">Cherry</li>
	</ul>
	<script>
		const input = document.getElementById('fruit');
		const listbox = document.getElementById('fruit-listbox');
		input.addEventListener('click', function() {
			// injected on first interaction, the way framework widgets do
			input.setAttribute('aria-controls', 'fruit-listbox');
			input.setAttribute('aria-expanded', 'true');
			listbox.style.display = 'block';
		});
		input.addEventListener('blur', function() {
			listbox.style.display = 'none';
			input.setAttribute('aria-expanded', 'false');
		});
		listbox.querySelectorAll('li').forEach(function(li) {
			li.addEventListener('click', function() {
				input.setAttribute('value', li.textContent);
				listbox.style.display = 'none';
			});
		});
	</script>
</body>
</html>`

	IframeOuterHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Outer</h1>
	<iframe id="level1" src="/inner"></iframe>
</body>
</html>`

	IframeInnerHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="innerBtn">Inner Button</button>
	<div id="innerLog"></div>
	<script>
		document.getElementById('innerBtn').addEventListener('click', function() {
			document.getElementById('innerLog').textContent = 'clicked';
		});
	</script>
</body>
</html>`

	// the selectable control sits outside the wrapper subtree and is only
	// reachable through the label's for attribute
	LabelSearchHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="wrapper">
		<div id="row">
			<label id="sizeLabel" for="size">Size</label>
		</div>
	</div>
	<select id="size">
		<option>Small</option>
		<option>Large</option>
	</select>
</body>
</html>`
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func serveRoutes(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, html := range routes {
		body := html
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newBrowser(t *testing.T) *rod.Browser {
	t.Helper()
	l := launcher.New().Headless(true).Set("no-sandbox")
	controlURL, err := l.Launch()
	require.NoError(t, err)
	browser := rod.New().ControlURL(controlURL)
	require.NoError(t, browser.Connect())
	t.Cleanup(func() {
		_ = browser.Close()
		l.Cleanup()
	})
	return browser
}

func openPage(t *testing.T, browser *rod.Browser, url string) *rod.Page {
	t.Helper()
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	require.NoError(t, err)
	require.NoError(t, page.WaitLoad())
	t.Cleanup(func() { _ = page.Close() })
	return page
}

func scrapePage(t *testing.T, page *rod.Page) *entity.ScrapedPage {
	t.Helper()
	svc := scraper.NewService(scraper.DefaultConfig(), logger.NewNop())
	scrape, err := svc.Scrape(page)
	require.NoError(t, err)
	return scrape
}

// newDomUtil wires a resolved page and its scrape into a DomUtil with quiet
// logging.
func newDomUtil(scrape *entity.ScrapedPage, page *rod.Page) *DomUtil {
	return NewDomUtil(scrape, page, DefaultConfig(), logger.NewNop())
}

// idByHTMLID finds the stable id of the scraped element whose html id
// attribute matches.
func idByHTMLID(t *testing.T, scrape *entity.ScrapedPage, htmlID string) string {
	t.Helper()
	for id, meta := range scrape.IDToElement {
		if meta != nil && meta.Attributes["id"] == htmlID {
			return id
		}
	}
	t.Fatalf("no scraped element with id=%q", htmlID)
	return ""
}

// metaNode builds an index entry for tests that never touch a live page.
func metaNode(id, tag, frame string, interactable bool, attrs map[string]string, children ...*entity.ElementMetadata) *entity.ElementMetadata {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &entity.ElementMetadata{
		ID:           id,
		TagName:      tag,
		Attributes:   attrs,
		Children:     children,
		Interactable: interactable,
		FrameID:      frame,
	}
}

// buildIndex assembles a ScrapedPage from metadata roots, wiring the lookup
// maps the same way a real scrape does.
func buildIndex(roots ...*entity.ElementMetadata) *entity.ScrapedPage {
	scrape := &entity.ScrapedPage{
		Elements:    roots,
		IDToElement: make(map[string]*entity.ElementMetadata),
		IDToCSS:     make(map[string]string),
		IDToFrame:   make(map[string]string),
	}
	var walk func(*entity.ElementMetadata)
	walk = func(n *entity.ElementMetadata) {
		scrape.IDToElement[n.ID] = n
		scrape.IDToFrame[n.ID] = n.FrameID
		scrape.IDToCSS[n.ID] = fmt.Sprintf("[%s='%s']", entity.IdentityAttribute, n.ID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return scrape
}

// metaHandle builds a handle backed only by snapshot metadata, for code
// paths that never reach the live DOM.
func metaHandle(meta *entity.ElementMetadata) *ElementHandle {
	return newElementHandle(meta.ID, nil, nil, meta, DefaultConfig(), logger.NewNop())
}
