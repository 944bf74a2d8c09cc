package parser

import (
	"reflect"
	"strings"
	"testing"

	"CategoryScanner/internal/domain"
)

func TestExtractLinksFiltersAndDeduplicates(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <a href="/wiki/A">A</a>
	  <a href="/wiki/A">A again</a>
	  <a href="/wiki/B:ns">namespaced</a>
	  <a href="/other/C">elsewhere</a>
	  <a href="">empty</a>
	  <a>no href</a>
	</body></html>`

	sc := NewWikiScanner(WikiOptions{}, nil)
	links, err := sc.ExtractLinks([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLinks error: %v", err)
	}

	want := domain.NewLinkSet("/wiki/A")
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("unexpected links: %v", links.Sorted())
	}
}

func TestExtractLinksInvariants(t *testing.T) {
	t.Parallel()

	html := `
	<a href="/wiki/Go">1</a><a href="/wiki/Talk:Go">2</a><a href="https://x.org/wiki/Go">3</a>
	<a href="/wiki/Rust">4</a><a href="/wiki/Go">5</a><a href="/wiki/File:Logo.png">6</a>
	<p><a href="/wiki/Zig">7</a></p>`

	links, err := NewWikiScanner(WikiOptions{}, nil).ExtractLinks([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLinks error: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %v", links.Sorted())
	}
	for link := range links {
		if !strings.HasPrefix(string(link), "/wiki/") || strings.Contains(string(link), ":") {
			t.Fatalf("link %q violates article filter", link)
		}
	}
}

func TestExtractLinksRespectsLimit(t *testing.T) {
	t.Parallel()

	html := `<a href="/wiki/A">A</a><a href="/wiki/B">B</a><a href="/wiki/C">C</a>`

	links, err := NewWikiScanner(WikiOptions{LinkLimit: 2}, nil).ExtractLinks([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLinks error: %v", err)
	}

	want := domain.NewLinkSet("/wiki/A", "/wiki/B")
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("unexpected links: %v", links.Sorted())
	}
}

func TestExtractLinksLimitCountsAnchorsWithoutHref(t *testing.T) {
	t.Parallel()

	html := `<a name="top"></a><a href="/wiki/A">A</a><a href="/wiki/B">B</a>`

	links, err := NewWikiScanner(WikiOptions{LinkLimit: 2}, nil).ExtractLinks([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLinks error: %v", err)
	}

	if !reflect.DeepEqual(links, domain.NewLinkSet("/wiki/A")) {
		t.Fatalf("unexpected links: %v", links.Sorted())
	}
}

func TestExtractLinksCustomPrefix(t *testing.T) {
	t.Parallel()

	html := `<a href="/docs/a">a</a><a href="/docs/b|x">b</a><a href="/wiki/c">c</a>`

	sc := NewWikiScanner(WikiOptions{ArticlePrefix: "/docs/", NamespaceSeparator: "|"}, nil)
	links, err := sc.ExtractLinks([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLinks error: %v", err)
	}

	if !reflect.DeepEqual(links, domain.NewLinkSet("/docs/a")) {
		t.Fatalf("unexpected links: %v", links.Sorted())
	}
}

func TestExtractLabels(t *testing.T) {
	t.Parallel()

	html := `
	<div id="catlinks">
	  <div id="mw-normal-catlinks" class="mw-normal-catlinks">
	    <a href="/wiki/Help:Category">Categories</a>:
	    <ul>
	      <li><a href="/wiki/Category:Cats">Cats</a></li>
	      <li><a href="/wiki/Category:Dogs"> Dogs </a></li>
	    </ul>
	  </div>
	  <div id="mw-hidden-catlinks" class="mw-hidden-catlinks"><ul><li><a>Hidden</a></li></ul></div>
	</div>`

	labels, err := NewWikiScanner(WikiOptions{}, nil).ExtractLabels([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLabels error: %v", err)
	}

	if !reflect.DeepEqual(labels, []string{"Categories", "Cats", "Dogs"}) {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestExtractLabelsCustomSelector(t *testing.T) {
	t.Parallel()

	html := `<div class="mw-normal-catlinks"><a>Categories</a>: <ul><li>Cats</li></ul></div>`

	sc := NewWikiScanner(WikiOptions{CategorySelector: ".mw-normal-catlinks li"}, nil)
	labels, err := sc.ExtractLabels([]byte(html))
	if err != nil {
		t.Fatalf("ExtractLabels error: %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"Cats"}) {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestExtractLabelsMissingRegion(t *testing.T) {
	t.Parallel()

	labels, err := NewWikiScanner(WikiOptions{}, nil).ExtractLabels([]byte(`<html><body><p>stub</p></body></html>`))
	if err != nil {
		t.Fatalf("ExtractLabels error: %v", err)
	}
	if len(labels) != 0 {
		t.Fatalf("expected no labels, got %v", labels)
	}
}
