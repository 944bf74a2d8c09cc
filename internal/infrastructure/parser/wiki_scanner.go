package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/scanner"
)

const (
	defaultArticlePrefix      = "/wiki/"
	defaultNamespaceSeparator = ":"
	defaultCategorySelector   = ".mw-normal-catlinks a"
)

// WikiOptions tunes link discovery and label extraction.
type WikiOptions struct {
	ArticlePrefix      string
	NamespaceSeparator string
	CategorySelector   string
	// LinkLimit truncates the anchors considered on the seed page; 0 keeps all.
	LinkLimit int
}

// WikiScanner extracts article links and category labels from MediaWiki markup.
type WikiScanner struct {
	opts   WikiOptions
	logger *slog.Logger
}

var _ scanner.Scanner = (*WikiScanner)(nil)

// NewWikiScanner fills empty options with MediaWiki defaults.
func NewWikiScanner(opts WikiOptions, logger *slog.Logger) *WikiScanner {
	if opts.ArticlePrefix == "" {
		opts.ArticlePrefix = defaultArticlePrefix
	}
	if opts.NamespaceSeparator == "" {
		opts.NamespaceSeparator = defaultNamespaceSeparator
	}
	if opts.CategorySelector == "" {
		opts.CategorySelector = defaultCategorySelector
	}
	if opts.LinkLimit < 0 {
		opts.LinkLimit = 0
	}
	return &WikiScanner{opts: opts, logger: logger}
}

// Name identifies the strategy inside the registry.
func (w *WikiScanner) Name() string {
	return "wiki"
}

// ExtractLinks collects href targets of the anchors (the first LinkLimit of
// them when set, href or not), keeps same-namespace article paths and
// deduplicates them.
func (w *WikiScanner) ExtractLinks(markup []byte) (domain.LinkSet, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	anchors := doc.Find("a")
	if w.opts.LinkLimit > 0 && anchors.Length() > w.opts.LinkLimit {
		anchors = anchors.Slice(0, w.opts.LinkLimit)
	}

	links := domain.NewLinkSet()
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !w.isArticle(href) {
			return
		}
		if links.Add(domain.Link(href)) {
			w.debug("link accepted", "href", href)
		}
	})

	return links, nil
}

// ExtractLabels returns the text of every link in the category region,
// including its "Categories" heading link. A page without the region yields
// no labels.
func (w *WikiScanner) ExtractLabels(markup []byte) ([]string, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	var labels []string
	doc.Find(w.opts.CategorySelector).Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(s.Text()))
	})

	return labels, nil
}

func (w *WikiScanner) isArticle(href string) bool {
	return href != "" &&
		strings.HasPrefix(href, w.opts.ArticlePrefix) &&
		!strings.Contains(href, w.opts.NamespaceSeparator)
}

func parseDocument(markup []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (w *WikiScanner) debug(msg string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
