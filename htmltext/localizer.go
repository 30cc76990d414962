// Package htmltext localizes the visible text of HTML documents through a
// translation coordinator.
package htmltext

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/lingoq"
	"golang.org/x/net/html"
)

// DefaultIgnoredTags contains tags whose content is never translated.
var DefaultIgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// NoTranslateAttr excludes an element and its subtree from translation.
const NoTranslateAttr = "data-no-translate"

var documentPattern = regexp.MustCompile(`(?i)<html[\s>]|<!doctype`)

// Translator translates an ordered batch of strings. *lingoq.Coordinator
// satisfies it.
type Translator interface {
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Localizer rewrites the text nodes of an HTML document in a target language.
type Localizer struct {
	translator  Translator
	sourceLang  string
	ignoredTags map[string]bool
}

// Option configures a Localizer.
type Option func(*Localizer)

// WithSourceLang sets the language documents are authored in.
func WithSourceLang(lang string) Option {
	return func(l *Localizer) {
		l.sourceLang = lang
	}
}

// WithIgnoredTags replaces the default set of skipped tags.
func WithIgnoredTags(tags []string) Option {
	return func(l *Localizer) {
		ignored := make(map[string]bool, len(tags))
		for _, tag := range tags {
			ignored[strings.ToLower(tag)] = true
		}
		l.ignoredTags = ignored
	}
}

// NewLocalizer creates a Localizer that sends text through t.
func NewLocalizer(t Translator, opts ...Option) *Localizer {
	l := &Localizer{
		translator:  t,
		sourceLang:  lingoq.DefaultSourceLang,
		ignoredTags: DefaultIgnoredTags,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Localize translates content into targetLang. Full documents come back as
// documents with lang and dir set on <html>; fragments come back as fragments.
// Content in the source language is returned unchanged.
func (l *Localizer) Localize(ctx context.Context, content, targetLang string) (string, error) {
	if lingoq.SameLanguage(targetLang, l.sourceLang) {
		return content, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	nodes, texts := l.collect(doc)
	if len(texts) > 0 {
		translated, err := l.translator.Translate(ctx, texts, targetLang)
		if err != nil {
			return "", err
		}
		if len(translated) != len(texts) {
			return "", &lingoq.CountMismatchError{Expected: len(texts), Got: len(translated)}
		}

		byText := make(map[string]string, len(texts))
		for i, text := range texts {
			byText[text] = translated[i]
		}
		for _, n := range nodes {
			if t, ok := byText[strings.TrimSpace(n.Data)]; ok {
				n.Data = preserveWhitespace(n.Data, t)
			}
		}
	}

	if !documentPattern.MatchString(content) {
		out, err := doc.Find("body").Html()
		if err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		return out, nil
	}

	doc.Find("html").
		SetAttr("lang", lingoq.ToHTMLLang(targetLang)).
		SetAttr("dir", lingoq.GetDirection(targetLang))

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// Extract returns the distinct translatable strings of content in document order.
func (l *Localizer) Extract(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	_, texts := l.collect(doc)
	return texts, nil
}

// collect walks the document and returns every translatable text node plus
// the distinct trimmed strings among them.
func (l *Localizer) collect(doc *goquery.Document) ([]*html.Node, []string) {
	var nodes []*html.Node
	var texts []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && l.skip(n) {
			return
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				nodes = append(nodes, n)
				if !seen[trimmed] {
					seen[trimmed] = true
					texts = append(texts, trimmed)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}
	return nodes, texts
}

func (l *Localizer) skip(n *html.Node) bool {
	if l.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == NoTranslateAttr {
			return true
		}
	}
	return false
}

// preserveWhitespace keeps the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	trimmedLeft := strings.TrimLeft(original, " \t\n\r")
	leading := original[:len(original)-len(trimmedLeft)]
	trailing := trimmedLeft[len(strings.TrimRight(trimmedLeft, " \t\n\r")):]

	return leading + translated + trailing
}
