package scraper

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/paddocknews/f1news/internal/story"
)

// Selectors for the BBC Sport promo markup
const (
	containerSelector = `div[data-testid="promo"]`
	summarySelector   = `p.ssrcss-1q0x1qg-Paragraph`
	metadataSelector  = `span[class="ssrcss-61mhsj-MetadataText e4wm5bw1"]`
	hiddenSelector    = `span.visually-hidden`
)

// Extractor turns listing markup into stories
type Extractor struct {
	origin string
}

// NewExtractor creates an Extractor that resolves root-relative links against origin
func NewExtractor(origin string) *Extractor {
	return &Extractor{origin: strings.TrimRight(origin, "/")}
}

// Extract parses the document and collects all stories in page order
func (e *Extractor) Extract(r io.Reader) ([]story.Story, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	stories := make([]story.Story, 0)
	for s := range e.Stories(doc) {
		stories = append(stories, s)
	}
	return stories, nil
}

// Stories yields one story per promo container, lazily and in document order
func (e *Extractor) Stories(doc *goquery.Document) iter.Seq[story.Story] {
	return func(yield func(story.Story) bool) {
		doc.Find(containerSelector).EachWithBreak(func(_ int, box *goquery.Selection) bool {
			return yield(e.extractStory(box))
		})
	}
}

// extractStory builds a story from a single promo container
func (e *Extractor) extractStory(box *goquery.Selection) story.Story {
	title := story.Untitled
	link := ""

	if a := box.Find("a").First(); a.Length() > 0 {
		title = strippedText(a)
		link = e.resolveLink(a.AttrOr("href", ""))
	}

	text, found := "", false
	if p := box.Find(summarySelector).First(); p.Length() > 0 {
		text, found = strippedText(p), true
	}

	postTime, category := story.ClassifyMetadata(metadataFragments(box))

	return story.Story{
		PostTime: postTime,
		Category: category,
		Title:    title,
		Summary:  story.Summarize(text, found, title),
		Link:     link,
	}
}

// resolveLink makes root-relative links absolute
func (e *Extractor) resolveLink(href string) string {
	if strings.HasPrefix(href, "/") {
		return e.origin + href
	}
	return href
}

// metadataFragments collects the metadata spans of a container
func metadataFragments(box *goquery.Selection) []story.Fragment {
	spans := box.Find(metadataSelector)
	fragments := make([]story.Fragment, 0, spans.Length())

	spans.Each(func(_ int, span *goquery.Selection) {
		frag := story.Fragment{Text: strippedText(span)}
		if hidden := span.Find(hiddenSelector).First(); hidden.Length() > 0 {
			frag.Hidden = strippedText(hidden)
			frag.HasHidden = true
		}
		fragments = append(fragments, frag)
	})

	return fragments
}

// strippedText trims every text node under the selection, drops the empty
// ones and concatenates the rest. Adjacent renderings of the same value are
// therefore glued together ("16 February" + "16 Feb").
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeStrippedText(&b, n)
	}
	return b.String()
}

func writeStrippedText(b *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(strings.TrimSpace(n.Data))
		return
	case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeStrippedText(b, c)
	}
}
