package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/paddocknews/f1news/internal/story"
)

const origin = "https://www.bbc.com"

func TestExtract_EdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantCount  int
		checkStory func(*testing.T, story.Story)
	}{
		{
			name: "full promo",
			html: `<div data-testid="promo">
				<a href="/sport/formula1/articles/c1"><span> Verstappen </span><span>wins</span></a>
				<p class="ssrcss-1q0x1qg-Paragraph"> Red Bull driver takes victory. </p>
				<span class="ssrcss-61mhsj-MetadataText e4wm5bw1">16 February<span class="visually-hidden">16 February 2026</span></span>
				<span class="ssrcss-61mhsj-MetadataText e4wm5bw1">Formula 1</span>
				<span class="ssrcss-61mhsj-MetadataText e4wm5bw1">42</span>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Title != "Verstappenwins" {
					t.Errorf("Title = %q, want %q", s.Title, "Verstappenwins")
				}
				if s.Link != "https://www.bbc.com/sport/formula1/articles/c1" {
					t.Errorf("Link = %q", s.Link)
				}
				if s.Summary != "Red Bull driver takes victory." {
					t.Errorf("Summary = %q", s.Summary)
				}
				if s.PostTime != "16 February 2026" {
					t.Errorf("PostTime = %q", s.PostTime)
				}
				if s.Category != "Formula 1" {
					t.Errorf("Category = %q", s.Category)
				}
			},
		},
		{
			name:      "no hyperlink",
			html:      `<div data-testid="promo"><p class="ssrcss-1q0x1qg-Paragraph">Live text</p></div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Title != story.Untitled {
					t.Errorf("Title = %q, want untitled sentinel", s.Title)
				}
				if s.Link != "" {
					t.Errorf("Link = %q, want empty", s.Link)
				}
			},
		},
		{
			name:      "absolute link kept",
			html:      `<div data-testid="promo"><a href="https://www.formula1.com/news">External</a></div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Link != "https://www.formula1.com/news" {
					t.Errorf("Link = %q", s.Link)
				}
			},
		},
		{
			name:      "hyperlink without href",
			html:      `<div data-testid="promo"><a>Audio</a></div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Title != "Audio" || s.Link != "" {
					t.Errorf("got title %q link %q", s.Title, s.Link)
				}
			},
		},
		{
			name: "summary equal to title",
			html: `<div data-testid="promo">
				<a href="/a">Same text</a>
				<p class="ssrcss-1q0x1qg-Paragraph">Same text</p>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Summary != story.DetailsPlaceholder {
					t.Errorf("Summary = %q, want placeholder", s.Summary)
				}
			},
		},
		{
			name: "blank summary paragraph kept empty",
			html: `<div data-testid="promo">
				<a href="/a">Title</a>
				<p class="ssrcss-1q0x1qg-Paragraph">  </p>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Summary != "" {
					t.Errorf("Summary = %q, want empty", s.Summary)
				}
			},
		},
		{
			name: "unstyled paragraph ignored",
			html: `<div data-testid="promo">
				<a href="/a">Title</a>
				<p>Caption</p>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Summary != story.DetailsPlaceholder {
					t.Errorf("Summary = %q, want placeholder", s.Summary)
				}
			},
		},
		{
			name: "duplicated date without hidden span",
			html: `<div data-testid="promo">
				<a href="/a">Title</a>
				<span class="ssrcss-61mhsj-MetadataText e4wm5bw1"><span>16 February</span><span>16 Feb</span></span>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.PostTime != "16 Febru" {
					t.Errorf("PostTime = %q, want %q", s.PostTime, "16 Febru")
				}
				if s.Category != story.DefaultCategory {
					t.Errorf("Category = %q", s.Category)
				}
			},
		},
		{
			name: "metadata span with extra class ignored",
			html: `<div data-testid="promo">
				<a href="/a">Title</a>
				<span class="ssrcss-61mhsj-MetadataText e4wm5bw1 other">BBC</span>
			</div>`,
			wantCount: 1,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Category != story.DefaultCategory {
					t.Errorf("Category = %q, want default", s.Category)
				}
			},
		},
		{
			name: "multiple promos in order",
			html: `
				<div data-testid="promo"><a href="/1">First</a></div>
				<div data-testid="other"><a href="/x">Not a promo</a></div>
				<div data-testid="promo"><a href="/2">Second</a></div>
			`,
			wantCount: 2,
			checkStory: func(t *testing.T, s story.Story) {
				if s.Title != "First" {
					t.Errorf("first story = %q", s.Title)
				}
			},
		},
		{
			name:      "no promos",
			html:      `<html><body><div>Nothing</div></body></html>`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(origin)
			stories, err := e.Extract(strings.NewReader(tt.html))

			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if len(stories) != tt.wantCount {
				t.Fatalf("Extract() returned %d stories, want %d", len(stories), tt.wantCount)
			}
			if tt.checkStory != nil && len(stories) > 0 {
				tt.checkStory(t, stories[0])
			}
		})
	}
}

func TestStories_Lazy(t *testing.T) {
	html := `
		<div data-testid="promo"><a href="/1">One</a></div>
		<div data-testid="promo"><a href="/2">Two</a></div>
		<div data-testid="promo"><a href="/3">Three</a></div>
	`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	var titles []string
	for s := range NewExtractor(origin).Stories(doc) {
		titles = append(titles, s.Title)
		if len(titles) == 2 {
			break
		}
	}

	if len(titles) != 2 || titles[0] != "One" || titles[1] != "Two" {
		t.Errorf("titles = %v, want [One Two]", titles)
	}
}

func TestNewExtractor_TrailingSlash(t *testing.T) {
	e := NewExtractor("https://www.bbc.com/")
	if got := e.resolveLink("/sport"); got != "https://www.bbc.com/sport" {
		t.Errorf("resolveLink() = %q", got)
	}
}
