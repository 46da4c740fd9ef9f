// Package scraper provides HTTP fetching and HTML parsing for the BBC Sport
// Formula 1 listing page.
//
// The scraper package fetches the listing page with a fixed user agent and
// extracts one story per promo container: title and link from the first
// hyperlink, summary from the styled paragraph, and post time and category from
// the container's metadata spans.
package scraper
