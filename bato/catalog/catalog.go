// Package catalog parses listing, series and chapter markup into typed
// structs. It is pure parsing: the markup arrives as a string from the
// retrieval client (or any other source) and no network calls happen here.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/batoget/batodl/bato/site"
	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/internal/uid"
	"github.com/batoget/batodl/types"
)

var groupHrefRe = regexp.MustCompile(`/group/`)

// ParseList parses a browse or search results page into series entries. A
// page that explicitly reports no matches yields an empty slice, not an
// error; a page without the series list container is a format change and
// fails.
func ParseList(pageHTML string, p *site.Profile) ([]types.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: parse listing page: %v", errs.ErrExtractionFailed, err)
	}
	if doc.Find(".browse-no-matches").Length() > 0 {
		return []types.Manga{}, nil
	}
	root := doc.Find("#series-list").First()
	if root.Length() == 0 {
		return nil, fmt.Errorf("%w: #series-list container not found", errs.ErrExtractionFailed)
	}

	var result []types.Manga
	root.Children().Each(func(_ int, div *goquery.Selection) {
		titleLink := div.Find(".item-title").First()
		href, _ := titleLink.Attr("href")
		if href == "" {
			return
		}

		m := types.Manga{
			ID:        uid.FromString(href),
			Title:     strings.TrimSpace(titleLink.Text()),
			URL:       href,
			PublicURL: p.AbsURL(href),
		}

		if cover, ok := div.Find(".item-cover img").First().Attr("src"); ok && cover != "" {
			m.CoverURL = p.AbsURL(cover)
		}

		if alias := div.Find(".item-alias span.text-muted").First(); alias.Length() > 0 {
			for _, alt := range strings.Split(alias.Text(), "/") {
				if alt = strings.TrimSpace(alt); alt != "" {
					m.AltTitles = append(m.AltTitles, alt)
				}
			}
		}

		div.Find(".item-genre span").Each(func(_ int, span *goquery.Selection) {
			text := strings.TrimSpace(span.Text())
			if text == "" {
				return
			}
			m.Tags = append(m.Tags, newTag(text))
		})

		// Listing rows carry the latest chapter as their only chapter entry.
		if volch := div.Find(".item-volch").First(); volch.Length() > 0 {
			chapt := volch.Find("a.visited").First()
			if chURL, ok := chapt.Attr("href"); ok && chURL != "" {
				ch := types.MangaChapter{
					ID:         uid.FromString(chURL),
					Title:      strings.TrimSpace(chapt.Text()),
					Number:     chapterNumberFromTitle(strings.TrimSpace(chapt.Text())),
					URL:        chURL,
					PreviewURL: p.AbsURL(chURL),
					Scanlator:  strings.TrimSpace(volch.Find(`a[href*="/user/"]`).First().Text()),
				}
				m.Chapters = []types.MangaChapter{ch}
			}
		}

		result = append(result, m)
	})
	return result, nil
}

// ParseDetails parses a series page and returns a copy of manga with the
// detail fields and the chapter list filled in. Chapters are reversed from
// document order so index 0 is the first chapter to read.
func ParseDetails(pageHTML string, manga types.Manga, p *site.Profile, now time.Time) (types.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return manga, fmt.Errorf("%w: parse series page: %v", errs.ErrExtractionFailed, err)
	}
	mainer := doc.Find("#mainer").First()
	if mainer.Length() == 0 {
		return manga, fmt.Errorf("%w: #mainer container not found", errs.ErrExtractionFailed)
	}

	if title := strings.TrimSpace(doc.Find("h3.item-title").First().Text()); title != "" {
		manga.Title = title
	}

	if alias := doc.Find(".alias-set").First(); alias.Length() > 0 {
		seen := make(map[string]bool, len(manga.AltTitles))
		for _, alt := range manga.AltTitles {
			seen[alt] = true
		}
		for _, alt := range strings.Split(alias.Text(), "/") {
			if alt = strings.TrimSpace(alt); alt != "" && !seen[alt] {
				manga.AltTitles = append(manga.AltTitles, alt)
				seen[alt] = true
			}
		}
	}

	details := mainer.Find(".detail-set").First()
	if cover, ok := details.Find("img[src]").First().Attr("src"); ok && cover != "" {
		manga.LargeCoverURL = p.AbsURL(cover)
	}
	if desc := details.Find("#limit-height-body-summary .limit-html").First(); desc.Length() > 0 {
		if html, err := desc.Html(); err == nil {
			manga.DescriptionHTML = strings.TrimSpace(html)
		}
	}

	attrs := attributeRows(details)
	if authors, ok := attrs["Authors:"]; ok {
		for _, a := range splitValues(authors.Text()) {
			manga.Authors = append(manga.Authors, a)
		}
	}
	if genres, ok := attrs["Genres:"]; ok {
		seen := make(map[string]bool, len(manga.Tags))
		for _, tag := range manga.Tags {
			seen[tag.Key] = true
		}
		genres.Find("span").Each(func(_ int, span *goquery.Selection) {
			text := strings.TrimSpace(span.Text())
			if text == "" {
				return
			}
			tag := newTag(text)
			if !seen[tag.Key] {
				manga.Tags = append(manga.Tags, tag)
				seen[tag.Key] = true
			}
		})
	}
	manga.OriginalLanguage = attrText(attrs, "Original language:")
	manga.TranslatedLanguage = attrText(attrs, "Translated language:")
	manga.OriginalWorkStatus = attrText(attrs, "Original work:")
	manga.UploadStatus = attrText(attrs, "Upload status:")
	manga.YearOfRelease = attrText(attrs, "Year of Release:")

	episodes := doc.Find(".episode-list .main").First()
	if episodes.Length() > 0 {
		rows := episodes.Children()
		chapters := make([]types.MangaChapter, 0, rows.Length())
		// Reading order is the reverse of document order: the newest chapter
		// sits on top of the page.
		for i := rows.Length() - 1; i >= 0; i-- {
			if ch, ok := parseChapter(rows.Eq(i), len(chapters), p, now); ok {
				chapters = append(chapters, ch)
			}
		}
		manga.Chapters = chapters
	}
	manga.ChapterCount = len(manga.Chapters)
	return manga, nil
}

// attributeRows maps attribute labels like "Authors:" to the value node of
// each .attr-item row.
func attributeRows(details *goquery.Selection) map[string]*goquery.Selection {
	attrs := make(map[string]*goquery.Selection)
	details.Find(".attr-main .attr-item").Each(func(_ int, item *goquery.Selection) {
		children := item.Children()
		if children.Length() < 2 {
			return
		}
		key := strings.TrimSpace(children.Eq(0).Text())
		if key != "" {
			attrs[key] = children.Eq(1)
		}
	})
	return attrs
}

func attrText(attrs map[string]*goquery.Selection, key string) string {
	if sel, ok := attrs[key]; ok {
		return strings.TrimSpace(sel.Text())
	}
	return ""
}

func parseChapter(div *goquery.Selection, index int, p *site.Profile, now time.Time) (types.MangaChapter, bool) {
	link := div.Find("a.chapt").First()
	href, _ := link.Attr("href")
	if href == "" {
		return types.MangaChapter{}, false
	}

	ch := types.MangaChapter{
		ID:         uid.FromString(href),
		Title:      strings.TrimSpace(link.Text()),
		Number:     float64(index + 1),
		URL:        href,
		PreviewURL: p.AbsURL(href),
	}

	if extra := div.Find(".extra").First(); extra.Length() > 0 {
		extra.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if href, ok := a.Attr("href"); ok && groupHrefRe.MatchString(href) {
				ch.Scanlator = strings.TrimSpace(a.Text())
				return false
			}
			return true
		})
		if dates := extra.Find("i"); dates.Length() > 0 {
			ch.UploadDateMS = ParseRelativeDate(strings.TrimSpace(dates.Last().Text()), now)
		}
	}
	return ch, true
}

// newTag builds a tag with a display-cased title and a lower_snake key.
func newTag(text string) types.MangaTag {
	return types.MangaTag{
		Title: titleCase(text),
		Key:   strings.ReplaceAll(strings.ToLower(text), " ", "_"),
	}
}

// titleCase upper-cases the first letter of every space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// splitValues splits a comma or slash separated attribute value.
func splitValues(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// chapterNumberFromTitle pulls the first number out of a chapter title, e.g.
// "Chapter 42" -> 42. Titles without a number map to 0.
func chapterNumberFromTitle(title string) float64 {
	start := -1
	for i, r := range title {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	end := start
	for end < len(title) && title[end] >= '0' && title[end] <= '9' {
		end++
	}
	var n float64
	for _, c := range title[start:end] {
		n = n*10 + float64(c-'0')
	}
	return n
}
