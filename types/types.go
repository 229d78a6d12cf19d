package types

// MangaTag describes one genre tag with a display title and a stable key.
type MangaTag struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// Manga describes a series as seen on listing and detail pages.
type Manga struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	AltTitles          []string       `json:"alt_titles,omitempty"`
	URL                string         `json:"url"`
	PublicURL          string         `json:"public_url"`
	CoverURL           string         `json:"cover_url,omitempty"`
	LargeCoverURL      string         `json:"large_cover_url,omitempty"`
	DescriptionHTML    string         `json:"description_html,omitempty"`
	Tags               []MangaTag     `json:"tags,omitempty"`
	State              string         `json:"state,omitempty"`
	Authors            []string       `json:"authors,omitempty"`
	OriginalLanguage   string         `json:"original_language,omitempty"`
	TranslatedLanguage string         `json:"translated_language,omitempty"`
	OriginalWorkStatus string         `json:"original_work_status,omitempty"`
	UploadStatus       string         `json:"upload_status,omitempty"`
	YearOfRelease      string         `json:"year_of_release,omitempty"`
	ChapterCount       int            `json:"chapter_count"`
	Chapters           []MangaChapter `json:"chapters,omitempty"`
}

// MangaChapter describes a single chapter entry. Number is the 1-based
// reading-order position, not the label printed in the chapter title.
type MangaChapter struct {
	ID           string  `json:"id"`
	Title        string  `json:"title,omitempty"`
	Number       float64 `json:"number"`
	URL          string  `json:"url"`
	Scanlator    string  `json:"scanlator,omitempty"`
	UploadDateMS int64   `json:"upload_date_ms"`
	PreviewURL   string  `json:"preview,omitempty"`
}

// MangaPage is a single resolved page image.
type MangaPage struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview,omitempty"`
}
