package types

// LatestChapter returns the chapter with the highest reading-order number,
// or nil when the series has no chapters.
func (m *Manga) LatestChapter() *MangaChapter {
	if len(m.Chapters) == 0 {
		return nil
	}
	best := &m.Chapters[0]
	for i := range m.Chapters {
		if m.Chapters[i].Number > best.Number {
			best = &m.Chapters[i]
		}
	}
	return best
}

// FindChapter returns the chapter whose reading-order number equals number,
// or nil when no such chapter exists.
func (m *Manga) FindChapter(number float64) *MangaChapter {
	for i := range m.Chapters {
		if m.Chapters[i].Number == number {
			return &m.Chapters[i]
		}
	}
	return nil
}
