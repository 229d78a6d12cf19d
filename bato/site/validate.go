package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/batoget/batodl/errs"
)

const (
	// MinPage is the lowest valid listing page number.
	MinPage = 1
	// MaxPage is the highest accepted listing page number.
	MaxPage = 10000
	// MaxQueryLength caps search query length.
	MaxQueryLength = 200
)

// ValidatePage checks a listing page number.
func ValidatePage(page int) error {
	if page < MinPage {
		return fmt.Errorf("%w: page number must be at least %d, got %d", errs.ErrInvalidInput, MinPage, page)
	}
	if page > MaxPage {
		return fmt.Errorf("%w: page number cannot exceed %d, got %d", errs.ErrInvalidInput, MaxPage, page)
	}
	return nil
}

// ValidateSortOrder checks that order is one of the profile's sort orders.
func (p *Profile) ValidateSortOrder(order string) error {
	if order == "" {
		return fmt.Errorf("%w: sort order cannot be empty", errs.ErrInvalidInput)
	}
	for _, known := range p.SortOrders {
		if order == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown sort order %q, valid: %s", errs.ErrInvalidInput, order, strings.Join(p.SortOrders, ", "))
}

// ValidateQuery trims and checks a search query.
func ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: search query cannot be empty", errs.ErrInvalidInput)
	}
	if len(query) > MaxQueryLength {
		return "", fmt.Errorf("%w: search query is %d characters, maximum is %d", errs.ErrInvalidInput, len(query), MaxQueryLength)
	}
	return query, nil
}

// ValidateURL checks that raw is an http(s) URL on the profile's domain or
// one of its mirrors. A leading "www." on the host is ignored.
func (p *Profile) ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: url cannot be empty", errs.ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: malformed url %q: %v", errs.ErrInvalidInput, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q, only http and https are allowed", errs.ErrInvalidInput, u.Scheme)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host == "" {
		return fmt.Errorf("%w: url %q has no host", errs.ErrInvalidInput, raw)
	}
	for _, domain := range p.Domains() {
		if host == strings.ToLower(domain) {
			return nil
		}
	}
	return fmt.Errorf("%w: domain %q not allowed, valid: %s", errs.ErrInvalidInput, host, strings.Join(p.Domains(), ", "))
}

// ValidateSeriesURL checks a series URL: allowed domain plus a /series/ or
// /title/ path segment.
func (p *Profile) ValidateSeriesURL(raw string) error {
	if err := p.ValidateURL(raw); err != nil {
		return err
	}
	lower := strings.ToLower(raw)
	if !strings.Contains(lower, "/series/") && !strings.Contains(lower, "/title/") {
		return fmt.Errorf("%w: %q is not a series url (expected /series/ or /title/ in the path)", errs.ErrInvalidInput, raw)
	}
	return nil
}

// ValidateChapterURL checks a chapter URL: allowed domain plus a /chapter/
// path segment.
func (p *Profile) ValidateChapterURL(raw string) error {
	if err := p.ValidateURL(raw); err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(raw), "/chapter/") {
		return fmt.Errorf("%w: %q is not a chapter url (expected /chapter/ in the path)", errs.ErrInvalidInput, raw)
	}
	return nil
}
