package catalog

import (
	"fmt"
	"strings"

	"github.com/batoget/batodl/bato/site"
)

// BrowseURL builds a listing URL for a page and sort order, validating both.
func BrowseURL(p *site.Profile, page int, order string) (string, error) {
	if err := site.ValidatePage(page); err != nil {
		return "", err
	}
	if err := p.ValidateSortOrder(order); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/browse?sort=%s&page=%d", p.BaseURL(), order, page), nil
}

// SearchURL builds a search URL for a query and page, validating both.
// Spaces in the query become plus signs, matching the site's own search form.
func SearchURL(p *site.Profile, query string, page int) (string, error) {
	query, err := site.ValidateQuery(query)
	if err != nil {
		return "", err
	}
	if err := site.ValidatePage(page); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/search?word=%s&page=%d", p.BaseURL(), strings.ReplaceAll(query, " ", "+"), page), nil
}
