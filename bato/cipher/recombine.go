package cipher

import (
	"encoding/json"
	"fmt"

	"github.com/batoget/batodl/errs"
)

// ParseFragments decodes the decrypted plaintext into the per-page query
// fragment list. Anything other than a JSON string array means the
// decryption produced garbage, which is a cipher failure rather than a
// recombination one.
func ParseFragments(plaintext string) ([]string, error) {
	var fragments []string
	if err := json.Unmarshal([]byte(plaintext), &fragments); err != nil {
		return nil, fmt.Errorf("%w: plaintext is not a JSON string array: %v", errs.ErrCipherFailed, err)
	}
	return fragments, nil
}

// Recombine zips base URLs with query fragments positionally. An empty
// fragment list means the base URLs are already final; an empty fragment at
// index i leaves base URL i untouched. Output order equals base URL order.
func Recombine(baseURLs, fragments []string) ([]string, error) {
	if len(fragments) != 0 && len(fragments) != len(baseURLs) {
		return nil, fmt.Errorf("%w: %d fragments for %d base urls", errs.ErrLengthMismatch, len(fragments), len(baseURLs))
	}
	urls := make([]string, len(baseURLs))
	for i, base := range baseURLs {
		if len(fragments) == 0 || fragments[i] == "" {
			urls[i] = base
			continue
		}
		urls[i] = base + "?" + fragments[i]
	}
	return urls, nil
}
