package utils

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PickQueryKey inspects params against a fixed priority list of recognized
// key names and returns the first recognized key present with its value.
// Any key outside the recognized set makes the whole request invalid.
// An empty key with nil error means no parameters were supplied at all,
// in which case callers list the full collection.
func PickQueryKey(params url.Values, recognized ...string) (string, string, error) {
	known := make(map[string]bool, len(recognized))
	for _, k := range recognized {
		known[k] = true
	}

	var unknown []string
	for k := range params {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return "", "", fmt.Errorf("unrecognized query key(s): '%s'", strings.Join(unknown, "', '"))
	}

	for _, k := range recognized {
		if params.Has(k) {
			return k, params.Get(k), nil
		}
	}

	return "", "", nil
}
