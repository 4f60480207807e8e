package upstream

import (
	"net/url"
	"strings"
)

// parseNextCursor extracts the page_info cursor from the rel="next" entry
// of a Link header. An empty result means the walk is complete.
//
// Header shape:
//
//	<https://shop.example.com/admin/api/2024-07/products.json?page_info=abc&limit=250>; rel="next"
func parseNextCursor(header string) string {
	if header == "" {
		return ""
	}

	for _, entry := range strings.Split(header, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		if !isNextRel(parts[1:]) {
			continue
		}

		target := strings.TrimSpace(parts[0])
		target = strings.TrimPrefix(target, "<")
		target = strings.TrimSuffix(target, ">")

		u, err := url.Parse(target)
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}

	return ""
}

func isNextRel(attrs []string) bool {
	for _, attr := range attrs {
		attr = strings.TrimSpace(attr)
		if attr == `rel="next"` || attr == "rel=next" {
			return true
		}
	}
	return false
}
