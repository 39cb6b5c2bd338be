package search

import (
	"strings"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// splitTagRefs flattens repeated and comma separated tag parameters and
// drops blanks.
func splitTagRefs(refs []string) []string {
	var out []string
	for _, ref := range refs {
		for _, part := range strings.Split(ref, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
