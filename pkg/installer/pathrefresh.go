package installer

import "strings"

// mergePathLists joins PATH-style lists in order, keeping the first
// occurrence of each entry. Entries compare case-insensitively and
// ignore a trailing backslash, as Windows resolves them.
func mergePathLists(sep string, lists ...string) string {
	seen := make(map[string]bool)
	merged := []string{}
	for _, list := range lists {
		for _, entry := range strings.Split(list, sep) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			key := strings.ToLower(strings.TrimRight(entry, `\`))
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, entry)
		}
	}
	return strings.Join(merged, sep)
}
