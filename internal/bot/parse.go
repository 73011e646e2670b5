package bot

import "strings"

// ParseKeywords parses the optional /scan argument: a comma-separated
// keyword list. No argument means the configured keyword set.
func ParseKeywords(args string, defaults []string) []string {
	var keywords []string
	for _, s := range strings.Split(args, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			keywords = append(keywords, s)
		}
	}
	if len(keywords) == 0 {
		return defaults
	}
	return keywords
}
