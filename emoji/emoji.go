package emoji

import (
	"strings"

	"github.com/kyokomi/emoji/v2"
)

var codeMap = emoji.CodeMap()

// Expand replaces known :shortcodes: with their emoji and leaves unknown
// ones untouched.
func Expand(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}

	var b strings.Builder
	for {
		start := strings.IndexByte(s, ':')
		if start == -1 {
			break
		}
		end := strings.IndexByte(s[start+1:], ':')
		if end == -1 {
			break
		}
		end += start + 1

		code := s[start : end+1]
		if e, ok := codeMap[code]; ok {
			b.WriteString(s[:start])
			b.WriteString(strings.TrimSpace(e))
			s = s[end+1:]
			continue
		}

		b.WriteString(s[:end])
		s = s[end:]
	}
	b.WriteString(s)
	return b.String()
}
