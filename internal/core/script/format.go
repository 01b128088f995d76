// Package script shapes generated short-form video scripts: prompt
// construction, cleanup of model output and Hook/Body/CTA sectioning.
package script

import (
	"regexp"
	"strings"
)

// Section is one labelled block of a cleaned script
type Section struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

var (
	reBoldHeading  = regexp.MustCompile(`(?i)\*\*(hook|body|cta):\*\*`)
	reLineHook     = regexp.MustCompile(`(?im)^\s*(?:hok|hook)\s*:`)
	reLineBody     = regexp.MustCompile(`(?im)^\s*body\s*:`)
	reLineCTA      = regexp.MustCompile(`(?im)^\s*cta\s*:`)
	reHook         = regexp.MustCompile(`(?i)\s*Hook:`)
	reBody         = regexp.MustCompile(`(?i)\s*Body:`)
	reCTA          = regexp.MustCompile(`(?i)\s*CTA:`)
	reBlankRuns    = regexp.MustCompile(`\n{3,}`)
	reTrailingJunk = regexp.MustCompile(`(?i)(?:\s*\bundefined\b\s*)+$`)
)

// Clean normalises raw model output into markdown with bold Hook/Body/CTA
// headings. It is idempotent.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reBoldHeading.ReplaceAllString(s, "$1:")
	s = reLineHook.ReplaceAllString(s, "Hook:")
	s = reLineBody.ReplaceAllString(s, "Body:")
	s = reLineCTA.ReplaceAllString(s, "CTA:")
	s = reHook.ReplaceAllString(s, "\n\n**Hook:**")
	s = reBody.ReplaceAllString(s, "\n\n**Body:**")
	s = reCTA.ReplaceAllString(s, "\n\n**CTA:**")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	s = reTrailingJunk.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

// Sections splits a cleaned script at its bold headings. Returns nil when
// the text has none.
func Sections(md string) []Section {
	locs := reBoldHeading.FindAllStringSubmatchIndex(md, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]Section, 0, len(locs))
	for i, loc := range locs {
		end := len(md)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out = append(out, Section{
			Key:     canonicalKey(md[loc[2]:loc[3]]),
			Content: strings.TrimSpace(md[loc[1]:end]),
		})
	}
	return out
}

func canonicalKey(k string) string {
	switch strings.ToLower(k) {
	case "hook":
		return "Hook"
	case "body":
		return "Body"
	default:
		return "CTA"
	}
}
