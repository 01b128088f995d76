package script

import (
	"errors"
	"fmt"
	"strings"
)

const maxSpecificLen = 120

var ErrMissingTargeting = errors.New("niche, sub_category, follower_count and tone are required")

// Request is the targeting a user picks before generating
type Request struct {
	Niche         string `json:"niche"`
	SubCategory   string `json:"subCategory"`
	FollowerCount string `json:"followerCount"`
	Tone          string `json:"tone"`
	MoreSpecific  string `json:"moreSpecific"`
}

// Normalize trims fields, caps the free-text hint and checks required ones
func (r Request) Normalize() (Request, error) {
	r.Niche = strings.TrimSpace(r.Niche)
	r.SubCategory = strings.TrimSpace(r.SubCategory)
	r.FollowerCount = strings.TrimSpace(r.FollowerCount)
	r.Tone = strings.TrimSpace(r.Tone)
	r.MoreSpecific = strings.TrimSpace(r.MoreSpecific)
	if len([]rune(r.MoreSpecific)) > maxSpecificLen {
		r.MoreSpecific = string([]rune(r.MoreSpecific)[:maxSpecificLen])
	}

	if r.Niche == "" || r.SubCategory == "" || r.FollowerCount == "" || r.Tone == "" {
		return r, ErrMissingTargeting
	}
	return r, nil
}

// BuildSystemPrompt describes the writer persona and the output format
func BuildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You write short-form vertical video scripts (Reels, TikTok, Shorts) for creators.\n")
	sb.WriteString("Every script has exactly three labelled parts:\n")
	sb.WriteString("Hook: one or two lines that stop the scroll in the first 3 seconds\n")
	sb.WriteString("Body: the value, story or demo, written to be spoken aloud in under 45 seconds\n")
	sb.WriteString("CTA: one clear call to action\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Plain text only, no emojis in labels, no markdown tables\n")
	sb.WriteString("- Match the requested tone and the creator's audience size\n")
	sb.WriteString("- Never invent statistics or quote real people\n")

	return sb.String()
}

// BuildUserPrompt turns the targeting into the generation request
func BuildUserPrompt(r Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Niche: %s\n", r.Niche))
	sb.WriteString(fmt.Sprintf("Sub-category: %s\n", r.SubCategory))
	sb.WriteString(fmt.Sprintf("Audience size: %s followers\n", r.FollowerCount))
	sb.WriteString(fmt.Sprintf("Tone: %s\n", r.Tone))
	if r.MoreSpecific != "" {
		sb.WriteString(fmt.Sprintf("Focus: %s\n", r.MoreSpecific))
	}
	sb.WriteString("\nWrite one script.")

	return sb.String()
}
