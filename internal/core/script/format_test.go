package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	raw := "hok: Stop scrolling!\r\nbody: here's why\ncta: follow for more undefined"

	got := Clean(raw)
	assert.Equal(t, "**Hook:** Stop scrolling!\n\n**Body:** here's why\n\n**CTA:** follow for more", got)
	assert.Equal(t, got, Clean(got), "Clean should be idempotent")
}

func TestClean_CollapsesBlankLines(t *testing.T) {
	got := Clean("Hook: a\n\n\n\n\nBody: b\n\n\n\nextra\n\n\n\nCTA: c")
	assert.NotContains(t, got, "\n\n\n")
	assert.True(t, strings.HasPrefix(got, "**Hook:**"))
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean("  undefined undefined "))
}

func TestSections(t *testing.T) {
	md := Clean("Hook: Stop scrolling!\nBody: here's why\nit works\nCTA: follow")

	secs := Sections(md)
	require.Len(t, secs, 3)
	assert.Equal(t, Section{Key: "Hook", Content: "Stop scrolling!"}, secs[0])
	assert.Equal(t, Section{Key: "Body", Content: "here's why\nit works"}, secs[1])
	assert.Equal(t, Section{Key: "CTA", Content: "follow"}, secs[2])

	assert.Nil(t, Sections("just some text"))
}

func TestRequestNormalize(t *testing.T) {
	r, err := Request{
		Niche:         " Fitness ",
		SubCategory:   "Home Workouts",
		FollowerCount: "1,000 - 10,000",
		Tone:          "Bold / Dramatic",
		MoreSpecific:  strings.Repeat("x", 200),
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Fitness", r.Niche)
	assert.Len(t, r.MoreSpecific, 120)

	_, err = Request{Niche: "Fitness"}.Normalize()
	assert.ErrorIs(t, err, ErrMissingTargeting)
}

func TestBuildUserPrompt(t *testing.T) {
	p := BuildUserPrompt(Request{Niche: "AI Tools", SubCategory: "Prompt Frameworks", FollowerCount: "100,000+", Tone: "Storytelling"})
	assert.Contains(t, p, "Niche: AI Tools")
	assert.Contains(t, p, "Tone: Storytelling")
	assert.NotContains(t, p, "Focus:")

	assert.Contains(t, BuildSystemPrompt(), "Hook:")
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Niches, 28)
	assert.Len(t, c.FollowerCounts, 5)
	assert.Len(t, c.Tones, 7)
}
