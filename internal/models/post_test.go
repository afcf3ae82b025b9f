package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTitleShortContentUnchanged(t *testing.T) {
	p := Post{Content: "a quick note"}
	assert.Equal(t, "a quick note", p.Title())
}

func TestTitleTruncatesLongContent(t *testing.T) {
	p := Post{Content: strings.Repeat("x", 100)}
	assert.Equal(t, strings.Repeat("x", 40)+"...", p.Title())
}

func TestTitleKeepsMultibyteRunesIntact(t *testing.T) {
	p := Post{Content: strings.Repeat("é", 39) + "日本語のテキスト"}
	title := p.Title()
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, strings.Repeat("é", 39)+"日...", title)
}
