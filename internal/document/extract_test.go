package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitParagraphsDropsShortChunks(t *testing.T) {
	text := "Page 3\n\n" +
		"This paragraph is long enough to survive the length filter applied during extraction.\n\n" +
		"   \n\n" +
		"tiny"

	paras := SplitParagraphs(text)

	assert.Len(t, paras, 1)
	assert.True(t, strings.HasPrefix(paras[0], "This paragraph"))
}

func TestSplitParagraphsTrimsWhitespace(t *testing.T) {
	text := "  A paragraph padded with whitespace that still clears the minimum length bar.  \n\n"
	paras := SplitParagraphs(text)

	assert.Len(t, paras, 1)
	assert.Equal(t, paras[0], strings.TrimSpace(paras[0]))
}

func TestExtractParagraphsRejectsGarbage(t *testing.T) {
	_, err := ExtractParagraphs([]byte("not a pdf"))
	assert.Error(t, err)
}
