package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"projects\": []}\n```"
	assert.Equal(t, `{"projects": []}`, CleanJSON(raw))
}

func TestCleanJSONStripsBareFences(t *testing.T) {
	raw := "```\n{\"projects\": []}\n```"
	assert.Equal(t, `{"projects": []}`, CleanJSON(raw))
}

func TestCleanJSONIgnoresPreamble(t *testing.T) {
	raw := "Here is the plan:\n```json\n{\"projects\": []}\n```\nHope this helps!"
	assert.Equal(t, `{"projects": []}`, CleanJSON(raw))
}

func TestCleanJSONPassthrough(t *testing.T) {
	raw := `{"projects": []}`
	assert.Equal(t, raw, CleanJSON(raw))
}

func TestDecodePlan(t *testing.T) {
	plan, err := decodePlan("replan", "```json\n{\"projects\":[{\"name\":\"Thesis\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, plan.Projects, 1)
	assert.Equal(t, "Thesis", plan.Projects[0].Name)
}

func TestDecodePlanParseError(t *testing.T) {
	_, err := decodePlan("replan", "I could not produce JSON, sorry.")
	require.Error(t, err)

	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, "replan", pe.Op)
	assert.Equal(t, "I could not produce JSON, sorry.", pe.Raw)
	assert.Contains(t, err.Error(), "gemini replan")
	assert.NotContains(t, err.Error(), pe.Raw) // raw reply stays out of the message
}
