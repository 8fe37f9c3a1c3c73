package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectQueryType(t *testing.T) {
	tests := []struct {
		query string
		want  QueryType
	}{
		{"cheaper alternative to Dolo 650", QueryTypePrice},
		{"compare price of Shelcal", QueryTypePrice},
		{"medicines that contains ibuprofen", QueryTypeComposition},
		{"what is the salt of Magvion", QueryTypeComposition},
		{"treatment for seasonal allergy", QueryTypeSearch},
		{"medicine for headache", QueryTypeSearch},
		{"alternatives to Paracetamol", QueryTypeGeneral},
		{"Magvion", QueryTypeGeneral},
		{"CHEAP substitute", QueryTypePrice},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, DetectQueryType(tc.query), "query: %s", tc.query)
	}
}

func TestRenderPromptContainsQueryAndContext(t *testing.T) {
	for _, queryType := range []QueryType{
		QueryTypeGeneral, QueryTypeSearch, QueryTypePrice, QueryTypeComposition,
	} {
		prompt, err := renderPrompt(queryType, "some database context", "some question")
		require.NoError(t, err)
		require.Contains(t, prompt, "some database context")
		require.Contains(t, prompt, "some question")
	}
}

func TestRenderPromptUnknownTypeFallsBackToGeneral(t *testing.T) {
	prompt, err := renderPrompt(QueryType("unknown"), "ctx", "question")
	require.NoError(t, err)
	require.Contains(t, prompt, "ctx")
}
