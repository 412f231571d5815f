package aiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Сервисы похожести по-разному именуют поля ответа - принимаем оба варианта.
func TestCandidateUnmarshal_Aliases(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Candidate
	}{
		{
			name: "camelCase id + score",
			body: `{"missingId":"m0000001","score":0.91}`,
			want: Candidate{MissingID: "m0000001", Score: 0.91},
		},
		{
			name: "snake_case id + similarity_score",
			body: `{"missing_id":"f0000002","similarity_score":0.42}`,
			want: Candidate{MissingID: "f0000002", Score: 0.42},
		},
		{
			name: "mixed",
			body: `{"missingId":"m0000003","similarity_score":0.5}`,
			want: Candidate{MissingID: "m0000003", Score: 0.5},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Candidate
			require.NoError(t, json.Unmarshal([]byte(tc.body), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

// canonical-имя побеждает, если сервис прислал оба варианта ключа
func TestCandidateUnmarshal_CanonicalWins(t *testing.T) {
	var got Candidate
	require.NoError(t, json.Unmarshal(
		[]byte(`{"missingId":"m0000001","missing_id":"m0000009","score":0.7,"similarity_score":0.1}`),
		&got,
	))
	assert.Equal(t, "m0000001", got.MissingID)
	assert.Equal(t, 0.7, got.Score)
}

func TestCandidateUnmarshal_List(t *testing.T) {
	body := `[{"missingId":"m0000001","score":0.9},{"missing_id":"m0000002","similarity_score":0.8}]`
	var got []Candidate
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "m0000001", got[0].MissingID)
	assert.Equal(t, "m0000002", got[1].MissingID)
	assert.Greater(t, got[0].Score, got[1].Score)
}
