package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeGatewayEmbedDeterministic(t *testing.T) {
	f := NewFake(16)
	ctx := context.Background()

	v1, err := f.Embed(ctx, []string{"quarterly revenue growth"})
	require.NoError(t, err)
	v2, err := f.Embed(ctx, []string{"quarterly revenue growth"})
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}

func TestFakeGatewayEmbedSimilarityOrdering(t *testing.T) {
	f := NewFake(64)
	ctx := context.Background()

	vecs, err := f.Embed(ctx, []string{
		"the customer wants faster onboarding",
		"onboarding speed is the customer's top priority",
		"weather forecast for tomorrow is sunny",
	})
	require.NoError(t, err)

	simRelated := dot(vecs[0], vecs[1])
	simUnrelated := dot(vecs[0], vecs[2])
	assert.Greater(t, simRelated, simUnrelated)
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestFakeGatewayCompleteEchoesByDefault(t *testing.T) {
	f := NewFake(8)
	out, err := f.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "you are terse"},
		{Role: RoleUser, Content: "summarize this call"},
	}, 0.2, 256)
	require.NoError(t, err)
	assert.Contains(t, out, "summarize this call")
}

func TestFakeGatewayCompleteJSONCallback(t *testing.T) {
	f := NewFake(8)
	type payload struct {
		Score int `json:"score"`
	}
	f.SetCompleteJSON(func(messages []Message, out any) error {
		p := out.(*payload)
		p.Score = 7
		return nil
	})

	var p payload
	err := f.CompleteJSON(context.Background(), []Message{{Role: RoleUser, Content: "evaluate"}}, &p, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Score)
}

func TestReflectSchemaIncludesFieldNames(t *testing.T) {
	type talkingPoint struct {
		Headline string `json:"headline"`
		Detail   string `json:"detail"`
	}
	schema, err := reflectSchema(&talkingPoint{})
	require.NoError(t, err)
	assert.Contains(t, schema, "headline")
	assert.Contains(t, schema, "detail")
}
