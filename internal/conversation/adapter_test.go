package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/career-recommender/internal/session"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	queries []types.Query
	results []types.ScoredCareer
	err     error
}

func (f *fakeRecommender) Recommend(_ context.Context, q types.Query) ([]types.ScoredCareer, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

func webhookRequest(session string, params map[string]any) types.WebhookRequest {
	return types.WebhookRequest{
		Session: session,
		QueryResult: types.QueryResult{
			Intent:     types.Intent{DisplayName: RecommendationIntent},
			Parameters: params,
		},
	}
}

func TestHandle_UnknownIntent(t *testing.T) {
	engine := &fakeRecommender{}
	a := NewAdapter(engine, nil, 0, nil)

	resp, err := a.Handle(context.Background(), types.WebhookRequest{
		QueryResult: types.QueryResult{Intent: types.Intent{DisplayName: "Default Welcome Intent"}},
	})
	require.NoError(t, err)

	assert.Equal(t, NotUnderstoodText, resp.FulfillmentText)
	assert.Equal(t, "Default Welcome Intent", resp.Intent)
	assert.Empty(t, resp.Recommendations)
	assert.Empty(t, engine.queries)
}

func TestHandle_Success(t *testing.T) {
	engine := &fakeRecommender{results: []types.ScoredCareer{{Title: "Nurse", TotalScore: 9}}}
	a := NewAdapter(engine, nil, 0, nil)

	resp, err := a.Handle(context.Background(), webhookRequest("projects/p/agent/sessions/s1", map[string]any{
		"skills":    "I am good at patient care",
		"interests": []any{"I love healthcare"},
	}))
	require.NoError(t, err)

	assert.Equal(t, SuccessText, resp.FulfillmentText)
	assert.Equal(t, RecommendationIntent, resp.Intent)
	require.Len(t, resp.Recommendations, 1)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, resp.Recommendations, resp.Payload.Recommendations)
	require.Len(t, resp.FulfillmentMessages, 1)
	assert.Equal(t, []string{SuccessText}, resp.FulfillmentMessages[0].Text.Text)

	require.Len(t, engine.queries, 1)
	assert.Equal(t, []string{"patient", "care"}, engine.queries[0].Skills)
	assert.Equal(t, []string{"healthcare"}, engine.queries[0].Interests)
}

func TestHandle_SplitsCombinedPhrase(t *testing.T) {
	engine := &fakeRecommender{}
	a := NewAdapter(engine, nil, 0, nil)

	_, err := a.Handle(context.Background(), webhookRequest("", map[string]any{
		"skills": "I am good at coding and I love healthcare",
	}))
	require.NoError(t, err)

	require.Len(t, engine.queries, 1)
	assert.Equal(t, []string{"coding"}, engine.queries[0].Skills)
	assert.Equal(t, []string{"healthcare"}, engine.queries[0].Interests)
}

func TestHandle_ClarificationSkipsEngine(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"no parameters", nil},
		{"disallowed characters", map[string]any{"skills": "c++ & rust!"}},
		{"too short", map[string]any{"skills": "go"}},
		{"bad interest", map[string]any{"skills": "coding", "interests": "<script>"}},
		{"only stop words", map[string]any{"skills": "I am good at"}},
		{"wrong type", map[string]any{"skills": map[string]any{"nested": true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeRecommender{}
			a := NewAdapter(engine, nil, 0, nil)

			resp, err := a.Handle(context.Background(), webhookRequest("s1", tt.params))
			require.NoError(t, err)
			assert.Equal(t, ClarificationText, resp.FulfillmentText)
			assert.Empty(t, resp.Recommendations)
			assert.Empty(t, engine.queries)
		})
	}
}

func TestHandle_CarriesContextAcrossTurns(t *testing.T) {
	engine := &fakeRecommender{}
	store := session.NewMemoryStore()
	a := NewAdapter(engine, store, 0, nil)
	ctx := context.Background()

	_, err := a.Handle(ctx, webhookRequest("projects/p/agent/sessions/s1", map[string]any{"skills": "coding"}))
	require.NoError(t, err)
	_, err = a.Handle(ctx, webhookRequest("projects/p/agent/sessions/s1", map[string]any{
		"skills":    "coding",
		"interests": "healthcare",
	}))
	require.NoError(t, err)

	require.Len(t, engine.queries, 2)
	assert.Equal(t, []string{"coding", "coding"}, engine.queries[1].Skills, "carried terms are not deduplicated")
	assert.Equal(t, []string{"healthcare"}, engine.queries[1].Interests)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"coding", "coding"}, stored.Skills)

	// another session starts empty
	_, err = a.Handle(ctx, webhookRequest("projects/p/agent/sessions/s2", map[string]any{"skills": "drawing"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"drawing"}, engine.queries[2].Skills)
}

func TestHandle_InterestsOnlyUsesStoredSkills(t *testing.T) {
	engine := &fakeRecommender{}
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "s1", &types.ConversationContext{Skills: []string{"math"}}, 0))
	a := NewAdapter(engine, store, 0, nil)

	_, err := a.Handle(context.Background(), webhookRequest("s1", map[string]any{"interests": "finance"}))
	require.NoError(t, err)

	require.Len(t, engine.queries, 1)
	assert.Equal(t, []string{"math"}, engine.queries[0].Skills)
	assert.Equal(t, []string{"finance"}, engine.queries[0].Interests)
}

func TestHandle_EngineError(t *testing.T) {
	engine := &fakeRecommender{err: errors.New("catalog down")}
	a := NewAdapter(engine, nil, 0, nil)

	_, err := a.Handle(context.Background(), webhookRequest("s1", map[string]any{"skills": "coding"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog down")
}

func TestHandle_EngineErrorKeepsStoredContext(t *testing.T) {
	engine := &fakeRecommender{}
	store := session.NewMemoryStore()
	a := NewAdapter(engine, store, 0, nil)
	ctx := context.Background()

	_, err := a.Handle(ctx, webhookRequest("s1", map[string]any{"skills": "coding"}))
	require.NoError(t, err)

	engine.err = errors.New("catalog down")
	_, err = a.Handle(ctx, webhookRequest("s1", map[string]any{"skills": "drawing"}))
	require.Error(t, err)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"coding"}, stored.Skills, "failed turn must not be stored")

	// The retry sees the failed turn's terms once.
	engine.err = nil
	_, err = a.Handle(ctx, webhookRequest("s1", map[string]any{"skills": "drawing"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"coding", "drawing"}, engine.queries[len(engine.queries)-1].Skills)
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "abc", SessionID("projects/p/agent/sessions/abc"))
	assert.Equal(t, "abc", SessionID("abc"))
	assert.Equal(t, "abc", SessionID("projects/p/agent/sessions/abc/"))
	assert.Equal(t, "", SessionID(""))
}
