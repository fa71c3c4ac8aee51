package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jonathan/career-recommender/internal/conversation"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendations_Cardiologist(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/recommendations/generate", map[string]any{
		"skills":    []string{"Medical Knowledge", " patient care "},
		"interests": []string{"heart"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.RecommendResponse](t, w)
	require.Len(t, resp.Recommendations, 1)
	top := resp.Recommendations[0]
	assert.Equal(t, "Cardiologist", top.Title)
	assert.Equal(t, 2, top.SkillScore)
	assert.Equal(t, 1, top.InterestScore)
	// 2*3 + 1*2 + 9*0.5 + 8*0.5 + neutral salary 5*0.05
	assert.InDelta(t, 16.75, top.TotalScore, 1e-9)
	assert.False(t, top.Fallback)
}

func TestGenerateRecommendations_InterestsOptional(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/recommendations/generate", `{"skills":["negotiation"]}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[types.RecommendResponse](t, w)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "Lawyer", resp.Recommendations[0].Title)
}

func TestGenerateRecommendations_NoMatchReturnsFallback(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/recommendations/generate", `{"skills":["juggling"],"interests":[]}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[types.RecommendResponse](t, w)
	require.Len(t, resp.Recommendations, 1)
	assert.True(t, resp.Recommendations[0].Fallback)
	assert.Equal(t, "Software Engineer", resp.Recommendations[0].Title)
	assert.Zero(t, resp.Recommendations[0].TotalScore)
}

func TestGenerateRecommendations_InvalidSkills(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing skills", body: `{"interests":["art"]}`},
		{name: "null skills", body: `{"skills":null}`},
		{name: "string skills", body: `{"skills":"coding"}`},
		{name: "numbers", body: `{"skills":[1,2]}`},
		{name: "object", body: `{"skills":{"a":"b"}}`},
		{name: "malformed body", body: `{"skills":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			w := ts.do(t, http.MethodPost, "/recommendations/generate", tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, msgSkillsNotArray, decodeBody[map[string]string](t, w)["error"])
			assert.Zero(t, ts.store.listCalls, "catalog must not be read")
		})
	}
}

func TestGenerateRecommendations_InvalidInterests(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/recommendations/generate", `{"skills":["design"],"interests":"art"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInterestsNotArray, decodeBody[map[string]string](t, w)["error"])
	assert.Zero(t, ts.store.listCalls)
}

func TestGenerateRecommendations_CatalogFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.store.listErr = errors.New("connection reset")

	w := ts.do(t, http.MethodPost, "/recommendations/generate", `{"skills":["design"]}`, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgGenerateFailed, decodeBody[map[string]string](t, w)["error"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func webhookBody(intent string, params map[string]any) types.WebhookRequest {
	return types.WebhookRequest{
		Session: "projects/career-bot/agent/sessions/abc123",
		QueryResult: types.QueryResult{
			Intent:     types.Intent{DisplayName: intent},
			Parameters: params,
		},
	}
}

func TestWebhook_Recommendation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/dialogflow/webhook", webhookBody(conversation.RecommendationIntent, map[string]any{
		"skills":    "I am good at patient care",
		"interests": "I love heart health",
	}), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.WebhookResponse](t, w)
	assert.Equal(t, conversation.SuccessText, resp.FulfillmentText)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "Cardiologist", resp.Recommendations[0].Title)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, resp.Recommendations, resp.Payload.Recommendations)
}

func TestWebhook_UnknownIntent(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/dialogflow/webhook", webhookBody("Small Talk", nil), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[types.WebhookResponse](t, w)
	assert.Equal(t, conversation.NotUnderstoodText, resp.FulfillmentText)
	assert.Zero(t, ts.store.listCalls)
}

func TestWebhook_InvalidPhraseAsksForClarification(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/dialogflow/webhook", webhookBody(conversation.RecommendationIntent, map[string]any{
		"skills": "!!!",
	}), "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, conversation.ClarificationText, decodeBody[types.WebhookResponse](t, w).FulfillmentText)
	assert.Zero(t, ts.store.listCalls)
}

func TestWebhook_EngineFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.store.listErr = errors.New("db down")

	w := ts.do(t, http.MethodPost, "/dialogflow/webhook", webhookBody(conversation.RecommendationIntent, map[string]any{
		"skills": "drawing",
	}), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgInternal, decodeBody[map[string]string](t, w)["error"])
}

func TestWebhook_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/dialogflow/webhook", `{"queryResult":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat(t *testing.T) {
	ts := newTestServer(t)
	ts.nlu.result = &types.QueryResult{
		QueryText:  "I am good at drawing and I love buildings",
		Intent:     types.Intent{DisplayName: conversation.RecommendationIntent},
		Parameters: map[string]any{"skills": "good at drawing", "interests": "love buildings"},
	}

	w := ts.do(t, http.MethodPost, "/dialogflow/chat", map[string]string{
		"sessionId": "browser-42",
		"message":   "I am good at drawing and I love buildings",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.WebhookResponse](t, w)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "Architect", resp.Recommendations[0].Title)
	assert.Equal(t, []string{"browser-42"}, ts.nlu.sessions)
}

func TestChat_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed", body: `{`},
		{name: "missing message", body: map[string]string{"sessionId": "s1"}},
		{name: "missing session", body: map[string]string{"message": "hello"}},
		{name: "session with slash", body: map[string]string{"sessionId": "a/b", "message": "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/dialogflow/chat", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, ts.nlu.sessions)
}

func TestChat_NLUFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.nlu.err = errors.New("permission denied")

	w := ts.do(t, http.MethodPost, "/dialogflow/chat", map[string]string{"sessionId": "s1", "message": "hi"}, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgInternal, decodeBody[map[string]string](t, w)["error"])
}

func TestChat_NotConfigured(t *testing.T) {
	ts := newTestServer(t)
	ts.nlu = nil
	ts.Server.nlu = nil

	w := ts.do(t, http.MethodPost, "/dialogflow/chat", map[string]string{"sessionId": "s1", "message": "hi"}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListCareers(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/careers", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[struct {
		Careers []types.Career `json:"careers"`
		Total   int            `json:"total"`
	}](t, w)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, "Cardiologist", body.Careers[0].Title)
}

func TestGetCareer(t *testing.T) {
	ts := newTestServer(t)
	id := types.CareerID("Lawyer")

	w := ts.do(t, http.MethodGet, "/careers/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lawyer", decodeBody[types.Career](t, w).Title)

	w = ts.do(t, http.MethodGet, "/careers/"+types.CareerID("Astronaut").String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/careers/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
