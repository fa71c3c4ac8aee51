// Package conversation turns NLU fulfillment requests into recommendation
// queries and shapes the chat reply.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-recommender/internal/logger"
	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Reply texts.
const (
	RecommendationIntent = "Career Recommendation"
	SuccessText          = "Your career path is generated successfully. You can find it below."
	NotUnderstoodText    = "Sorry, I didn't understand that request."
	ClarificationText    = "I couldn't recognize your skills or interests. Could you describe them using words, like 'I am good at coding and I love healthcare'?"
)

// Recommender is the scoring engine as seen by the adapter.
type Recommender interface {
	Recommend(ctx context.Context, q types.Query) ([]types.ScoredCareer, error)
}

// phraseParams are the intent parameters the agent extracts. Either field may
// arrive as a single string or a list.
type phraseParams struct {
	Skills    []string `mapstructure:"skills"`
	Interests []string `mapstructure:"interests"`
}

// Adapter handles fulfillment requests for the recommendation intent.
type Adapter struct {
	engine     Recommender
	sessions   session.Store
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAdapter returns an Adapter. A nil store keeps context in process memory.
func NewAdapter(engine Recommender, sessions session.Store, sessionTTL time.Duration, log *zap.Logger) *Adapter {
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{engine: engine, sessions: sessions, sessionTTL: sessionTTL, logger: log}
}

// Handle answers one fulfillment request. Only scoring failures are returned
// as errors; unknown intents and unusable input produce a reply.
func (a *Adapter) Handle(ctx context.Context, req types.WebhookRequest) (types.WebhookResponse, error) {
	intent := req.QueryResult.Intent.DisplayName
	if intent != RecommendationIntent {
		a.logger.Info("unhandled intent", zap.String("intent", intent))
		return textReply(intent, NotUnderstoodText), nil
	}

	params, err := decodeParams(req.QueryResult.Parameters)
	if err != nil {
		a.logger.Warn("undecodable intent parameters", zap.Error(err))
		return textReply(intent, ClarificationText), nil
	}

	skillPhrases, interestPhrases := splitPhrases(params)
	if err := validatePhrases(skillPhrases, interestPhrases); err != nil {
		var invalid *parsing.InvalidPhraseError
		if errors.As(err, &invalid) {
			a.logger.Info("rejected phrase",
				zap.String("field", invalid.Field),
				zap.String("phrase", logger.Truncate(invalid.Phrase, 80)),
				zap.String("reason", invalid.Reason),
			)
		}
		return textReply(intent, ClarificationText), nil
	}

	sessionID := SessionID(req.Session)
	conv := a.mergeContext(ctx, sessionID, &types.ConversationContext{
		Skills:    parsing.ExtractAll(skillPhrases),
		Interests: parsing.ExtractAll(interestPhrases),
	})
	if len(conv.Skills) == 0 && len(conv.Interests) == 0 {
		return textReply(intent, ClarificationText), nil
	}

	recs, err := a.engine.Recommend(ctx, types.Query{Skills: conv.Skills, Interests: conv.Interests})
	if err != nil {
		return types.WebhookResponse{}, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	// Terms are kept only once they have been scored, so a retry after a
	// failure does not count them twice.
	if sessionID != "" {
		if err := a.sessions.Save(ctx, sessionID, conv, a.sessionTTL); err != nil {
			a.logger.Warn("failed to save conversation context", zap.String("session", sessionID), zap.Error(err))
		}
	}

	a.logger.Info("recommendations generated",
		zap.String("session", sessionID),
		zap.Int("skills", len(conv.Skills)),
		zap.Int("interests", len(conv.Interests)),
		zap.Int("results", len(recs)),
	)

	resp := textReply(intent, SuccessText)
	resp.Recommendations = recs
	resp.Payload = &types.WebhookPayload{Recommendations: recs}
	return resp, nil
}

// mergeContext prepends the terms stored for the session. Duplicates are kept.
func (a *Adapter) mergeContext(ctx context.Context, sessionID string, current *types.ConversationContext) *types.ConversationContext {
	if sessionID == "" {
		return current
	}
	prior, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		a.logger.Warn("failed to load conversation context", zap.String("session", sessionID), zap.Error(err))
		return current
	}
	if prior == nil {
		return current
	}
	return &types.ConversationContext{
		Skills:    append(append([]string{}, prior.Skills...), current.Skills...),
		Interests: append(append([]string{}, prior.Interests...), current.Interests...),
	}
}

func decodeParams(raw map[string]any) (phraseParams, error) {
	var p phraseParams
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("decode parameters: %w", err)
	}
	return p, nil
}

// splitPhrases drops blank phrases and splits a lone combined phrase into
// its skills and interests halves.
func splitPhrases(p phraseParams) (skills, interests []string) {
	skills = nonBlank(p.Skills)
	interests = nonBlank(p.Interests)
	if len(interests) == 0 && len(skills) == 1 {
		if s, i, ok := parsing.SplitCombined(skills[0]); ok {
			skills = nonBlank([]string{s})
			interests = nonBlank([]string{i})
		}
	}
	return skills, interests
}

func validatePhrases(skills, interests []string) error {
	for _, s := range skills {
		if err := parsing.ValidatePhrase("skills", s); err != nil {
			return err
		}
	}
	for _, s := range interests {
		if err := parsing.ValidatePhrase("interests", s); err != nil {
			return err
		}
	}
	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// SessionID returns the last segment of a fully qualified session name such
// as "projects/p/agent/sessions/abc".
func SessionID(session string) string {
	session = strings.TrimRight(strings.TrimSpace(session), "/")
	if i := strings.LastIndex(session, "/"); i >= 0 {
		return session[i+1:]
	}
	return session
}

func textReply(intent, text string) types.WebhookResponse {
	return types.WebhookResponse{
		FulfillmentText: text,
		Intent:          intent,
		Recommendations: []types.ScoredCareer{},
		FulfillmentMessages: []types.FulfillmentMessage{
			{Text: types.FulfillmentText{Text: []string{text}}},
		},
	}
}
