// Package nlu sends free-text chat messages to the Dialogflow agent and
// returns the recognized intent in webhook form.
package nlu

import (
	"context"
	"fmt"
	"strings"

	dialogflow "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultLanguageCode is sent with every text query.
const DefaultLanguageCode = "en-US"

// Client resolves a chat message to an intent.
type Client interface {
	DetectIntent(ctx context.Context, sessionID, text string) (*types.QueryResult, error)
}

// intentDetector is the subset of the Dialogflow sessions client used here.
type intentDetector interface {
	DetectIntent(ctx context.Context, req *dialogflowpb.DetectIntentRequest, opts ...gax.CallOption) (*dialogflowpb.DetectIntentResponse, error)
}

// Config selects the Dialogflow agent.
type Config struct {
	ProjectID       string
	CredentialsFile string
	LanguageCode    string
}

// DialogflowClient implements Client on the Dialogflow ES sessions API.
type DialogflowClient struct {
	sessions     intentDetector
	closer       func() error
	projectID    string
	languageCode string
	logger       *zap.Logger
}

// NewDialogflowClient dials the sessions API. An empty CredentialsFile uses
// application default credentials.
func NewDialogflowClient(ctx context.Context, cfg Config, logger *zap.Logger) (*DialogflowClient, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("dialogflow project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	sc, err := dialogflow.NewSessionsClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialogflow sessions client: %w", err)
	}

	c := newClient(sc, cfg, logger)
	c.closer = sc.Close
	return c, nil
}

func newClient(sessions intentDetector, cfg Config, logger *zap.Logger) *DialogflowClient {
	lang := cfg.LanguageCode
	if lang == "" {
		lang = DefaultLanguageCode
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogflowClient{
		sessions:     sessions,
		projectID:    cfg.ProjectID,
		languageCode: lang,
		logger:       logger,
	}
}

// Close releases the underlying connection.
func (c *DialogflowClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// SessionPath returns the fully qualified Dialogflow session name.
func (c *DialogflowClient) SessionPath(sessionID string) string {
	return fmt.Sprintf("projects/%s/agent/sessions/%s", c.projectID, sessionID)
}

// DetectIntent implements Client. Failures are not retried.
func (c *DialogflowClient) DetectIntent(ctx context.Context, sessionID, text string) (*types.QueryResult, error) {
	req := &dialogflowpb.DetectIntentRequest{
		Session: c.SessionPath(sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{
					Text:         text,
					LanguageCode: c.languageCode,
				},
			},
		},
	}

	resp, err := c.sessions.DetectIntent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("dialogflow detect intent: %w", err)
	}

	qr := toQueryResult(resp.GetQueryResult())
	c.logger.Debug("detected intent",
		zap.String("session", sessionID),
		zap.String("intent", qr.Intent.DisplayName),
	)
	return qr, nil
}

// toQueryResult converts the protobuf result into the webhook representation
// so chat and webhook traffic share one adapter.
func toQueryResult(pb *dialogflowpb.QueryResult) *types.QueryResult {
	qr := &types.QueryResult{}
	if pb == nil {
		return qr
	}

	qr.QueryText = pb.GetQueryText()
	if intent := pb.GetIntent(); intent != nil {
		qr.Intent = types.Intent{Name: intent.GetName(), DisplayName: intent.GetDisplayName()}
	}
	if params := pb.GetParameters(); params != nil {
		qr.Parameters = params.AsMap()
	}
	for _, oc := range pb.GetOutputContexts() {
		out := types.OutputContext{
			Name:          oc.GetName(),
			LifespanCount: int(oc.GetLifespanCount()),
		}
		if params := oc.GetParameters(); params != nil {
			out.Parameters = params.AsMap()
		}
		qr.OutputContexts = append(qr.OutputContexts, out)
	}
	return qr
}
