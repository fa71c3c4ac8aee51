package types

// WebhookRequest is the fulfillment request sent by the NLU provider.
type WebhookRequest struct {
	ResponseID  string      `json:"responseId,omitempty"`
	Session     string      `json:"session,omitempty"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent, its parameters and the active contexts.
type QueryResult struct {
	QueryText      string          `json:"queryText,omitempty"`
	Intent         Intent          `json:"intent"`
	Parameters     map[string]any  `json:"parameters,omitempty"`
	OutputContexts []OutputContext `json:"outputContexts,omitempty"`
}

// Intent identifies the recognized intent.
type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// OutputContext is a named conversation context with its parameters.
type OutputContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// WebhookResponse is the reply returned to the NLU provider and the chat UI.
type WebhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText"`
	Intent              string               `json:"intent"`
	Recommendations     []ScoredCareer       `json:"recommendations"`
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages,omitempty"`
	Payload             *WebhookPayload      `json:"payload,omitempty"`
}

// FulfillmentMessage is a rich response message.
type FulfillmentMessage struct {
	Text FulfillmentText `json:"text"`
}

// FulfillmentText holds one or more text variants.
type FulfillmentText struct {
	Text []string `json:"text"`
}

// WebhookPayload is the structured data rendered by the UI.
type WebhookPayload struct {
	Recommendations []ScoredCareer `json:"recommendations"`
}

// ChatRequest is the body of POST /dialogflow/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128,excludes=/"`
	Message   string `json:"message" validate:"required,max=1000"`
}
