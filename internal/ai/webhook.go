package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"oneprompt/internal/types"
	"oneprompt/internal/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Ensure WebhookBackend implements Backend at compile time.
var _ Backend = (*WebhookBackend)(nil)

const maxErrorBody = 512

// WebhookBackend forwards requests to a generation workflow over HTTP. The
// workflow owns the prompting; it receives the description verbatim.
type WebhookBackend struct {
	url    string
	client *http.Client
}

// NewWebhookBackend creates a WebhookBackend. A nil client means
// http.DefaultClient.
func NewWebhookBackend(url string, client *http.Client) *WebhookBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookBackend{url: url, client: client}
}

type webhookPayload struct {
	Prompt   string          `json:"prompt"`
	Messages []types.Message `json:"messages"`
}

// Complete posts {prompt, messages} and returns the response body as is.
func (b *WebhookBackend) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.UserPrompt()
	messages := req.Messages
	if len(messages) == 0 {
		messages = []types.Message{{Role: "user", Content: prompt}}
	}

	body, err := json.Marshal(webhookPayload{Prompt: prompt, Messages: messages})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode webhook payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build webhook request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read webhook response")
	}
	zap.S().Debugf("Webhook response status %d, %d bytes", resp.StatusCode, len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &utils.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxErrorBody)}
	}
	if strings.TrimSpace(string(respBody)) == "" {
		return "", ErrEmptyReply
	}
	return string(respBody), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
