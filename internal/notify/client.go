package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/sheets"

	"github.com/rs/zerolog/log"
)

// HighPriorityThreshold is the minimum alignment score that triggers a
// Slack alert.
const HighPriorityThreshold = 4

// Client posts high-priority opportunity alerts to a Slack incoming webhook.
type Client struct {
	httpClient *http.Client
	webhookURL string
	enabled    bool
}

// Message is the Slack webhook payload: a plain-text fallback plus Block
// Kit sections.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

type Block struct {
	Type   string `json:"type"`
	Text   *Text  `json:"text,omitempty"`
	Fields []Text `json:"fields,omitempty"`
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewClient(webhookURL string, enabled bool) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		webhookURL: webhookURL,
		enabled:    enabled,
	}
}

// NotifyHighPriority posts an alert for one classified inquiry when its
// alignment score meets the threshold. Low scores and missing scores make
// no network call. A failed or non-2xx post is logged and reported but
// never aborts the run.
func (c *Client) NotifyHighPriority(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error {
	if !c.enabled {
		log.Debug().Msg("Slack notifications disabled, skipping")
		return nil
	}

	if result.AlignmentScore == nil || *result.AlignmentScore < HighPriorityThreshold {
		log.Debug().
			Int("alignment_score", result.Score()).
			Str("company", inquiry.CompanyName()).
			Msg("Skipping Slack alert for low-priority inquiry")
		return nil
	}

	message := buildMessage(inquiry, result)
	if err := c.post(ctx, message); err != nil {
		log.Warn().Err(err).Str("company", inquiry.CompanyName()).Msg("Failed to send Slack alert")
		return err
	}

	log.Info().
		Str("company", inquiry.CompanyName()).
		Int("alignment_score", result.Score()).
		Msg("Slack alert sent")
	return nil
}

func (c *Client) post(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// buildMessage formats the alert: header line, score/contact field pair,
// summary section and quoted next step.
func buildMessage(inquiry sheets.Inquiry, result *classify.Result) Message {
	company := inquiry.CompanyName()
	score := result.Score()

	summary := ""
	if result.Summary != nil {
		summary = *result.Summary
	}
	nextStep := ""
	if result.SuggestedNextStep != nil {
		nextStep = *result.SuggestedNextStep
	}

	return Message{
		Text: fmt.Sprintf("🚀 High-Priority Opportunity: *%s* (Score: %d/5)", company, score),
		Blocks: []Block{
			{
				Type: "section",
				Text: &Text{
					Type: "mrkdwn",
					Text: fmt.Sprintf("🚀 *High-Priority Opportunity: %s*", company),
				},
			},
			{
				Type: "section",
				Fields: []Text{
					{Type: "mrkdwn", Text: fmt.Sprintf("*Alignment Score:*\n%d/5", score)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Contact:*\n%s", inquiry.Field(sheets.ColContact))},
				},
			},
			{
				Type: "section",
				Text: &Text{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*Summary:*\n%s", summary),
				},
			},
			{
				Type: "section",
				Text: &Text{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*Suggested Next Step:*\n>%s", nextStep),
				},
			},
		},
	}
}
