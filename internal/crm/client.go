// Package crm provides the authenticated CRM API client and the snapshot
// collectors built on it. Everything here is I/O plumbing; the enrichment
// engine never imports this package.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pipeline_portal_backend/internal/crm/transport"
	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	retryDelay         = 2 * time.Second
	maxAttempts        = 2
)

// Client handles authenticated CRM API requests with rate limiting and
// retry on transient upstream errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	userAgent  string
	tokens     TokenProvider
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a CRM API client.
func NewClient(cfg config.CRMConfig, tokens TokenProvider, log *logger.Logger) *Client {
	rps := cfg.GetCRMRateLimitRPS()
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.GetCRMMaxConcurrent()
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    cfg.GetCRMBaseURL(),
		apiVersion: cfg.GetCRMAPIVersion(),
		userAgent:  cfg.GetCRMUserAgent(),
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        log,
	}
}

// doJSON performs one API call, decoding the response into out. Transient
// 500/503 responses are retried once after a short delay.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindUnauthorized, "crm token unavailable", err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", token)
		req.Header.Set("Version", c.apiVersion)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < maxAttempts {
				time.Sleep(retryDelay)
				continue
			}
			return apperr.Wrap(apperr.KindUnavailable, "crm request failed", err)
		}

		status := resp.StatusCode
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.log.CRMRequest(method, path, status, attempt)

		switch {
		case status >= 200 && status < 300:
			if readErr != nil {
				return readErr
			}
			if out == nil {
				return nil
			}
			return json.Unmarshal(data, out)
		case status == http.StatusUnauthorized:
			return apperr.Unauthorized("crm token rejected").WithOp(method + " " + path)
		case (status == http.StatusInternalServerError || status == http.StatusServiceUnavailable) && attempt < maxAttempts:
			time.Sleep(retryDelay)
			continue
		default:
			return apperr.New(apperr.KindUnavailable,
				fmt.Sprintf("crm api %d: %s", status, string(data))).WithOp(method + " " + path)
		}
	}

	return apperr.Unavailable("crm request failed after retries")
}

// SearchOpportunities fetches the pipeline's opportunities.
func (c *Client) SearchOpportunities(ctx context.Context, pipelineID, locationID string) ([]transport.Opportunity, error) {
	path := fmt.Sprintf("/opportunities/search?pipeline_id=%s&location_id=%s&limit=100", pipelineID, locationID)
	var resp transport.OpportunitySearchResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.All(), nil
}

// SearchConversations fetches the conversations for one contact.
func (c *Client) SearchConversations(ctx context.Context, contactID, locationID string) ([]transport.Conversation, error) {
	path := fmt.Sprintf("/conversations/search?contactId=%s&locationId=%s", contactID, locationID)
	var resp transport.ConversationSearchResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ConversationMessages fetches the recent messages of a conversation.
func (c *Client) ConversationMessages(ctx context.Context, conversationID string) ([]transport.Message, error) {
	path := fmt.Sprintf("/conversations/%s/messages?limit=100", conversationID)
	var resp transport.MessagesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.All(), nil
}

// MessageBody fetches the full body of one message (used for emails, whose
// search payloads omit bodies).
func (c *Client) MessageBody(ctx context.Context, messageID string) (string, error) {
	path := fmt.Sprintf("/conversations/messages/%s", messageID)
	var resp transport.EmailBodyResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.ResolvedBody(), nil
}

// ContactNotes fetches the notes attached to a contact.
func (c *Client) ContactNotes(ctx context.Context, contactID string) ([]transport.Note, error) {
	path := fmt.Sprintf("/contacts/%s/notes", contactID)
	var resp transport.NotesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// SendMessage sends an outbound message through the CRM.
func (c *Client) SendMessage(ctx context.Context, req transport.SendMessageRequest) (transport.SendMessageResponse, error) {
	var resp transport.SendMessageResponse
	err := c.doJSON(ctx, http.MethodPost, "/conversations/messages", req, &resp)
	return resp, err
}

// MoveOpportunity changes an opportunity's pipeline stage.
func (c *Client) MoveOpportunity(ctx context.Context, opportunityID, stageID string) error {
	path := fmt.Sprintf("/opportunities/%s", opportunityID)
	return c.doJSON(ctx, http.MethodPut, path, transport.MoveOpportunityRequest{PipelineStageID: stageID}, nil)
}

// AddContactNote attaches a note to a contact.
func (c *Client) AddContactNote(ctx context.Context, contactID, body string) error {
	path := fmt.Sprintf("/contacts/%s/notes", contactID)
	return c.doJSON(ctx, http.MethodPost, path, transport.AddNoteRequest{Body: body}, nil)
}
