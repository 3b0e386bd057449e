// Package messenger implements the outbound Evolution API client and the
// inbound webhook envelope types for the WhatsApp transport.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client sends messages through a running Evolution API instance.
type Client struct {
	baseURL    string
	apiKey     string
	instance   string
	httpClient *http.Client
}

// NewClient constructs a Client for the given Evolution API endpoint.
// instance is the default instance used by SendText.
func NewClient(baseURL, apiKey, instance string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		instance:   instance,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendTextRequest struct {
	Number  string          `json:"number"`
	Options sendTextOptions `json:"options"`
	Text    string          `json:"text"`
}

type sendTextOptions struct {
	Delay       int    `json:"delay"`
	Presence    string `json:"presence"`
	LinkPreview bool   `json:"linkPreview"`
}

// SendText delivers one text message to the given chat JID. Delivery is
// best-effort; callers are expected to log the returned error and carry on.
func (c *Client) SendText(ctx context.Context, jid, text string) error {
	body, err := json.Marshal(sendTextRequest{
		Number: jid,
		Options: sendTextOptions{
			Delay:       1200,
			Presence:    "composing",
			LinkPreview: false,
		},
		Text: text,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, c.instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evolution sendText: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("evolution sendText: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// LeaveGroup makes the given instance leave a group chat.
func (c *Client) LeaveGroup(ctx context.Context, instance, groupJID string) error {
	if instance == "" {
		instance = c.instance
	}
	endpoint := fmt.Sprintf("%s/group/leaveGroup/%s?groupJid=%s",
		c.baseURL, instance, url.QueryEscape(groupJID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evolution leaveGroup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("evolution leaveGroup: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
