package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiURL = "https://graph.facebook.com/v21.0"

// Cloud API limits for interactive messages.
const (
	MaxButtons         = 3
	MaxButtonTitle     = 20
	MaxRowTitle        = 24
	MaxRowDesc         = 72
	MaxInteractiveBody = 1024
)

type Client struct {
	phoneNumberID string
	accessToken   string
	baseURL       string
	http          *http.Client
}

func NewClient(phoneNumberID, accessToken string) *Client {
	return &Client{
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		baseURL:       apiURL,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &SendText{Body: body},
	}
	return c.send(ctx, msg)
}

func (c *Client) SendInteractiveButtons(ctx context.Context, to, body string, buttons []Button) error {
	if len(buttons) == 0 || len(buttons) > MaxButtons {
		return fmt.Errorf("whatsapp: %d buttons, want 1 to %d", len(buttons), MaxButtons)
	}
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type:   "button",
			Body:   InteractiveBody{Text: truncate(body, MaxInteractiveBody)},
			Action: InteractiveAction{Buttons: buttons},
		},
	}
	return c.send(ctx, msg)
}

func (c *Client) SendList(ctx context.Context, to, body, buttonText string, sections []Section) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type: "list",
			Body: InteractiveBody{Text: truncate(body, MaxInteractiveBody)},
			Action: InteractiveAction{
				Button:   buttonText,
				Sections: sections,
			},
		},
	}
	return c.send(ctx, msg)
}

// SendCTAButton sends a message with a single button that opens link.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/messages/interactive-cta-url-messages
func (c *Client) SendCTAButton(ctx context.Context, to, body, label, link string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type: "cta_url",
			Body: InteractiveBody{Text: truncate(body, MaxInteractiveBody)},
			Action: InteractiveAction{
				Name:       "cta_url",
				Parameters: &CTAParameters{DisplayText: truncate(label, MaxButtonTitle), URL: link},
			},
		},
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg SendMessageRequest) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp API status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// NewReplyButton builds a reply button, trimming the title to the API limit.
func NewReplyButton(id, title string) Button {
	return Button{Type: "reply", Reply: ButtonReply{ID: id, Title: truncate(title, MaxButtonTitle)}}
}

// NewRow builds a list row, trimming title and description to the API limits.
func NewRow(id, title, description string) SectionRow {
	return SectionRow{ID: id, Title: truncate(title, MaxRowTitle), Description: truncate(description, MaxRowDesc)}
}
