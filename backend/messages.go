package backend

import (
	"context"
	"net/http"
)

type sendMessageRequest struct {
	Body string `json:"body"`
}

// Conversations lists the caller's messaging inbox, most recent first.
func (c *Client) Conversations(ctx context.Context, tok string) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.do(ctx, http.MethodGet, "/conversations", tok, nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// Messages returns the thread of one conversation, oldest first.
func (c *Client) Messages(ctx context.Context, tok string, conversationID int64) ([]Message, error) {
	var messages []Message
	if err := c.do(ctx, http.MethodGet, idPath("/conversations/%d/messages", conversationID), tok, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends to a conversation thread.
func (c *Client) SendMessage(ctx context.Context, tok string, conversationID int64, body string) (*Message, error) {
	var message Message
	req := sendMessageRequest{Body: body}
	if err := c.do(ctx, http.MethodPost, idPath("/conversations/%d/messages", conversationID), tok, req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}
