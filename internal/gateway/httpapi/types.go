package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nhle/iboite/internal/model"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Code == http.StatusUnauthorized {
		return fmt.Sprintf("authentication failed (401) on %s %s: check the backend token", e.Method, e.Path)
	}
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.Code, e.Method, e.Path, e.Message)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type participantDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type summaryDTO struct {
	Author  string    `json:"author"`
	Excerpt string    `json:"excerpt"`
	SentAt  time.Time `json:"sentAt"`
}

type conversationDTO struct {
	ID           string           `json:"id"`
	Subject      string           `json:"subject"`
	Participants []participantDTO `json:"participants"`
	UnreadCount  int              `json:"unreadCount"`
	LastMessage  *summaryDTO      `json:"lastMessage,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Archived     bool             `json:"archived"`
}

type attachmentDTO struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type messageDTO struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Author         participantDTO  `json:"author"`
	Body           string          `json:"body"`
	Attachments    []attachmentDTO `json:"attachments,omitempty"`
	SentAt         time.Time       `json:"sentAt"`
}

type recipientDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type sendRequest struct {
	ConversationID string         `json:"conversationId,omitempty"`
	Recipients     []recipientDTO `json:"recipients,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	Body           string         `json:"body"`
}

type sendResponse struct {
	ConversationID string `json:"conversationId"`
}

func (p participantDTO) toModel() model.Participant {
	return model.Participant{ID: p.ID, Name: p.Name, Role: p.Role}
}

func (c conversationDTO) toModel() model.Conversation {
	conv := model.Conversation{
		ID:          c.ID,
		Subject:     c.Subject,
		UnreadCount: c.UnreadCount,
		UpdatedAt:   c.UpdatedAt,
		Archived:    c.Archived,
	}
	for _, p := range c.Participants {
		conv.Participants = append(conv.Participants, p.toModel())
	}
	if c.LastMessage != nil {
		conv.LastMessage = &model.MessageSummary{
			Author:  c.LastMessage.Author,
			Excerpt: c.LastMessage.Excerpt,
			SentAt:  c.LastMessage.SentAt,
		}
	}
	return conv
}

func (m messageDTO) toModel(conversationID string) model.Message {
	msg := model.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Author:         m.Author.toModel(),
		Body:           m.Body,
		SentAt:         m.SentAt,
	}
	if msg.ConversationID == "" {
		msg.ConversationID = conversationID
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, model.Attachment{Name: a.Name, Size: a.Size})
	}
	return msg
}

func newSendRequest(msg model.OutgoingMessage) sendRequest {
	req := sendRequest{
		ConversationID: msg.ConversationID,
		Subject:        msg.Subject,
		Body:           msg.Body,
	}
	for _, r := range msg.Recipients {
		req.Recipients = append(req.Recipients, recipientDTO{ID: r.ID, Name: r.Name, Email: r.Email})
	}
	return req
}
