package model

import "time"

// Participant is a summary of someone taking part in a conversation.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// MessageSummary is the preview of the latest message of a conversation.
type MessageSummary struct {
	Author  string    `json:"author"`
	Excerpt string    `json:"excerpt"`
	SentAt  time.Time `json:"sent_at"`
}

// Conversation is a remotely persisted message thread. The local copy is a
// cache; UnreadCount is authoritative from the remote side.
type Conversation struct {
	ID           string          `json:"id"`
	Subject      string          `json:"subject"`
	Participants []Participant   `json:"participants"`
	UnreadCount  int             `json:"unread_count"`
	LastMessage  *MessageSummary `json:"last_message,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Archived     bool            `json:"archived"`
}

// Message is a single entry of a conversation.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Author         Participant  `json:"author"`
	Body           string       `json:"body"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	SentAt         time.Time    `json:"sent_at"`
}

// Recipient is a person picked in the recipient search.
type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// OutgoingMessage is the payload produced by the compose form. An empty
// ConversationID starts a new conversation.
type OutgoingMessage struct {
	ConversationID string      `json:"conversationId,omitempty"`
	Recipients     []Recipient `json:"recipients"`
	Subject        string      `json:"subject"`
	Body           string      `json:"body"`
}
