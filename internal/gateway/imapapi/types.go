package imapapi

import "time"

// Envelope holds the parsed envelope data of an IMAP message.
type Envelope struct {
	Mailbox   string
	UID       uint32
	MessageID string
	Subject   string
	FromName  string
	FromAddr  string
	To        []string
	Date      time.Time
	Seen      bool
}

// ServerConfig holds the settings of an IMAP or SMTP server.
type ServerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool
}
