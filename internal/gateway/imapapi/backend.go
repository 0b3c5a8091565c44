// Package imapapi implements the message service backend on top of a mail
// account: conversations are read over IMAP and messages are sent over
// SMTP. A conversation is the set of messages sharing a normalized subject.
package imapapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/model"
)

const (
	inboxMailbox   = "INBOX"
	archiveMailbox = "Archive"

	// envelopeLimit caps how many recent messages are scanned per mailbox.
	envelopeLimit = 300
)

// Backend implements gateway.Backend for an IMAP/SMTP mail account.
type Backend struct {
	imap     *IMAPClient
	smtp     ServerConfig
	selfName string
	now      func() time.Time
	send     func(cfg ServerConfig, from string, to []string, msg []byte) error
}

// NewBackend creates a mail backend. selfName is the display name used on
// outgoing messages; the SMTP username is the sender address.
func NewBackend(imapCfg, smtpCfg ServerConfig, selfName string) *Backend {
	return &Backend{
		imap:     NewIMAPClient(imapCfg),
		smtp:     smtpCfg,
		selfName: selfName,
		now:      time.Now,
		send:     sendMail,
	}
}

// Name implements gateway.Backend.
func (b *Backend) Name() string { return "imap" }

func mailboxFor(archived bool) string {
	if archived {
		return archiveMailbox
	}
	return inboxMailbox
}

// GetConversations implements gateway.Backend.
func (b *Backend) GetConversations(ctx context.Context, opts gateway.ListOptions) ([]model.Conversation, error) {
	client, release, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	envs, err := FetchEnvelopes(client, mailboxFor(opts.Archived), envelopeLimit)
	if err != nil {
		return nil, abortErr(ctx, err)
	}

	threads := groupThreads(envs)
	convs := make([]model.Conversation, 0, len(threads))
	for _, t := range threads {
		convs = append(convs, t.conversation(opts.Archived))
	}
	return convs, nil
}

// findThread locates the conversation in the inbox, then the archive. With
// a live session the mailbox holding the thread is left selected.
func findThread(ctx context.Context, src envelopeSource, conversationID string) (thread, error) {
	for _, mailbox := range []string{inboxMailbox, archiveMailbox} {
		if err := ctx.Err(); err != nil {
			return thread{}, err
		}
		envs, err := src.envelopes(mailbox)
		if err != nil {
			return thread{}, err
		}
		for _, t := range groupThreads(envs) {
			if t.id == conversationID {
				return t, nil
			}
		}
	}
	return thread{}, &model.NotFoundError{Kind: "conversation", ID: conversationID}
}

// GetMessages implements gateway.Backend. Messages are returned newest
// first, like the REST service.
func (b *Backend) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	client, release, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	t, err := findThread(ctx, session{client}, conversationID)
	if err != nil {
		return nil, abortErr(ctx, err)
	}

	uids := make([]uint32, 0, len(t.envelopes))
	for _, e := range t.envelopes {
		uids = append(uids, e.UID)
	}
	bodies, err := FetchBodies(client, uids)
	if err != nil {
		return nil, abortErr(ctx, err)
	}

	msgs := make([]model.Message, 0, len(t.envelopes))
	for _, e := range t.envelopes {
		body, attachments := parseMIMEBody(bodies[e.UID])
		msgs = append(msgs, model.Message{
			ID:             fmt.Sprintf("%s:%d", e.Mailbox, e.UID),
			ConversationID: conversationID,
			Author: model.Participant{
				ID:   e.FromAddr,
				Name: displayName(e.FromName, e.FromAddr),
			},
			Body:        body,
			Attachments: attachments,
			SentAt:      e.Date,
		})
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].SentAt.After(msgs[j].SentAt)
	})
	return msgs, nil
}

// MarkConversationAsRead implements gateway.Backend by setting \Seen on
// every message of the conversation.
func (b *Backend) MarkConversationAsRead(ctx context.Context, conversationID string) error {
	client, release, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	t, err := findThread(ctx, session{client}, conversationID)
	if err != nil {
		return abortErr(ctx, err)
	}

	var unseen []uint32
	for _, e := range t.envelopes {
		if !e.Seen {
			unseen = append(unseen, e.UID)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := AddSeen(client, unseen); err != nil {
		return fmt.Errorf("marking conversation read: %w", abortErr(ctx, err))
	}
	return nil
}

// SendMessage implements gateway.Backend. Replies go to every other
// participant of the thread; new conversations go to the recipients.
func (b *Backend) SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error) {
	out := outgoing{
		From:    &gomail.Address{Name: b.selfName, Address: b.smtp.Username},
		Subject: msg.Subject,
		Body:    msg.Body,
		Date:    b.now(),
	}

	if msg.ConversationID != "" {
		client, release, err := b.open(ctx)
		if err != nil {
			return "", err
		}
		t, err := findThread(ctx, session{client}, msg.ConversationID)
		release()
		if err != nil {
			return "", abortErr(ctx, err)
		}
		if err := prepareReply(&out, t, b.smtp.Username); err != nil {
			return "", err
		}
	} else {
		to, err := recipientAddresses(msg.Recipients)
		if err != nil {
			return "", err
		}
		out.To = to
	}

	raw, _, err := compose(out)
	if err != nil {
		return "", err
	}

	rcpt := make([]string, 0, len(out.To))
	for _, a := range out.To {
		rcpt = append(rcpt, a.Address)
	}
	if err := b.send(b.smtp, b.smtp.Username, rcpt, raw); err != nil {
		return "", err
	}
	return ThreadID(out.Subject), nil
}

// prepareReply fills the reply headers of out from thread t.
func prepareReply(out *outgoing, t thread, self string) error {
	targets := t.replyTargets(self)
	if len(targets) == 0 {
		return &model.ValidationError{Field: "recipients", Message: "conversation has no other participant"}
	}
	for _, addr := range targets {
		out.To = append(out.To, &gomail.Address{Address: addr})
	}

	out.Subject = "Re: " + NormalizeSubject(t.envelopes[0].Subject)
	for _, e := range t.envelopes {
		if e.MessageID != "" {
			out.References = append(out.References, e.MessageID)
		}
	}
	if n := len(out.References); n > 0 {
		out.InReplyTo = out.References[n-1]
	}
	return nil
}

// recipientAddresses resolves picked recipients to mail addresses. The
// recipient id is used when it is itself an address.
func recipientAddresses(rs []model.Recipient) ([]*gomail.Address, error) {
	out := make([]*gomail.Address, 0, len(rs))
	for _, r := range rs {
		addr := r.Email
		if addr == "" && strings.Contains(r.ID, "@") {
			addr = r.ID
		}
		parsed, err := gomail.ParseAddress(addr)
		if err != nil {
			return nil, &model.ValidationError{
				Field:   "recipients",
				Message: fmt.Sprintf("%s has no valid mail address", r.Name),
			}
		}
		out = append(out, &gomail.Address{Name: r.Name, Address: parsed.Address})
	}
	return out, nil
}
