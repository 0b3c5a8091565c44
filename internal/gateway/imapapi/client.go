package imapapi

import (
	"context"
	"fmt"
	"net"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// IMAPClient wraps go-imap v2 for connecting to and querying IMAP servers.
// Each operation opens its own connection.
type IMAPClient struct {
	cfg ServerConfig
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(cfg ServerConfig) *IMAPClient {
	return &IMAPClient{cfg: cfg}
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (c *IMAPClient) Connect(ctx context.Context) (*imapclient.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr := net.JoinHostPort(c.cfg.Host, c.cfg.Port)

	var client *imapclient.Client
	var err error
	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("IMAP authentication failed for %s: %w", c.cfg.Username, err)
	}

	return client, nil
}

// FetchEnvelopes selects mailbox and returns the envelopes of its most
// recent messages, at most limit of them. A missing mailbox yields no
// envelopes.
func FetchEnvelopes(client *imapclient.Client, mailbox string, limit int) ([]Envelope, error) {
	if _, err := client.Select(mailbox, nil).Wait(); err != nil {
		return nil, nil
	}

	searchData, err := client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", mailbox, err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bufs, err := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope: true,
		Flags:    true,
		UID:      true,
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetching envelopes from %s: %w", mailbox, err)
	}

	envelopes := make([]Envelope, 0, len(bufs))
	for _, buf := range bufs {
		envelopes = append(envelopes, envelopeFromBuffer(mailbox, buf))
	}
	return envelopes, nil
}

// FetchBodies returns the raw RFC 5322 content of the given messages in
// the currently selected mailbox, keyed by UID.
func FetchBodies(client *imapclient.Client, uids []uint32) (map[uint32][]byte, error) {
	if len(uids) == 0 {
		return map[uint32][]byte{}, nil
	}

	set := make([]imap.UID, 0, len(uids))
	for _, u := range uids {
		set = append(set, imap.UID(u))
	}

	section := &imap.FetchItemBodySection{Peek: true}
	bufs, err := client.Fetch(imap.UIDSetNum(set...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetching message bodies: %w", err)
	}

	out := make(map[uint32][]byte, len(bufs))
	for _, buf := range bufs {
		out[uint32(buf.UID)] = buf.FindBodySection(section)
	}
	return out, nil
}

// AddSeen sets the \Seen flag on the given messages of the selected mailbox.
func AddSeen(client *imapclient.Client, uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}
	set := make([]imap.UID, 0, len(uids))
	for _, u := range uids {
		set = append(set, imap.UID(u))
	}

	return client.Store(imap.UIDSetNum(set...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil).Close()
}

// envelopeFromBuffer extracts an Envelope from a FetchMessageBuffer.
func envelopeFromBuffer(mailbox string, buf *imapclient.FetchMessageBuffer) Envelope {
	env := Envelope{
		Mailbox: mailbox,
		UID:     uint32(buf.UID),
	}

	if buf.Envelope != nil {
		env.MessageID = buf.Envelope.MessageID
		env.Subject = buf.Envelope.Subject
		env.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			env.FromName = from.Name
			env.FromAddr = from.Addr()
		}
		for _, to := range buf.Envelope.To {
			env.To = append(env.To, to.Addr())
		}
	}

	for _, flag := range buf.Flags {
		if flag == imap.FlagSeen {
			env.Seen = true
		}
	}
	return env
}
