package imapapi

import (
	"context"

	"github.com/emersion/go-imap/v2/imapclient"
)

// envelopeSource lists the envelopes of a mailbox.
type envelopeSource interface {
	envelopes(mailbox string) ([]Envelope, error)
}

// session is the envelopeSource of a connected client.
type session struct {
	client *imapclient.Client
}

func (s session) envelopes(mailbox string) ([]Envelope, error) {
	return FetchEnvelopes(s.client, mailbox, envelopeLimit)
}

// open connects and ties the connection to ctx. The returned release
// must be called when the caller is done with the client.
func (b *Backend) open(ctx context.Context) (*imapclient.Client, func(), error) {
	client, err := b.imap.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	release := bindSession(ctx, client.Close, func() { _ = client.Logout().Wait() })
	return client, release, nil
}

// bindSession closes the connection as soon as ctx ends, which aborts the
// command in flight. release logs out instead when ctx is still live.
func bindSession(ctx context.Context, closeConn func() error, logout func()) (release func()) {
	stop := context.AfterFunc(ctx, func() { _ = closeConn() })
	return func() {
		if stop() {
			logout()
		}
	}
}

// abortErr reports ctx's error in place of the I/O error a closed
// connection produces.
func abortErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
