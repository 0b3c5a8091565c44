package imapapi

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
)

type delivery struct {
	from string
	to   []string
	data []byte
}

type captureBackend struct {
	mu         sync.Mutex
	deliveries []delivery
	password   string
}

func (b *captureBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &captureSession{backend: b}, nil
}

func (b *captureBackend) all() []delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]delivery(nil), b.deliveries...)
}

type captureSession struct {
	backend *captureBackend
	authed  bool
	from    string
	to      []string
}

func (s *captureSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *captureSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, _, password string) error {
		if password != s.backend.password {
			return errors.New("invalid credentials")
		}
		s.authed = true
		return nil
	}), nil
}

func (s *captureSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.from = from
	return nil
}

func (s *captureSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *captureSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	s.backend.deliveries = append(s.backend.deliveries, delivery{from: s.from, to: s.to, data: data})
	s.backend.mu.Unlock()
	return nil
}

func (s *captureSession) Reset() {
	s.from = ""
	s.to = nil
}

func (s *captureSession) Logout() error { return nil }

func startSMTP(t *testing.T, password string) (*captureBackend, ServerConfig) {
	t.Helper()
	be := &captureBackend{password: password}
	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return be, ServerConfig{Host: host, Port: port, Username: "moi@assemblee.ga", Password: password}
}

func TestSendMail_DeliversOverSMTP(t *testing.T) {
	be, cfg := startSMTP(t, "secret")

	raw, _, err := compose(outgoing{
		From:    &mail.Address{Address: cfg.Username},
		To:      []*mail.Address{{Address: "awa@assemblee.ga"}},
		Subject: "Budget",
		Body:    "Bonjour",
		Date:    t0,
	})
	require.NoError(t, err)

	require.NoError(t, sendMail(cfg, cfg.Username, []string{"awa@assemblee.ga"}, raw))

	got := be.all()
	require.Len(t, got, 1)
	assert.Equal(t, "moi@assemblee.ga", got[0].from)
	assert.Equal(t, []string{"awa@assemblee.ga"}, got[0].to)
	body, _ := parseMIMEBody(got[0].data)
	assert.Equal(t, "Bonjour", body)
}

func TestSendMail_BadPassword(t *testing.T) {
	_, cfg := startSMTP(t, "secret")
	cfg.Password = "wrong"

	err := sendMail(cfg, cfg.Username, []string{"awa@assemblee.ga"}, []byte("Subject: x\r\n\r\nx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP auth")
}

func TestBackend_SendNewConversation(t *testing.T) {
	be, cfg := startSMTP(t, "secret")
	b := NewBackend(ServerConfig{}, cfg, "Moi")
	b.now = func() time.Time { return t0 }

	id, err := b.SendMessage(context.Background(), model.OutgoingMessage{
		Recipients: []model.Recipient{{Name: "Awa", Email: "awa@assemblee.ga"}, {ID: "paul@assemblee.ga", Name: "Paul"}},
		Subject:    "Question écrite",
		Body:       "Pouvez-vous cosigner ?",
	})
	require.NoError(t, err)
	assert.Equal(t, ThreadID("Question écrite"), id)

	got := be.all()
	require.Len(t, got, 1)
	assert.ElementsMatch(t, []string{"awa@assemblee.ga", "paul@assemblee.ga"}, got[0].to)
}

func TestBackend_SendRejectsUnknownAddress(t *testing.T) {
	b := NewBackend(ServerConfig{}, ServerConfig{Username: "moi@assemblee.ga"}, "Moi")
	b.send = func(ServerConfig, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	_, err := b.SendMessage(context.Background(), model.OutgoingMessage{
		Recipients: []model.Recipient{{ID: "p-1", Name: "Sans adresse"}},
		Subject:    "x",
		Body:       "y",
	})
	assert.True(t, model.IsValidationError(err))
}
