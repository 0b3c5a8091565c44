package main

import (
	"fmt"
	"time"

	"github.com/nhle/iboite/internal/credential"
	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/gateway/httpapi"
	"github.com/nhle/iboite/internal/gateway/imapapi"
	"github.com/nhle/iboite/internal/gateway/memory"
	"github.com/nhle/iboite/internal/model"
)

// lookupSecret resolves secrets from the environment or the keyring.
var lookupSecret = credential.Lookup

// buildBackend creates the message service selected by cfg.Kind.
func buildBackend(cfg model.BackendConfig, now func() time.Time) (gateway.Backend, error) {
	switch cfg.Kind {
	case model.BackendMemory, "":
		b := memory.New(cfg.Self)
		b.Seed(now())
		return b, nil

	case model.BackendHTTP:
		timeout := time.Duration(cfg.TimeoutSec) * time.Second
		client := httpapi.NewClient(cfg.BaseURL, lookupSecret(credential.KeyBackendToken), timeout)
		return httpapi.NewBackend(client), nil

	case model.BackendIMAP:
		if cfg.IMAP.Host == "" || cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("imap backend needs backend.imap.host and backend.smtp.host")
		}
		imapCfg := imapapi.ServerConfig{
			Host:     cfg.IMAP.Host,
			Port:     cfg.IMAP.Port,
			Username: cfg.IMAP.Username,
			Password: lookupSecret(credential.KeyIMAPPassword),
			TLS:      cfg.IMAP.TLS,
		}
		smtpCfg := imapapi.ServerConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: lookupSecret(credential.KeySMTPPassword),
			TLS:      cfg.SMTP.TLS,
		}
		return imapapi.NewBackend(imapCfg, smtpCfg, cfg.Self), nil
	}
	return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
}
