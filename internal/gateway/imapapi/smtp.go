package imapapi

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// sendMail delivers a composed message over SMTP. With cfg.TLS the
// connection uses implicit TLS; otherwise STARTTLS is used when the server
// offers it. PLAIN auth is attempted when a password is configured.
func sendMail(cfg ServerConfig, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	tlsConfig := &tls.Config{ServerName: cfg.Host}

	var client *smtp.Client
	var err error
	if cfg.TLS {
		client, err = smtp.DialTLS(addr, tlsConfig)
	} else {
		client, err = smtp.Dial(addr)
	}
	if err != nil {
		return fmt.Errorf("dial SMTP %s: %w", addr, err)
	}
	defer client.Close()

	if !cfg.TLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("SMTP STARTTLS: %w", err)
			}
		}
	}

	if cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := sasl.NewPlainClient("", cfg.Username, cfg.Password)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("SMTP auth: %w", err)
			}
		}
	}

	if err := client.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("SMTP send: %w", err)
	}
	return client.Quit()
}
