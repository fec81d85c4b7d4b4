package email

import (
	"context"
	"crypto/tls"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/ankurdental/dentaldesk/config"
)

// Message is one outgoing mail. At least one of TextBody and HTMLBody is
// required; with both, HTML is sent as the alternative part.
type Message struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

type Client struct {
	cfg Config
}

func NewFromCentral(cfg config.EmailConfig, clinicName string) *Client {
	c := FromCentralConfig(cfg)
	c.ClinicName = clinicName
	return New(c)
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Enabled() bool { return c.cfg.Enabled }

func (c *Client) ClinicName() string { return c.cfg.ClinicName }

// Send delivers m over SMTP, giving up at the sooner of ctx's deadline and
// the configured SMTP timeout. The dial keeps running in the background
// after a timeout; gomail offers no way to cancel it.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}
	msg, err := compose(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.dialer().DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "smtp " + c.cfg.SMTPHost, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) dialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	d.SSL = c.cfg.SMTPUseTLS
	d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return d
}

func compose(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	to := trimAll(m.To)
	subject := strings.TrimSpace(m.Subject)
	switch {
	case from == "":
		return nil, ErrInvalidMessage{Reason: "no sender configured"}
	case len(to) == 0:
		return nil, ErrInvalidMessage{Reason: "no recipients"}
	case subject == "":
		return nil, ErrInvalidMessage{Reason: "empty subject"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	for name, addrs := range map[string][]string{"Cc": m.CC, "Bcc": m.BCC} {
		if addrs = trimAll(addrs); len(addrs) > 0 {
			msg.SetHeader(name, addrs...)
		}
	}
	for k, v := range m.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			msg.SetHeader(k, v)
		}
	}

	if err := setBody(msg, m.TextBody, m.HTMLBody); err != nil {
		return nil, err
	}
	return msg, nil
}

func setBody(msg *gomail.Message, text, html string) error {
	hasText, hasHTML := strings.TrimSpace(text) != "", strings.TrimSpace(html) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", text)
		msg.AddAlternative("text/html", html)
	case hasHTML:
		msg.SetBody("text/html", html)
	case hasText:
		msg.SetBody("text/plain", text)
	default:
		return ErrInvalidMessage{Reason: "empty body"}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
