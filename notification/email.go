package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier mails every event to a fixed recipient list.
type EmailNotifier struct {
	cfg    EmailConfig
	dialer *gomail.Dialer
}

// NewEmailNotifier returns nil when no SMTP host is configured.
func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return nil
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &EmailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(BuildMessage(n.cfg.From, n.cfg.To, evt)); err != nil {
		return fmt.Errorf("send email for %s: %w", evt.Type, err)
	}
	return nil
}

// Send mails an arbitrary subject and HTML body to the configured recipients.
func (n *EmailNotifier) Send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", n.cfg.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return n.dialer.DialAndSend(msg)
}

func BuildMessage(from string, to []string, evt Event) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", fmt.Sprintf("[%s] %s", evt.Type, evt.Reference))
	msg.SetBody("text/html", renderBody(evt))
	return msg
}

func renderBody(evt Event) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(evt.Detail))
	b.WriteString("</p><table>")
	row := func(k, v string) {
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", k, html.EscapeString(v))
	}
	row("Event", evt.Type)
	row("Reference", evt.Reference)
	row("Operator", evt.Operator)
	row("Time", evt.OccurredAt.UTC().Format("2006-01-02 15:04:05 MST"))
	b.WriteString("</table>")
	return b.String()
}
