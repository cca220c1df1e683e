package mailgun

import (
	"context"

	"github.com/mailgun/mailgun-go/v3"
	"github.com/pkg/errors"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

type MailgunOption func(t *mailgunTransport)

func SetFrom(from string) MailgunOption {
	return func(t *mailgunTransport) {
		t.from = from
	}
}

func SetReplyTo(replyTo string) MailgunOption {
	return func(t *mailgunTransport) {
		t.replyTo = replyTo
	}
}

type mailgunTransport struct {
	mg mailgun.Mailgun

	from    string
	replyTo string
}

func NewMailgunTransport(mailgunClient mailgun.Mailgun, options ...MailgunOption) dispatch.EmailTransport {
	t := &mailgunTransport{
		mg: mailgunClient,
	}

	for _, option := range options {
		option(t)
	}

	return t
}

func (t *mailgunTransport) Configured() bool {
	return t.mg != nil && t.from != ""
}

func (t *mailgunTransport) Send(ctx context.Context, to, subject, body string) error {
	msg := t.mg.NewMessage(t.from, subject, body, to)

	if t.replyTo != "" {
		msg.SetReplyTo(t.replyTo)
	}

	_, _, err := t.mg.Send(ctx, msg)

	return errors.Wrap(err, "failed to send message")
}
