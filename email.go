package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type EmailSenderOption func(s *EmailSender)

func SetEmailSenderLogger(logger logrus.FieldLogger) EmailSenderOption {
	return func(s *EmailSender) {
		s.logger = logger
	}
}

func SetEmailSenderClock(now func() time.Time) EmailSenderOption {
	return func(s *EmailSender) {
		s.now = now
	}
}

// SetEmailContactMatcher enables the best-effort contact lookup that
// populates the contact foreign key on log entries.
func SetEmailContactMatcher(store RecipientStore) EmailSenderOption {
	return func(s *EmailSender) {
		s.contacts = store
	}
}

// EmailSender attempts one delivery and records the outcome. It never
// propagates a provider failure: the contract is attempt once, write
// exactly one log entry, and let the caller inspect the log. The returned
// error is non-nil only when the audit trail itself cannot be written.
type EmailSender struct {
	logger logrus.FieldLogger

	transport EmailTransport
	logs      CommunicationLogRepository
	contacts  RecipientStore

	now func() time.Time
}

func NewEmailSender(transport EmailTransport, logs CommunicationLogRepository, options ...EmailSenderOption) (*EmailSender, error) {
	if logs == nil {
		return nil, errors.New("missing communication log repository")
	}

	sender := &EmailSender{
		logger:    logrus.New(),
		transport: transport,
		logs:      logs,
		now:       time.Now,
	}

	for _, option := range options {
		option(sender)
	}

	return sender, nil
}

func (s *EmailSender) Send(ctx context.Context, payload EmailPayload) error {
	entry := &CommunicationLogEntry{
		ID: uuid.New(),

		To:      payload.To,
		Subject: payload.Subject,

		SentAt: s.now().UTC(),

		TemplateID: payload.TemplateID,
		EventID:    payload.EventID,
		ContactID:  payload.ContactID,
		VendorID:   payload.VendorID,
	}

	if entry.ContactID == "" && s.contacts != nil {
		if contact, err := s.contacts.FindContactByEmail(payload.To); err == nil {
			entry.ContactID = contact.ID
		}
	}

	switch {
	case !transportConfigured(s.transport):
		entry.ErrorMessage = "missing credential"

		s.logger.
			WithField("to", payload.To).
			Warn("email transport has no credential, recording failed attempt")

	default:
		if err := s.transport.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
			entry.ErrorMessage = err.Error()

			s.logger.
				WithField("to", payload.To).
				WithError(NewDeliveryError("email", "%s", err.Error())).
				Warn("email provider rejected the message")
		} else {
			entry.IsSuccess = true
		}
	}

	return errors.Wrap(s.logs.Append(entry), "failed to append communication log entry")
}

// Execute lets the scheduler run a deferred payload through the same
// attempt-once path.
func (s *EmailSender) Execute(ctx context.Context, payload EmailPayload) error {
	return s.Send(ctx, payload)
}
