package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const alertPrefix = "ALERT: "

// NormalizePhone brings a raw destination number to E.164. Numbers already
// carrying a + pass through, bare 10-digit US numbers get +1, 11-digit
// numbers starting with 1 get +, and anything longer than 7 digits is
// prefixed with + and attempted as-is. Shorter input is rejected before
// any provider call.
func NormalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "+") {
		return trimmed, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, trimmed)

	switch {
	case len(digits) == 10:
		return "+1" + digits, nil

	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits, nil

	case len(digits) > 7:
		return "+" + digits, nil

	default:
		return "", NewValidationError("invalid phone number %q", raw)
	}
}

type SmsSenderOption func(s *SmsSender)

func SetSmsSenderLogger(logger logrus.FieldLogger) SmsSenderOption {
	return func(s *SmsSender) {
		s.logger = logger
	}
}

func SetSmsSenderClock(now func() time.Time) SmsSenderOption {
	return func(s *SmsSender) {
		s.now = now
	}
}

// SmsSender delivers one text message synchronously. Like the email sender
// it writes one audit entry per delivery attempt; a number rejected during
// normalization never reaches the provider and is not logged as an attempt.
type SmsSender struct {
	logger logrus.FieldLogger

	transport SmsTransport
	logs      CommunicationLogRepository

	now func() time.Time
}

func NewSmsSender(transport SmsTransport, logs CommunicationLogRepository, options ...SmsSenderOption) (*SmsSender, error) {
	if logs == nil {
		return nil, errors.New("missing communication log repository")
	}

	sender := &SmsSender{
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

// Send reports true only when the provider accepted the message for
// delivery. Provider rejections and missing configuration come back as
// false with the detail in the communication log.
func (s *SmsSender) Send(ctx context.Context, toRaw, body string) bool {
	to, err := NormalizePhone(toRaw)
	if err != nil {
		s.logger.
			WithField("to", toRaw).
			WithError(err).
			Warn("refusing to send sms to invalid number")

		return false
	}

	entry := &CommunicationLogEntry{
		ID: uuid.New(),

		To:     to,
		SentAt: s.now().UTC(),
	}

	if !transportConfigured(s.transport) {
		entry.ErrorMessage = "missing credential"

		s.logger.
			WithField("to", to).
			Warn("sms transport has no credential, recording failed attempt")

		s.append(entry)

		return false
	}

	result, err := s.transport.Send(ctx, to, body)
	if err != nil {
		entry.ErrorMessage = err.Error()

		s.logger.
			WithField("to", to).
			WithError(NewDeliveryError("sms", "%s", err.Error())).
			Warn("sms provider rejected the message")

		s.append(entry)

		return false
	}

	if !smsAccepted(result.Status) {
		entry.ErrorMessage = result.ErrorMessage
		if entry.ErrorMessage == "" {
			entry.ErrorMessage = "unexpected provider status " + result.Status
		}

		s.logger.
			WithField("to", to).
			WithField("status", result.Status).
			WithField("errorCode", result.ErrorCode).
			Warn("sms provider did not accept the message")

		s.append(entry)

		return false
	}

	entry.IsSuccess = true

	s.append(entry)

	return true
}

// SendCriticalAlert is the urgent variant: same path, body wrapped with an
// alert marker.
func (s *SmsSender) SendCriticalAlert(ctx context.Context, toRaw, message string) bool {
	return s.Send(ctx, toRaw, alertPrefix+message)
}

func (s *SmsSender) append(entry *CommunicationLogEntry) {
	if err := s.logs.Append(entry); err != nil {
		s.logger.
			WithField("to", entry.To).
			WithError(err).
			Error("failed to append communication log entry")
	}
}

func smsAccepted(status string) bool {
	switch strings.ToLower(status) {
	case "queued", "sending", "sent", "accepted":
		return true
	}

	return false
}
