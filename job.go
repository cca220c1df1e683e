package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// EmailPayload is a fully-merged, ready-to-send email. It is assembled at
// scheduling time so a deferred job never re-resolves the recipient or
// re-merges the template when it finally runs.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`

	TemplateID string `json:"templateId,omitempty"`
	EventID    string `json:"eventId,omitempty"`
	ContactID  string `json:"contactId,omitempty"`
	VendorID   string `json:"vendorId,omitempty"`
}

// ScheduledJob is one unit of deferred work, persisted before it is queued
// so it survives a process restart. SentAt is nil until the job has run.
type ScheduledJob struct {
	Uuid uuid.UUID `json:"uuid"`

	Payload EmailPayload `json:"payload"`

	RunAt     time.Time  `json:"runAt"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt"`
}
