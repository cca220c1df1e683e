package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// CommunicationLogEntry is one row of the delivery audit trail. Exactly one
// entry is written per delivery attempt, success or failure; entries are
// never updated afterwards. Scheduling alone writes nothing — the entry
// appears when the scheduled job actually runs.
type CommunicationLogEntry struct {
	ID uuid.UUID `json:"id"`

	To      string `json:"to"`
	Subject string `json:"subject"`

	SentAt       time.Time `json:"sentAt"`
	IsSuccess    bool      `json:"isSuccess"`
	ErrorMessage string    `json:"errorMessage,omitempty"`

	// Informational foreign keys, populated best-effort. Empty means no
	// association.
	ContactID  string `json:"contactId,omitempty"`
	VendorID   string `json:"vendorId,omitempty"`
	EventID    string `json:"eventId,omitempty"`
	TemplateID string `json:"templateId,omitempty"`
}

// LogCriteria filters the audit trail for operator views.
type LogCriteria struct {
	Offset int
	Limit  int

	To         string
	TemplateID string
	EventID    string
	ContactID  string
	VendorID   string

	Success *bool

	SentAfter  time.Time
	SentBefore time.Time

	Sorting map[string]string
}
