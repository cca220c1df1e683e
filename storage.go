package dispatch

// RecipientStore is the narrow read contract onto the CRM's contact and
// vendor tables. Implementations return ContactNotFoundErr/VendorNotFoundErr
// when the id does not exist.
type RecipientStore interface {
	FindContact(id string) (Contact, error)
	FindVendor(id string) (Vendor, error)

	// FindContactByEmail backs the best-effort foreign key on log entries.
	FindContactByEmail(email string) (Contact, error)
}

// TemplateStore fetches templates read-only; authoring lives elsewhere.
type TemplateStore interface {
	FindTemplate(id string) (Template, error)
}

// CommunicationLogRepository persists the append-only audit trail.
type CommunicationLogRepository interface {
	Append(entry *CommunicationLogEntry) error
	Matching(criteria LogCriteria) ([]CommunicationLogEntry, int, error)
}

// JobRepository is the durable store behind the scheduler. Pending means
// the job has not been executed yet, regardless of how overdue it is.
type JobRepository interface {
	GetPending() ([]ScheduledJob, error)

	Create(*ScheduledJob) error
	Update(*ScheduledJob) error
}
