package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRecipientStore struct {
	mu sync.Mutex

	contacts map[string]Contact
	vendors  map[string]Vendor

	calls int
}

func newFakeRecipientStore() *fakeRecipientStore {
	return &fakeRecipientStore{
		contacts: map[string]Contact{},
		vendors:  map[string]Vendor{},
	}
}

func (s *fakeRecipientStore) FindContact(id string) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	contact, ok := s.contacts[id]
	if !ok {
		return Contact{}, ContactNotFoundErr
	}

	return contact, nil
}

func (s *fakeRecipientStore) FindVendor(id string) (Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	vendor, ok := s.vendors[id]
	if !ok {
		return Vendor{}, VendorNotFoundErr
	}

	return vendor, nil
}

func (s *fakeRecipientStore) FindContactByEmail(email string) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	for _, contact := range s.contacts {
		if contact.Email == email {
			return contact, nil
		}
	}

	return Contact{}, ContactNotFoundErr
}

type fakeTemplateStore struct {
	mu sync.Mutex

	templates map[string]Template

	calls int
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{
		templates: map[string]Template{},
	}
}

func (s *fakeTemplateStore) FindTemplate(id string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	template, ok := s.templates[id]
	if !ok {
		return Template{}, TemplateNotFoundErr
	}

	return template, nil
}

type fakeLogRepository struct {
	mu sync.Mutex

	entries []CommunicationLogEntry

	appendErr error
}

func (r *fakeLogRepository) Append(entry *CommunicationLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.appendErr != nil {
		return r.appendErr
	}

	r.entries = append(r.entries, *entry)

	return nil
}

func (r *fakeLogRepository) Matching(criteria LogCriteria) ([]CommunicationLogEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]CommunicationLogEntry, 0)

	for _, entry := range r.entries {
		if criteria.To != "" && entry.To != criteria.To {
			continue
		}

		if criteria.TemplateID != "" && entry.TemplateID != criteria.TemplateID {
			continue
		}

		if criteria.Success != nil && entry.IsSuccess != *criteria.Success {
			continue
		}

		matched = append(matched, entry)
	}

	total := len(matched)

	if criteria.Offset > 0 {
		if criteria.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[criteria.Offset:]
		}
	}

	if criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[:criteria.Limit]
	}

	return matched, total, nil
}

func (r *fakeLogRepository) all() []CommunicationLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]CommunicationLogEntry, len(r.entries))
	copy(entries, r.entries)

	return entries
}

type emailCall struct {
	to      string
	subject string
	body    string
}

type fakeEmailTransport struct {
	mu sync.Mutex

	sent []emailCall

	err          error
	unconfigured bool
}

func (t *fakeEmailTransport) Configured() bool {
	return !t.unconfigured
}

func (t *fakeEmailTransport) Send(ctx context.Context, to, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return t.err
	}

	t.sent = append(t.sent, emailCall{to: to, subject: subject, body: body})

	return nil
}

type smsCall struct {
	to   string
	body string
}

type fakeSmsTransport struct {
	mu sync.Mutex

	sent []smsCall

	result       SmsResult
	err          error
	unconfigured bool
}

func (t *fakeSmsTransport) Configured() bool {
	return !t.unconfigured
}

func (t *fakeSmsTransport) Send(ctx context.Context, to, message string) (SmsResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return SmsResult{}, t.err
	}

	t.sent = append(t.sent, smsCall{to: to, body: message})

	return t.result, nil
}

type scheduledCall struct {
	payload EmailPayload
	at      time.Time
}

type fakeScheduler struct {
	mu sync.Mutex

	calls []scheduledCall
}

func (s *fakeScheduler) ScheduleAt(payload EmailPayload, at time.Time) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, scheduledCall{payload: payload, at: at})

	return uuid.New(), nil
}

func (s *fakeScheduler) EnqueueNow(payload EmailPayload) (uuid.UUID, error) {
	return s.ScheduleAt(payload, time.Now())
}

type fakeJobRepository struct {
	mu sync.Mutex

	pending []ScheduledJob

	created []ScheduledJob
	updated []ScheduledJob
}

func (r *fakeJobRepository) GetPending() ([]ScheduledJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pending, nil
}

func (r *fakeJobRepository) Create(job *ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.created = append(r.created, *job)

	return nil
}

func (r *fakeJobRepository) Update(job *ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updated = append(r.updated, *job)

	return nil
}

func (r *fakeJobRepository) updatedJobs() []ScheduledJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]ScheduledJob, len(r.updated))
	copy(jobs, r.updated)

	return jobs
}

type recordingExecutor struct {
	mu sync.Mutex

	executed []EmailPayload
	signal   chan EmailPayload

	err error
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{
		signal: make(chan EmailPayload, 16),
	}
}

func (e *recordingExecutor) Execute(ctx context.Context, payload EmailPayload) error {
	e.mu.Lock()
	e.executed = append(e.executed, payload)
	e.mu.Unlock()

	e.signal <- payload

	if e.err != nil {
		return e.err
	}

	return nil
}
