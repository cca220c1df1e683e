package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Application exposes the dispatch commands. Each call is a short-lived,
// self-contained unit: it owns its own recipient snapshot and placeholder
// map, so concurrent dispatches never share mutable state.
type Application interface {
	HttpHandler() *HttpHandler

	// ScheduleFollowUp merges the template now and hands the finished
	// payload to the scheduler for delivery at sendAt. The returned id
	// identifies the job for operators; nothing is logged until it runs.
	ScheduleFollowUp(ctx context.Context, kind RecipientKind, recipientID, templateID string, sendAt time.Time, hint Channel) (uuid.UUID, error)

	// SendSmsNow delivers a text message synchronously and reports whether
	// the provider accepted it.
	SendSmsNow(ctx context.Context, kind RecipientKind, recipientID, templateID string) (bool, error)

	// SendEventEmail is the event-aware immediate email: placeholders
	// include the event's name, description, date and location.
	SendEventEmail(ctx context.Context, kind RecipientKind, recipientID, templateID string, event Event) error

	// DispatchPrepared sends raw subject/body text against an already
	// resolved recipient snapshot, for callers that hold the data. It
	// still merges and still writes exactly one log entry.
	DispatchPrepared(ctx context.Context, recipient AddressableRecipient, subject, body string, params map[string]string) error

	Shutdown(ctx context.Context)
}

type AppOption func(a *application)

func SetRecipientStore(store RecipientStore) AppOption {
	return func(a *application) {
		a.recipients = store
	}
}

func SetTemplateStore(store TemplateStore) AppOption {
	return func(a *application) {
		a.templates = store
	}
}

func SetScheduler(scheduler Scheduler) AppOption {
	return func(a *application) {
		a.scheduler = scheduler
	}
}

func SetEmailSender(sender *EmailSender) AppOption {
	return func(a *application) {
		a.emailSender = sender
	}
}

func SetSmsSender(sender *SmsSender) AppOption {
	return func(a *application) {
		a.smsSender = sender
	}
}

func SetLogger(logger logrus.FieldLogger) AppOption {
	return func(a *application) {
		a.logger = logger
	}
}

func SetClock(now func() time.Time) AppOption {
	return func(a *application) {
		a.now = now
	}
}

type application struct {
	logger logrus.FieldLogger

	recipients RecipientStore
	templates  TemplateStore
	resolver   *Resolver

	scheduler   Scheduler
	emailSender *EmailSender
	smsSender   *SmsSender

	now func() time.Time
}

func NewApplication(options ...AppOption) (Application, error) {
	app := &application{
		logger: logrus.New(),
		now:    time.Now,
	}

	for _, option := range options {
		option(app)
	}

	if err := app.ensureUsableConfiguration(); err != nil {
		return app, err
	}

	app.resolver = NewResolver(app.recipients)

	return app, nil
}

func (a *application) ensureUsableConfiguration() error {
	if a.recipients == nil {
		return errors.New("missing recipient store")
	}

	if a.templates == nil {
		return errors.New("missing template store")
	}

	return nil
}

func (a *application) HttpHandler() *HttpHandler {
	return &HttpHandler{
		app: a,
	}
}

func (a *application) ScheduleFollowUp(ctx context.Context, kind RecipientKind, recipientID, templateID string, sendAt time.Time, hint Channel) (uuid.UUID, error) {
	if a.scheduler == nil {
		return uuid.Nil, errors.New("no scheduler configured")
	}

	// Cheap input validation first: nothing below runs, and no store is
	// touched, unless the request itself is well-formed.
	if recipientID == "" {
		return uuid.Nil, NewValidationError("recipient id is required")
	}

	if templateID == "" {
		return uuid.Nil, NewValidationError("template id is required")
	}

	now := a.now().UTC()

	if !sendAt.After(now) {
		return uuid.Nil, NewValidationError("scheduled time %s is not in the future", sendAt.UTC().Format(time.RFC3339))
	}

	if hint == ChannelSms {
		return uuid.Nil, NewValidationError("sms delivery cannot be deferred")
	}

	// Resolve eagerly so a missing recipient or template fails this call,
	// not the job hours later.
	recipient, err := a.resolver.Resolve(kind, recipientID)
	if err != nil {
		return uuid.Nil, err
	}

	template, err := a.templates.FindTemplate(templateID)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := PickRoute(template, Intent{SendAt: &sendAt}, now); err != nil {
		return uuid.Nil, err
	}

	if err := recipient.RequireEmail(); err != nil {
		return uuid.Nil, err
	}

	params := recipient.Placeholders()

	payload := EmailPayload{
		To:      recipient.Email,
		Subject: Merge(template.Subject, params),
		Body:    Merge(template.Content, params),

		TemplateID: template.ID,
		ContactID:  recipient.contactID(),
		VendorID:   recipient.vendorID(),
	}

	jobID, err := a.scheduler.ScheduleAt(payload, sendAt)
	if err != nil {
		return uuid.Nil, err
	}

	a.logger.
		WithField("job", jobID).
		WithField("recipient", recipientID).
		WithField("template", templateID).
		WithField("sendAt", sendAt.UTC()).
		Info("scheduled follow-up")

	return jobID, nil
}

func (a *application) SendSmsNow(ctx context.Context, kind RecipientKind, recipientID, templateID string) (bool, error) {
	if a.smsSender == nil {
		return false, errors.New("no sms sender configured")
	}

	if recipientID == "" {
		return false, NewValidationError("recipient id is required")
	}

	if templateID == "" {
		return false, NewValidationError("template id is required")
	}

	recipient, err := a.resolver.Resolve(kind, recipientID)
	if err != nil {
		return false, err
	}

	if err := recipient.RequirePhone(); err != nil {
		return false, err
	}

	template, err := a.templates.FindTemplate(templateID)
	if err != nil {
		return false, err
	}

	if _, err := PickRoute(template, Intent{ExplicitSms: true}, a.now().UTC()); err != nil {
		return false, err
	}

	body := Merge(template.Content, recipient.Placeholders())

	return a.smsSender.Send(ctx, recipient.Phone, body), nil
}

func (a *application) SendEventEmail(ctx context.Context, kind RecipientKind, recipientID, templateID string, event Event) error {
	if a.emailSender == nil {
		return errors.New("no email sender configured")
	}

	if recipientID == "" {
		return NewValidationError("recipient id is required")
	}

	if templateID == "" {
		return NewValidationError("template id is required")
	}

	recipient, err := a.resolver.Resolve(kind, recipientID)
	if err != nil {
		return err
	}

	template, err := a.templates.FindTemplate(templateID)
	if err != nil {
		return err
	}

	if _, err := PickRoute(template, Intent{}, a.now().UTC()); err != nil {
		return err
	}

	if err := recipient.RequireEmail(); err != nil {
		return err
	}

	params := recipient.Placeholders()

	for key, value := range event.Placeholders() {
		params[key] = value
	}

	payload := EmailPayload{
		To:      recipient.Email,
		Subject: Merge(template.Subject, params),
		Body:    Merge(template.Content, params),

		TemplateID: template.ID,
		EventID:    event.ID,
		ContactID:  recipient.contactID(),
		VendorID:   recipient.vendorID(),
	}

	return a.emailSender.Send(ctx, payload)
}

func (a *application) DispatchPrepared(ctx context.Context, recipient AddressableRecipient, subject, body string, params map[string]string) error {
	if a.emailSender == nil {
		return errors.New("no email sender configured")
	}

	if err := recipient.RequireEmail(); err != nil {
		return err
	}

	merged := recipient.Placeholders()

	for key, value := range params {
		merged[key] = value
	}

	payload := EmailPayload{
		To:      recipient.Email,
		Subject: Merge(subject, merged),
		Body:    Merge(body, merged),

		ContactID: recipient.contactID(),
		VendorID:  recipient.vendorID(),
	}

	return a.emailSender.Send(ctx, payload)
}

func (a *application) Shutdown(ctx context.Context) {
	if scheduler, ok := a.scheduler.(*queueScheduler); ok {
		scheduler.Shutdown(ctx)
		return
	}

	<-ctx.Done()
}
