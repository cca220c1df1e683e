package dispatch

import "time"

type Route int

const (
	RouteImmediateEmail Route = iota
	RouteScheduledEmail
	RouteImmediateSms
)

// Intent captures what the caller asked for, as opposed to what the
// template declares. ExplicitSms comes from the send-SMS command; SendAt
// comes from the schedule command.
type Intent struct {
	ExplicitSms bool
	SendAt      *time.Time
}

// PickRoute decides the delivery path for a template and caller intent.
// An explicit SMS request wins over everything but is rejected when the
// template is not an SMS template, so an email body can never go out as a
// text message. Only email supports deferral; SendAt must be strictly
// after now.
func PickRoute(template Template, intent Intent, now time.Time) (Route, error) {
	if intent.ExplicitSms {
		if template.Channel != ChannelSms {
			return 0, NewValidationError("template %s is a %s template, not sms", template.ID, template.Channel)
		}

		if intent.SendAt != nil {
			return 0, NewValidationError("sms delivery cannot be deferred")
		}

		return RouteImmediateSms, nil
	}

	if template.Channel != ChannelEmail {
		return 0, NewValidationError("template %s is a %s template, not email", template.ID, template.Channel)
	}

	if intent.SendAt != nil {
		if !intent.SendAt.After(now) {
			return 0, NewValidationError("scheduled time %s is not in the future", intent.SendAt.UTC().Format(time.RFC3339))
		}

		return RouteScheduledEmail, nil
	}

	return RouteImmediateEmail, nil
}
