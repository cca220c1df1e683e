package dispatch

import "time"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSms   Channel = "sms"
)

// Template is a reusable message body owned by the CRM's template editor.
// It is consumed read-only here; fetched at dispatch time, never mutated.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Content string  `json:"content"`
	Channel Channel `json:"channel"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
