package internal

import "time"

type ScheduleFollowUpRequest struct {
	RecipientKind string    `json:"recipientKind"`
	RecipientId   string    `json:"recipientId"`
	TemplateId    string    `json:"templateId"`
	SendAt        time.Time `json:"sendAt"`
	Channel       string    `json:"channel,omitempty"`
}

type SendSmsRequest struct {
	RecipientKind string `json:"recipientKind"`
	RecipientId   string `json:"recipientId"`
	TemplateId    string `json:"templateId"`
}

type SendEventEmailRequest struct {
	RecipientKind string `json:"recipientKind"`
	RecipientId   string `json:"recipientId"`
	TemplateId    string `json:"templateId"`

	Event struct {
		Id          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
		Location    string    `json:"location"`
	} `json:"event"`
}
