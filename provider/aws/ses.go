package provider

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

type sesTransport struct {
	ses *ses.SES

	from    string
	charset string
}

func NewSesTransport(sess *session.Session, from string) *sesTransport {
	transport := &sesTransport{
		from:    from,
		charset: "UTF-8",
	}

	if sess != nil {
		transport.ses = ses.New(sess)
	}

	return transport
}

func (transport *sesTransport) Configured() bool {
	return transport.ses != nil && transport.from != ""
}

func (transport *sesTransport) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{
				aws.String(to),
			},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String(transport.charset),
					Data:    aws.String(body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String(transport.charset),
				Data:    aws.String(subject),
			},
		},

		Source: aws.String(transport.from),
	}

	_, err := transport.ses.SendEmailWithContext(ctx, input)

	return err
}
