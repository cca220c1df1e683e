package twilio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

const twilioApi = "https://api.twilio.com/2010-04-01"

type twilio struct {
	client *retryablehttp.Client

	from string

	accountSid string
	authToken  string
}

func NewTwilioClient(from, accountSid, authToken string) dispatch.SmsTransport {
	return &twilio{
		client: retryablehttp.NewClient(),

		from: from,

		accountSid: accountSid,
		authToken:  authToken,
	}
}

func (t *twilio) Configured() bool {
	return t.from != "" && t.accountSid != "" && t.authToken != ""
}

type messageResponse struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *twilio) Send(ctx context.Context, to, message string) (dispatch.SmsResult, error) {
	body := url.Values{
		"From": {t.from},
		"To":   {to},
		"Body": {message},
	}.Encode()

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioApi, t.accountSid)

	req, err := retryablehttp.NewRequest(http.MethodPost, endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return dispatch.SmsResult{}, err
	}

	req = req.WithContext(ctx)
	req.SetBasicAuth(t.accountSid, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.Header.Set("User-Agent", dispatch.UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return dispatch.SmsResult{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 || resp.StatusCode <= 199 {
		apiErr := apiError{}

		// Best effort, the status code alone is enough to fail on.
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		if apiErr.Message != "" {
			return dispatch.SmsResult{
				Status:       "failed",
				ErrorCode:    strconv.Itoa(apiErr.Code),
				ErrorMessage: apiErr.Message,
			}, errors.Errorf("unexpected response code %d received from twilio: %s", resp.StatusCode, apiErr.Message)
		}

		return dispatch.SmsResult{Status: "failed"}, errors.Errorf("unexpected response code %d received from twilio", resp.StatusCode)
	}

	msg := messageResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return dispatch.SmsResult{}, errors.Wrap(err, "failed to decode twilio response")
	}

	result := dispatch.SmsResult{
		Sid:          msg.Sid,
		Status:       msg.Status,
		ErrorMessage: msg.ErrorMessage,
	}

	if msg.ErrorCode != nil {
		result.ErrorCode = strconv.Itoa(*msg.ErrorCode)
	}

	return result, nil
}
