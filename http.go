package dispatch

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/interactive-solutions/go-dispatch/internal"
)

type HttpHandler struct {
	app *application
}

// Router builds a ready-to-mount subrouter; hosts that prefer their own
// wiring can register the handler methods directly.
func (h *HttpHandler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/dispatch/follow-ups", h.ScheduleFollowUp).Methods(http.MethodPost)
	router.HandleFunc("/dispatch/sms", h.SendSms).Methods(http.MethodPost)
	router.HandleFunc("/dispatch/event-emails", h.SendEventEmail).Methods(http.MethodPost)
	router.HandleFunc("/communications", h.GetCommunications).Methods(http.MethodGet)

	return router
}

func (h *HttpHandler) ScheduleFollowUp(w http.ResponseWriter, r *http.Request) {
	body := &internal.ScheduleFollowUpRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", 400)
		return
	}

	hint := Channel(body.Channel)
	if hint == "" {
		hint = ChannelEmail
	}

	jobID, err := h.app.ScheduleFollowUp(r.Context(), RecipientKind(body.RecipientKind), body.RecipientId, body.TemplateId, body.SendAt, hint)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	payload := struct {
		JobId string `json:"jobId"`
	}{jobID.String()}

	writeJson(w, http.StatusAccepted, payload)
}

func (h *HttpHandler) SendSms(w http.ResponseWriter, r *http.Request) {
	body := &internal.SendSmsRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", 400)
		return
	}

	delivered, err := h.app.SendSmsNow(r.Context(), RecipientKind(body.RecipientKind), body.RecipientId, body.TemplateId)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	payload := struct {
		Delivered bool `json:"delivered"`
	}{delivered}

	writeJson(w, http.StatusOK, payload)
}

func (h *HttpHandler) SendEventEmail(w http.ResponseWriter, r *http.Request) {
	body := &internal.SendEventEmailRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", 400)
		return
	}

	event := Event{
		ID:          body.Event.Id,
		Name:        body.Event.Name,
		Description: body.Event.Description,
		Date:        body.Event.Date,
		Location:    body.Event.Location,
	}

	if err := h.app.SendEventEmail(r.Context(), RecipientKind(body.RecipientKind), body.RecipientId, body.TemplateId, event); err != nil {
		writeDispatchError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HttpHandler) GetCommunications(w http.ResponseWriter, r *http.Request) {
	if h.app.emailSender == nil || h.app.emailSender.logs == nil {
		http.Error(w, "No communication log configured", 500)
		return
	}

	criteria := logCriteriaFromQuery(r)

	entries, count, err := h.app.emailSender.logs.Matching(criteria)
	if err != nil {
		http.Error(w, "Failed to retrieve communication log", 500)
		return
	}

	payload := struct {
		Data  []CommunicationLogEntry `json:"data"`
		Total int                     `json:"total"`
	}{entries, count}

	writeJson(w, http.StatusOK, payload)
}

func logCriteriaFromQuery(r *http.Request) LogCriteria {
	query := r.URL.Query()

	criteria := LogCriteria{
		Limit: 50,

		To:         query.Get("to"),
		TemplateID: query.Get("templateId"),
		EventID:    query.Get("eventId"),
		ContactID:  query.Get("contactId"),
		VendorID:   query.Get("vendorId"),
	}

	if offset, err := strconv.Atoi(query.Get("offset")); err == nil && offset >= 0 {
		criteria.Offset = offset
	}

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		criteria.Limit = limit
	}

	if raw := query.Get("success"); raw != "" {
		if success, err := strconv.ParseBool(raw); err == nil {
			criteria.Success = &success
		}
	}

	return criteria
}

func writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		http.Error(w, err.Error(), 400)

	case IsNotFound(err):
		http.Error(w, err.Error(), 404)

	default:
		http.Error(w, "Failed to dispatch", 500)
	}
}

func writeJson(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to convert to json", 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
