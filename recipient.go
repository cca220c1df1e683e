package dispatch

import "time"

type RecipientKind string

const (
	RecipientContact RecipientKind = "contact"
	RecipientVendor  RecipientKind = "vendor"
)

// Contact is the CRM's person record, read through the RecipientStore.
type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Vendor is the CRM's supplier record. Email and phone are both optional.
type Vendor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	ServiceCategory string `json:"serviceCategory"`
}

// AddressableRecipient is the neutral shape every dispatch works against,
// built fresh on each resolve so it always reflects the current store row.
type AddressableRecipient struct {
	ID          string
	Kind        RecipientKind
	DisplayName string
	Email       string
	Phone       string

	// Extra placeholder-able attributes, e.g. FirstName/LastName for a
	// contact or VendorType for a vendor.
	Attributes map[string]string
}

// Placeholders returns the substitution map contributed by the recipient.
func (r AddressableRecipient) Placeholders() map[string]string {
	params := map[string]string{
		"Name":  r.DisplayName,
		"Email": r.Email,
		"Phone": r.Phone,
	}

	for key, value := range r.Attributes {
		params[key] = value
	}

	return params
}

// RequireEmail rejects the recipient for email delivery when no address is
// on file. Runs before any provider call.
func (r AddressableRecipient) RequireEmail() error {
	if r.Email == "" {
		return NewValidationError("recipient %s has no email address", r.ID)
	}

	return nil
}

// RequirePhone is the SMS counterpart of RequireEmail.
func (r AddressableRecipient) RequirePhone() error {
	if r.Phone == "" {
		return NewValidationError("recipient %s has no phone number", r.ID)
	}

	return nil
}

func (r AddressableRecipient) contactID() string {
	if r.Kind == RecipientContact {
		return r.ID
	}

	return ""
}

func (r AddressableRecipient) vendorID() string {
	if r.Kind == RecipientVendor {
		return r.ID
	}

	return ""
}

// Event carries the context placeholders for event-aware dispatches.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

func (e Event) Placeholders() map[string]string {
	return map[string]string{
		"EventName":        e.Name,
		"EventDescription": e.Description,
		"EventDate":        e.Date.Format("Monday, January 2, 2006 at 3:04 PM"),
		"EventLocation":    e.Location,
	}
}

// Resolver turns a (kind, id) reference into an AddressableRecipient.
type Resolver struct {
	store RecipientStore
}

func NewResolver(store RecipientStore) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Resolve(kind RecipientKind, id string) (AddressableRecipient, error) {
	switch kind {
	case RecipientContact:
		contact, err := r.store.FindContact(id)
		if err != nil {
			return AddressableRecipient{}, err
		}

		return AddressableRecipient{
			ID:          contact.ID,
			Kind:        RecipientContact,
			DisplayName: contact.FirstName + " " + contact.LastName,
			Email:       contact.Email,
			Phone:       contact.PhoneNumber,
			Attributes: map[string]string{
				"FirstName": contact.FirstName,
				"LastName":  contact.LastName,
			},
		}, nil

	case RecipientVendor:
		vendor, err := r.store.FindVendor(id)
		if err != nil {
			return AddressableRecipient{}, err
		}

		return AddressableRecipient{
			ID:          vendor.ID,
			Kind:        RecipientVendor,
			DisplayName: vendor.Name,
			Email:       vendor.Email,
			Phone:       vendor.PhoneNumber,
			Attributes: map[string]string{
				"VendorType": vendor.ServiceCategory,
			},
		}, nil

	default:
		return AddressableRecipient{}, NewValidationError("unknown recipient kind %q", kind)
	}
}
