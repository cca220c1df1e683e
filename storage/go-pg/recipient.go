package gopg

import (
	"github.com/go-pg/pg"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

func NewRecipientStore(db *pg.DB) dispatch.RecipientStore {
	return &recipientStore{
		db: db,
	}
}

type contactWrapper struct {
	TableName struct{} `sql:"contacts,alias:c" json:"-"`

	*dispatch.Contact
}

type vendorWrapper struct {
	TableName struct{} `sql:"vendors,alias:v" json:"-"`

	*dispatch.Vendor
}

type recipientStore struct {
	db *pg.DB
}

func (store *recipientStore) FindContact(id string) (dispatch.Contact, error) {
	wrapped := &contactWrapper{
		Contact: &dispatch.Contact{},
	}

	if err := store.db.Model(wrapped).Where("id = ?", id).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.Contact, dispatch.ContactNotFoundErr
		}

		return *wrapped.Contact, err
	}

	return *wrapped.Contact, nil
}

func (store *recipientStore) FindVendor(id string) (dispatch.Vendor, error) {
	wrapped := &vendorWrapper{
		Vendor: &dispatch.Vendor{},
	}

	if err := store.db.Model(wrapped).Where("id = ?", id).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.Vendor, dispatch.VendorNotFoundErr
		}

		return *wrapped.Vendor, err
	}

	return *wrapped.Vendor, nil
}

func (store *recipientStore) FindContactByEmail(email string) (dispatch.Contact, error) {
	wrapped := &contactWrapper{
		Contact: &dispatch.Contact{},
	}

	if err := store.db.Model(wrapped).Where("LOWER(email) = LOWER(?)", email).Limit(1).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.Contact, dispatch.ContactNotFoundErr
		}

		return *wrapped.Contact, err
	}

	return *wrapped.Contact, nil
}
