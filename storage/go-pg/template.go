package gopg

import (
	"github.com/go-pg/pg"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

func NewTemplateStore(db *pg.DB) dispatch.TemplateStore {
	return &templateStore{
		db: db,
	}
}

type templateWrapper struct {
	TableName struct{} `sql:"message_templates,alias:mt" json:"-"`

	*dispatch.Template
}

type templateStore struct {
	db *pg.DB
}

func (store *templateStore) FindTemplate(id string) (dispatch.Template, error) {
	wrapped := &templateWrapper{
		Template: &dispatch.Template{},
	}

	if err := store.db.Model(wrapped).Where("id = ?", id).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.Template, dispatch.TemplateNotFoundErr
		}

		return *wrapped.Template, err
	}

	return *wrapped.Template, nil
}
