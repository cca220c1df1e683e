package gopg

import (
	"github.com/go-pg/pg"
	"github.com/go-pg/pg/types"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

func NewCommunicationLogRepository(db *pg.DB) dispatch.CommunicationLogRepository {
	return &communicationLogRepository{
		db: db,
	}
}

type logWrapper struct {
	TableName struct{} `sql:"communication_logs,alias:cl" json:"-"`

	*dispatch.CommunicationLogEntry
}

type communicationLogRepository struct {
	db *pg.DB
}

func (repo *communicationLogRepository) Append(entry *dispatch.CommunicationLogEntry) error {
	return repo.db.Insert(&logWrapper{CommunicationLogEntry: entry})
}

func (repo *communicationLogRepository) Matching(criteria dispatch.LogCriteria) ([]dispatch.CommunicationLogEntry, int, error) {
	var wrapped []logWrapper
	entries := make([]dispatch.CommunicationLogEntry, 0)

	builder := repo.db.Model(&wrapped).
		Offset(criteria.Offset).
		Limit(criteria.Limit)

	if criteria.To != "" {
		builder.Where(`LOWER("to") = LOWER(?)`, criteria.To)
	}

	if criteria.TemplateID != "" {
		builder.Where("template_id = ?", criteria.TemplateID)
	}

	if criteria.EventID != "" {
		builder.Where("event_id = ?", criteria.EventID)
	}

	if criteria.ContactID != "" {
		builder.Where("contact_id = ?", criteria.ContactID)
	}

	if criteria.VendorID != "" {
		builder.Where("vendor_id = ?", criteria.VendorID)
	}

	if criteria.Success != nil {
		builder.Where("is_success = ?", *criteria.Success)
	}

	if !criteria.SentAfter.IsZero() {
		builder.Where("sent_at >= ?", criteria.SentAfter)
	}

	if !criteria.SentBefore.IsZero() {
		builder.Where("sent_at <= ?", criteria.SentBefore)
	}

	for col, dir := range criteria.Sorting {
		builder.OrderExpr("%s %s", types.F(col), types.Q(dir))
	}

	count, err := builder.SelectAndCount()
	if err != nil && err != pg.ErrNoRows {
		return entries, 0, err
	}

	for _, entry := range wrapped {
		entries = append(entries, *entry.CommunicationLogEntry)
	}

	return entries, count, nil
}
