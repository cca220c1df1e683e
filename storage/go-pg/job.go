package gopg

import (
	"github.com/go-pg/pg"

	dispatch "github.com/interactive-solutions/go-dispatch"
)

func NewJobRepository(db *pg.DB) dispatch.JobRepository {
	return &jobRepository{
		db: db,
	}
}

type jobWrapper struct {
	TableName struct{} `sql:"scheduled_jobs,alias:sj" json:"-"`

	*dispatch.ScheduledJob
}

type jobRepository struct {
	db *pg.DB
}

func (repo *jobRepository) Create(job *dispatch.ScheduledJob) error {
	return repo.db.Insert(&jobWrapper{ScheduledJob: job})
}

func (repo *jobRepository) Update(job *dispatch.ScheduledJob) error {
	return repo.db.Update(&jobWrapper{ScheduledJob: job})
}

func (repo *jobRepository) GetPending() ([]dispatch.ScheduledJob, error) {
	var jobs []dispatch.ScheduledJob
	var wrappedJobs []jobWrapper

	if err := repo.db.Model(&wrappedJobs).Where("sent_at is null").Select(); err != nil {
		if err == pg.ErrNoRows {
			return jobs, nil
		}

		return jobs, err
	}

	for _, job := range wrappedJobs {
		jobs = append(jobs, *job.ScheduledJob)
	}

	return jobs, nil
}
