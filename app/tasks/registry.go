package tasks

import (
	"sync"
	"time"

	"github.com/V1K1NGM4N/file-converter-buddy/app/export"
)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// ExportJob is the externally visible state of one bulk export.
type ExportJob struct {
	ID          string         `json:"id"`
	Status      JobStatus      `json:"status"`
	ItemCount   int            `json:"item_count"`
	Result      *export.Result `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// JobRegistry tracks export jobs in memory for status queries. Jobs are
// per-process state only; nothing survives a restart.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*ExportJob
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]*ExportJob)}
}

func (r *JobRegistry) Add(id string, itemCount int) *ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := &ExportJob{
		ID:        id,
		Status:    JobQueued,
		ItemCount: itemCount,
		CreatedAt: time.Now().UTC(),
	}
	r.jobs[id] = job

	return job
}

// Get returns a copy of the job state, so callers never observe a job
// mid-update.
func (r *JobRegistry) Get(id string) (ExportJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return ExportJob{}, false
	}

	return *job, true
}

func (r *JobRegistry) SetRunning(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		job.Status = JobRunning
	}
}

func (r *JobRegistry) SetCompleted(id string, result *export.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		now := time.Now().UTC()
		job.Status = JobCompleted
		job.Result = result
		job.CompletedAt = &now
	}
}

func (r *JobRegistry) SetFailed(id string, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		now := time.Now().UTC()
		job.Status = JobFailed
		job.Error = errMsg
		job.CompletedAt = &now
	}
}

// Stats returns job counts by status.
func (r *JobRegistry) Stats() map[JobStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[JobStatus]int, 4)
	for _, job := range r.jobs {
		stats[job.Status]++
	}

	return stats
}
