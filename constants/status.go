package constants

// JobStatus is the canonical status for rows in extract_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusTextOK    JobStatus = "TEXT_OK"   // stage 1 completed (text extracted)
	JobStatusExtracted JobStatus = "EXTRACTED" // stage 2 completed (fields extracted)
	JobStatusFailed    JobStatus = "FAILED"
)
