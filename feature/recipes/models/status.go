package models

// Status is the outcome of one input row or one generated name.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusNotFound  Status = "not_found"
	StatusNoChanges Status = "no_changes"
	StatusError     Status = "error"
	StatusSkipped   Status = "skipped"
	StatusMerged    Status = "merged"
)
