package bulk

import (
	"time"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/feature/recipes/models"
)

// Result is the outcome of one input record, at the same index as the input.
type Result struct {
	Row                int               `json:"row,omitempty"`
	UUID               *models.FlexID    `json:"uuid,omitempty"`
	ID                 string            `json:"_id,omitempty"`
	Status             models.Status     `json:"status"`
	Message            string            `json:"message,omitempty"`
	UpdateID           string            `json:"updateId,omitempty"`
	ChangedFields      []string          `json:"changedFields,omitempty"`
	ChangedFieldsCount int               `json:"changedFieldsCount,omitempty"`
	Changes            []changeset.Entry `json:"changes,omitempty"`
}

// Summary tallies a batch. Total is Success+Failed+NotFound+NoChanges.
type Summary struct {
	Total     int `json:"total"`
	Success   int `json:"success"`
	Failed    int `json:"failed"`
	NotFound  int `json:"notFound"`
	NoChanges int `json:"noChanges"`
}

// Add counts one result.
func (s *Summary) Add(status models.Status) {
	s.Total++
	switch status {
	case models.StatusSuccess:
		s.Success++
	case models.StatusNotFound:
		s.NotFound++
	case models.StatusNoChanges:
		s.NoChanges++
	default:
		s.Failed++
	}
}

// Report is the response of a bulk update.
type Report struct {
	BatchID    string    `json:"batchId"`
	Reason     string    `json:"reason,omitempty"`
	Source     string    `json:"source"`
	DryRun     bool      `json:"dryRun"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Summary    Summary   `json:"summary"`
	Results    []Result  `json:"results"`
}
