package generate

import (
	"fmt"

	"recipe-pipeline/feature/recipes/models"
)

// EventType names a progress event on the stream.
type EventType string

const (
	EventInit   EventType = "init"
	EventRecipe EventType = "recipe"
	EventDone   EventType = "done"
	EventError  EventType = "error"
)

// Event is one message of a generation stream. Data is one of the payload
// types below and is what gets serialised.
type Event struct {
	Type EventType
	Data any
}

// InitPayload opens a stream.
type InitPayload struct {
	BatchID    string `json:"batchId"`
	Progress   int    `json:"progress"`
	Total      int    `json:"total"`
	ToGenerate int    `json:"toGenerate"`
	Skipped    int    `json:"skipped"`
	Message    string `json:"message"`
}

// RecipePayload reports the outcome of one name. Index is the position of
// the name in the parsed input; events of one group may arrive in any order.
type RecipePayload struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	Status       models.Status `json:"status"`
	Progress     int           `json:"progress"`
	Total        int           `json:"total"`
	Message      string        `json:"message,omitempty"`
	ID           string        `json:"id,omitempty"`
	ExistingID   string        `json:"existingId,omitempty"`
	ExistingName string        `json:"existingName,omitempty"`
	OverlapScore float64       `json:"overlapScore,omitempty"`
}

// DonePayload closes a stream.
type DonePayload struct {
	BatchID   string `json:"batchId"`
	Progress  int    `json:"progress"`
	Total     int    `json:"total"`
	Success   int    `json:"success"`
	Merged    int    `json:"merged"`
	Skipped   int    `json:"skipped"`
	Errors    int    `json:"error"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Message   string `json:"message"`
}

// Count folds one recipe outcome into the tallies.
func (d *DonePayload) Count(p RecipePayload) {
	d.Progress++
	switch p.Status {
	case models.StatusSuccess:
		d.Success++
	case models.StatusMerged:
		d.Merged++
	case models.StatusSkipped:
		d.Skipped++
	default:
		d.Errors++
	}
}

// Summary renders the tallies as a sentence.
func (d DonePayload) Summary() string {
	msg := fmt.Sprintf("Created %d, merged %d, skipped %d existing, %d failed out of %d recipe(s).",
		d.Success, d.Merged, d.Skipped, d.Errors, d.Total)
	if d.Cancelled {
		msg = fmt.Sprintf("Stopped after %d of %d recipe(s). ", d.Progress, d.Total) + msg
	}
	return msg
}

// ErrorPayload reports a failure that ends the stream early.
type ErrorPayload struct {
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
}
