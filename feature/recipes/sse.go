package recipes

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"recipe-pipeline/feature/recipes/generate"
)

// writeEvent writes one server-sent event: a named type and a JSON data line.
func writeEvent(w io.Writer, ev generate.Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Type, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}

// pump copies events to w, flushing after each one. A failed write means the
// client is gone; cancel is called so the batch schedules no more work.
func pump(w *bufio.Writer, events <-chan generate.Event, cancel context.CancelFunc) error {
	defer cancel()
	for ev := range events {
		if err := writeEvent(w, ev); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
