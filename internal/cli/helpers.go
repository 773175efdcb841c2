package cli

import (
	"strings"
	"time"

	"github.com/membry/mpm/internal/observability"
)

// progressBar renders a fixed-width text progress bar for a 0-100 value.
func progressBar(progress, width int) string {
	if width <= 0 {
		width = 20
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// truncate shortens s to at most max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// logEvent journals a workflow event if the event log is configured.
// Journaling failures are non-fatal.
func logEvent(eventType, projectID, message string, data map[string]any) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Project: projectID,
		Message: message,
		Data:    data,
	})
}
