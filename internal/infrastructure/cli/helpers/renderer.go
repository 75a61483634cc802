package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/prompty-go/internal/domain"
)

// RenderReport prints a batch in a plain, copy-friendly format. Failed
// items are printed one line each.
func RenderReport(out io.Writer, report domain.BatchReport) {
	total := len(report.Results)
	for i, result := range report.Results {
		if total > 1 {
			fmt.Fprintf(out, "[%d/%d] ", i+1, total)
		}
		if result.Failed() {
			fmt.Fprintf(out, "Error: %s\n", result.Error)
			continue
		}
		if result.Cached {
			fmt.Fprint(out, "(cached) ")
		}
		fmt.Fprintln(out, result.Prompt)
		if i < total-1 {
			fmt.Fprintln(out)
		}
	}
	if report.BatchID != "" {
		fmt.Fprintf(out, "\nBatch %s: %d of %d succeeded using %s\n",
			report.BatchID, len(report.Succeeded()), total, report.Model.Name)
	}
}

// RenderJSON writes v as indented JSON.
func RenderJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderHistory prints entries one per line with a relative timestamp.
func RenderHistory(out io.Writer, entries []domain.HistoryEntry, now time.Time) {
	for _, entry := range entries {
		when := humanize.RelTime(entry.Timestamp, now, "ago", "from now")
		batch := ""
		if entry.InBatch() {
			batch = " batch=" + shortID(entry.BatchID)
		}
		fmt.Fprintf(out, "%s | %s | %s%s\n  %s\n",
			entry.ID, when, entry.ModelUsed, batch, oneLine(entry.Prompt))
	}
}

// ErrorMessage maps sentinel errors to user-facing text.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoResults):
		return "Failed to generate any prompts. Please try again."
	default:
		return err.Error()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
