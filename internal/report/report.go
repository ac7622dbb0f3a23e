// Package report renders completed check runs for the CLI: a plain-text
// table for terminals and indented JSON for pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/authlens/authlens-core/internal/history"
)

// Format names accepted by the CLI --format flag.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Write renders the run in the named format.
func Write(w io.Writer, format string, run *history.Run) error {
	switch format {
	case FormatTable:
		return WriteTable(w, run)
	case FormatJSON:
		return WriteJSON(w, run)
	default:
		return fmt.Errorf("unknown report format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
}

// WriteTable renders the run as an aligned text table with a summary line.
func WriteTable(w io.Writer, run *history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PROFILE\tLABEL\tSTATUS\tAUTHORIZED\tDISPLAY NAME\tDURATION\tERROR")
	for _, res := range run.Results {
		status := "failed"
		authorized := "-"
		displayName := "-"
		if res.Success {
			status = "ok"
			authorized = "no"
			if res.Details != nil {
				if res.Details.Authorized {
					authorized = "yes"
				}
				if res.Details.DisplayName != nil {
					displayName = *res.Details.DisplayName
				}
			}
		}

		label := res.Label
		if label == "" {
			label = "-"
		}
		errMsg := res.Error
		if errMsg == "" {
			errMsg = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			res.ProfileID, label, status, authorized, displayName,
			res.Duration().Round(time.Millisecond), errMsg)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing report table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n%s: %d profiles, %d succeeded, %d authorized, %s\n",
		run.Service, run.Profiles, run.Succeeded, run.Authorized,
		run.Duration().Round(time.Millisecond))
	return err
}

// WriteJSON renders the run as indented JSON.
func WriteJSON(w io.Writer, run *history.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("writing report json: %w", err)
	}
	return nil
}
