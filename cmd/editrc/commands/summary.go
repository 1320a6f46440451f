package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/walteh/editrc/pkg/operation"
	"github.com/walteh/editrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var summaryOrder = []status.FileStatus{
	status.StatusCreated,
	status.StatusModified,
	status.StatusUnchanged,
	status.StatusSkipped,
	status.StatusFailed,
}

// writeFiles prints one line per edited file with its rolled up status
func writeFiles(w io.Writer, base string, files []status.FileInfo) {
	for _, info := range files {
		info.Path = status.RelPath(base, info.Path)
		fmt.Fprintln(w, status.FormatFileLine(info))
	}
}

// writeSummary renders per-status counts of a plan run as a table
func writeSummary(w io.Writer, report *operation.Report) error {
	counts := report.Counts()

	data := pterm.TableData{{"status", "files"}}
	for _, s := range summaryOrder {
		if counts[s] == 0 {
			continue
		}
		data = append(data, []string{s.String(), fmt.Sprint(counts[s])})
	}
	data = append(data, []string{"total", fmt.Sprint(len(report.Outcomes))})

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}
