package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	appJobs "github.com/yigit/scholarpath/internal/app/jobs"
	"github.com/yigit/scholarpath/internal/bootstrap"
)

var sweepJSON bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the deadline reminder sweep once",
	Long: `Checks every saved scholarship with a personal deadline and sends the reminders that are due.
Safe to run while the API is up: duplicate reminders are prevented by the database, and when
Redis is configured the sweep skips if another process holds the lease.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mailer := bootstrap.NewMailer(current.cfg, current.logger)
		reminder, rdb := bootstrap.NewDeadlineReminder(cmd.Context(), current.cfg, current.repos, mailer, current.logger)
		if rdb != nil {
			defer rdb.Close()
		}

		result, err := reminder.RunSweep(cmd.Context())
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		if sweepJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		renderSweepResult(os.Stdout, result)
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "print the result as JSON")
}

func renderSweepResult(w io.Writer, r appJobs.SweepResult) {
	if r.LeaseHeld {
		fmt.Fprintln(w, "Another process is running the sweep; nothing done.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Scanned", "Notified", "Already Sent", "Out Of Window", "Failed", "Email Failed"})
	table.Append([]string{
		strconv.Itoa(r.Scanned),
		strconv.Itoa(r.Notified),
		strconv.Itoa(r.AlreadySent),
		strconv.Itoa(r.OutOfWindow),
		strconv.Itoa(r.Failed),
		strconv.Itoa(r.EmailFailed),
	})
	table.Render()
}
