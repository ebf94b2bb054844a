package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/chamabot/internal/auth"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/report"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample members and their payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := seed(cmd.Context(), e.store, e.cfg.ContributionAmount, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %d members\n", res.Members)
			fmt.Fprintf(out, "Created %d payments\n", res.Payments)
			fmt.Fprintf(out, "Unpaid members: %d\n", res.Unpaid)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d already registered\n", res.Skipped)
			}
			return nil
		},
	}
}

func remindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a reminder to every unpaid member now",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			var gateway messaging.Gateway
			if e.cfg.Twilio.Enabled() && !dryRun {
				gateway = messaging.NewTwilioGateway(messaging.TwilioConfig{
					AccountSID: e.cfg.Twilio.AccountSID,
					AuthToken:  e.cfg.Twilio.AuthToken,
					From:       e.cfg.Twilio.WhatsAppNumber,
					Timeout:    e.cfg.Reminder.SendTimeout,
				}, e.logger)
			} else {
				gateway = messaging.NewLogGateway(e.logger)
			}

			result, next, err := runReminders(cmd.Context(), e.cfg.Reminder, e.store, gateway, e.logger, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sent %d of %d reminders (run %s)\n", result.Sent, result.TotalUnpaid, result.RunID)
			for _, f := range result.Failures {
				fmt.Fprintf(out, "  FAILED %s (%s): %s\n", f.Name, f.PhoneNumber, f.Error)
			}
			fmt.Fprintf(out, "Next scheduled sweep: %s\n", next.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Log messages instead of sending them")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the chama report as PDF or HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			write := report.WritePDF
			switch format {
			case "pdf":
			case "html":
				write = report.WriteHTML
			default:
				return fmt.Errorf("unknown format %q (want pdf or html)", format)
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			r, err := report.Build(cmd.Context(), e.store, e.cfg.ContributionAmount, report.DefaultRecentLimit, time.Now())
			if err != nil {
				return err
			}
			if output == "" {
				output = r.Filename(format)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := write(f, r); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "pdf", "Output format (pdf, html)")
	cmd.Flags().StringP("output", "o", "", "Output file (default chama_report_YYYYMMDD.<format>)")
	return cmd
}

func resetCycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-cycle",
		Short: "Start a new contribution cycle: mark every member unpaid",
		Long: `Mark every member unpaid so reminders go out again.
Payment history is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.store.ResetCycle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d members to unpaid\n", n)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}

			hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
