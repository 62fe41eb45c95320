package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/studioflow/internal/app"
	"github.com/MrJamesThe3rd/studioflow/internal/automation"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
)

var ErrAuditMismatch = errors.New("audit trail failed verification")

func newRunCmd(a *app.App, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Revert moved deadlines, flag overdue projects and arm the next check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.Automations.RunAutomations(cmd.Context())

			err := out.render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
				printSteps(tw, res.Steps)
				printScan(tw, "reverted", res.Reverted)
				printScan(tw, "overdue", res.Overdue)

				if res.Schedule != nil {
					fmt.Fprintf(tw, "next check\t%s\t(in %s)\n", res.Schedule.FiresAt.Format(time.RFC3339), res.Schedule.Delay.Round(time.Second))
				}
			})
			if err != nil {
				return err
			}

			if !res.Success {
				return errors.New("one or more automation steps failed")
			}

			return nil
		},
	}
}

func newScanCmd(a *app.App, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single deadline scan",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "overdue",
			Short: "Flag development projects whose end date has passed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := a.Scanner.CheckOverdueProjects(cmd.Context())
				if err != nil {
					return err
				}

				return out.render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
					printScan(tw, "overdue", res)
				})
			},
		},
		&cobra.Command{
			Use:   "revert",
			Short: "Move overdue projects with a future end date back to production",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := a.Scanner.CheckProjectsWithUpdatedDates(cmd.Context())
				if err != nil {
					return err
				}

				return out.render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
					printScan(tw, "reverted", res)
				})
			},
		},
	)

	return cmd
}

func newNextDeadlineCmd(a *app.App, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "next-deadline",
		Short: "Show the nearest deadline among projects in development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.Scanner.FindNextDeadline(cmd.Context())
			if err != nil {
				return err
			}

			return out.render(cmd.OutOrStdout(), d, func(tw *tabwriter.Writer) {
				if d == nil {
					fmt.Fprintln(tw, "no upcoming deadlines")
					return
				}

				fmt.Fprintf(tw, "project\t%s\t%s\n", d.ProjectName, d.ProjectID)
				fmt.Fprintf(tw, "end date\t%s\n", d.EndDate.Format(time.DateOnly))
				fmt.Fprintf(tw, "overdue at\t%s\n", d.CheckAt.Format(time.RFC3339))
			})
		},
	}
}

func newCalendarCmd(a *app.App, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Maintain calendar events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Remove events of paid documents, paid expenses and deleted expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.Automations.ReconcileCalendar(cmd.Context())

			err := out.render(cmd.OutOrStdout(), res, func(tw *tabwriter.Writer) {
				printSteps(tw, res.Steps)
				fmt.Fprintf(tw, "removed\t%d paid document, %d paid expense, %d orphan expense events\n",
					res.PaidDocumentEvents, res.PaidExpenseEvents, res.OrphanExpenseEvents)
			})
			if err != nil {
				return err
			}

			if !res.Success {
				return errors.New("one or more cleanup steps failed")
			}

			return nil
		},
	})

	return cmd
}

func newAuditCmd(a *app.App, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect financial document audit trails",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "history <document-id>",
			Short: "List the audit entries of a document, oldest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid document id %q: %w", args[0], err)
				}

				entries, err := a.Documents.GetDocumentAuditHistory(cmd.Context(), id)
				if err != nil {
					return err
				}

				return out.render(cmd.OutOrStdout(), entries, func(tw *tabwriter.Writer) {
					fmt.Fprintln(tw, "TIME\tACTION\tUSER\tREASON")

					for _, e := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.Action, e.UserID, e.Reason)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "verify <document-id>",
			Short: "Recompute the checksums of a document's audit trail",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid document id %q: %w", args[0], err)
				}

				ok, err := a.Documents.VerifyAuditIntegrity(cmd.Context(), id)
				if err != nil {
					return err
				}

				err = out.render(cmd.OutOrStdout(), map[string]any{"document_id": id, "valid": ok}, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "%s\tvalid=%t\n", id, ok)
				})
				if err != nil {
					return err
				}

				if !ok {
					return fmt.Errorf("%w: %s", ErrAuditMismatch, id)
				}

				return nil
			},
		},
	)

	return cmd
}

func newMigrateCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(cmd.Context(), a.DB); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.DB.Driver())

			return nil
		},
	}
}

func printSteps(tw *tabwriter.Writer, steps []automation.StepResult) {
	for _, s := range steps {
		state := "ok"
		if !s.Success {
			state = "FAILED: " + s.Error
		}

		fmt.Fprintf(tw, "%s\t%s\n", s.Name, state)
	}
}

func printScan(tw *tabwriter.Writer, label string, res *deadline.ScanResult) {
	if res == nil {
		return
	}

	fmt.Fprintf(tw, "%s\t%d project(s)\n", label, res.UpdatedCount)

	for _, p := range res.Projects {
		fmt.Fprintf(tw, "  %s\t%s -> %s\tend %s\n", p.Name, p.From, p.To, p.EndDate.Format(time.DateOnly))
	}

	for _, s := range res.Skipped {
		fmt.Fprintf(tw, "  %s\tskipped\t%s\n", s.Name, s.Reason)
	}
}
