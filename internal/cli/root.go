package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/studioflow/internal/app"
)

// NewRootCmd creates the top-level "studioctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studioctl",
		Short:         "Operate studioflow automations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	out := bindOutput(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(a, out),
		newScanCmd(a, out),
		newNextDeadlineCmd(a, out),
		newCalendarCmd(a, out),
		newAuditCmd(a, out),
		newMigrateCmd(a),
	)

	return root
}
