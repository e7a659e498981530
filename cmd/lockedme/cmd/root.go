package cmd

import (
	internal "github.com/ZanzyTHEbar/lockedme/lockedme"
	"github.com/ZanzyTHEbar/lockedme/lockedme/shell"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd(afero.NewOsFs()).Execute()
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	app := newApplication(fsys)

	rootCmd := &cobra.Command{
		Use:   internal.DefaultAppName,
		Short: "Manage the files of a single directory",
		Long: `LockedMe lists, adds, deletes and searches for the regular files directly
inside one directory. Without a subcommand it starts an interactive menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			term := shell.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			sh := shell.New(app.store, app.validator, term, app.logger, app.cfg.MaxAttempts)
			return sh.Run(cmd.Context())
		},
	}

	cobra.CheckErr(app.bindFlags(rootCmd))

	rootCmd.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newDeleteCmd(app),
		newSearchCmd(app),
		newFindCmd(app),
		newSuggestCmd(app),
		newWatchCmd(app),
		newVersionCmd(),
	)

	return rootCmd
}
