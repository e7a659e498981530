package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/common"
	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/types"
	"github.com/ZanzyTHEbar/lockedme/lockedme/shell"
	"github.com/ZanzyTHEbar/lockedme/lockedme/validation"

	"github.com/spf13/cobra"
)

func newListCmd(app *application) *cobra.Command {
	var unsorted, count bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files in the directory",
		Long: `Lists the regular files directly inside the directory in ascending byte
order. Subdirectories are never shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if count {
				n, err := app.store.Count()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, n)
				return nil
			}

			empty, err := app.store.IsEmpty()
			if err != nil {
				return err
			}
			if empty {
				fmt.Fprintf(cmd.ErrOrStderr(), "No files found in %s\n", app.store.Dir())
				return nil
			}

			list := app.store.ListSorted
			if unsorted {
				list = app.store.ListNames
			}
			names, err := list()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unsorted, "unsorted", false, "keep filesystem enumeration order")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of files")
	return cmd
}

func newAddCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Create empty files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, name := range args {
				if err := app.validator.Check(name); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "suggestion: %s\n", app.validator.Suggest(name))
					errs = append(errs, err)
					continue
				}

				outcome, err := app.store.Create(name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				report(cmd, name, outcome)
				if outcome == types.OutcomeAlreadyExists {
					errs = append(errs, common.NewOpError("create", name, common.KindAlreadyExists, nil))
				}
			}
			return errors.Join(errs...)
		},
	}
}

func newDeleteCmd(app *application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete files (case-sensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := shell.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())

			var errs []error
			for _, name := range args {
				// Existing files are not subject to the extension allow-list.
				if err := app.validator.CheckRules(name); err != nil {
					errs = append(errs, err)
					continue
				}

				if !yes {
					ok, err := term.Confirm(fmt.Sprintf("Delete '%s'?", name))
					if err != nil {
						return fmt.Errorf("failed to read confirmation: %w", err)
					}
					if !ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped\n", name)
						continue
					}
				}

				outcome, err := app.store.Delete(name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				report(cmd, name, outcome)
				switch outcome {
				case types.OutcomeNotFound:
					errs = append(errs, common.NewOpError("delete", name, common.KindNotFound, nil))
				case types.OutcomeNotAFile:
					errs = append(errs, common.NewOpError("delete", name, common.KindNotAFile, nil))
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")
	return cmd
}

func newSearchCmd(app *application) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Show details of a file (case-sensitive exact match)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			entry, found, err := app.store.Find(name)
			if err != nil {
				return err
			}
			if !found {
				return common.NewOpError("search", name, common.KindNotFound, nil)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entry)
			}

			fmt.Fprintf(out, "Name: %s\n", entry.Name)
			fmt.Fprintf(out, "Path: %s\n", entry.Path)
			fmt.Fprintf(out, "Size: %s\n", entry.FormattedSize())
			fmt.Fprintf(out, "Last Modified: %s\n", entry.FormattedModTime())
			fmt.Fprintf(out, "Readable: %t\n", entry.Readable)
			fmt.Fprintf(out, "Writable: %t\n", entry.Writable)
			fmt.Fprintf(out, "Executable: %t\n", entry.Executable)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry as JSON")
	return cmd
}

func newFindCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "find PATTERN",
		Short: "List files whose names contain PATTERN, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := app.store.FindByPattern(args[0])
			if err != nil {
				return err
			}
			for _, name := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newSuggestCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest NAME",
		Short: "Check a file name and print a usable alternative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out := cmd.OutOrStdout()

			if err := app.validator.Check(name); err != nil {
				fmt.Fprintf(out, "invalid: %s\n", validation.Reason(err))
				fmt.Fprintf(out, "suggestion: %s\n", app.validator.Suggest(name))
				return nil
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
}

func report(cmd *cobra.Command, name string, outcome types.Outcome) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, outcome)
}
