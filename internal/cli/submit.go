package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/formbind/formbind/internal/store"
)

// SubmitResult holds a persisted submission outcome.
type SubmitResult struct {
	Submission string       `json:"submission"`
	Check      *CheckResult `json:"check"`
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "submit <forms-dir> <form-name> <input-file>",
		Short: "Check an input payload and record it in the submission log",
		Long: `Run the same pipeline as check, then persist the reconciled field
values and validation verdict to the SQLite submission log. Invalid
submissions are recorded too; the exit code still reports validity.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(rootOpts, args[0], args[1], args[2], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "submissions.db", "path to the submission log database")

	return cmd
}

func runSubmit(opts *RootOptions, formsDir, formName, inputPath, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, f, err := bindAndValidate(formatter, formsDir, formName, inputPath)
	if err != nil {
		return err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening submission log", err)
	}
	defer db.Close()

	sub := store.Submission{
		ID:          store.UUIDv7Generator{}.Generate(),
		FormName:    formName,
		Fields:      f.Store().ExportFlat(),
		Valid:       result.Valid,
		Errors:      result.Errors,
		SubmittedAt: time.Now().UTC(),
	}
	if err := db.WriteSubmission(cmd.Context(), sub); err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "recording submission", err)
	}

	formatter.VerboseLog("Recorded submission %s in %s", sub.ID, dbPath)

	if formatter.Format == "json" {
		if err := formatter.Success(SubmitResult{Submission: sub.ID, Check: result}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "recorded submission %s\n", sub.ID)
		if err := writeCheckResult(formatter, result); err != nil {
			return err
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
