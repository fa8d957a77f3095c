package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formbind/formbind/internal/compiler"
)

// ValidationResult holds form-definition validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Forms  []string                   `json:"forms,omitempty"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <forms-dir>",
		Short: "Validate CUE form definitions",
		Long: `Validate CUE form definitions without binding any input.

Compiles every form under the top-level "form" struct and checks the
result against schema rules (field names, validator declarations,
wrapper shapes). Faster than a full check for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, formsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadForms(formsDir, LoadModeCollectAll)

	// Hard load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, formsDir)

	var validationErrors []compiler.ValidationError

	// Compile errors become validation errors
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
			continue
		}
		validationErrors = append(validationErrors, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		})
	}

	result := ValidationResult{Valid: true}
	for i := range loadResult.Forms {
		fs := &loadResult.Forms[i]
		formatter.VerboseLog("Validating form: %s", fs.Name)
		result.Forms = append(result.Forms, fs.Name)
		validationErrors = append(validationErrors, compiler.ValidateSpec(fs)...)
	}
	result.Errors = validationErrors
	result.Valid = len(validationErrors) == 0

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "OK: %d form(s) valid\n", len(result.Forms))
		} else {
			fmt.Fprintf(formatter.Writer, "FAIL: %d error(s)\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "form definitions are invalid")
	}
	return nil
}
