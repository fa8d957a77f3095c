package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/formbind/formbind/internal/form"
	"github.com/formbind/formbind/internal/translate"
)

// CheckResult holds the outcome of binding and validating one input
// payload against one form.
type CheckResult struct {
	Form     string              `json:"form"`
	Valid    bool                `json:"valid"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Messages map[string][]string `json:"messages,omitempty"`
	Values   map[string]any      `json:"values"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <forms-dir> <form-name> <input-file>",
		Short: "Bind an input payload to a form and validate it",
		Long: `Bind a nested JSON/YAML payload to the named form, reconcile wrapper
mappings, run every validator chain, and report the per-field error
codes and rendered messages.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, formsDir, formName, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, _, err := bindAndValidate(formatter, formsDir, formName, inputPath)
	if err != nil {
		return err
	}

	if err := writeCheckResult(formatter, result); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// bindAndValidate runs the shared load/bind/validate pipeline used by
// check and submit.
func bindAndValidate(formatter *OutputFormatter, formsDir, formName, inputPath string) (*CheckResult, *form.Form, error) {
	loadResult, loadErrors := LoadForms(formsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return nil, nil, NewExitError(ExitCommandError, loadErr.Message)
		}
		formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return nil, nil, NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	fs := loadResult.Form(formName)
	if fs == nil {
		msg := fmt.Sprintf("form %q not defined in %s", formName, formsDir)
		formatter.Error(ErrCodeUnknownForm, msg, nil)
		return nil, nil, NewExitError(ExitCommandError, msg)
	}

	f, err := form.FromSpec(fs, form.Options{})
	if err != nil {
		formatter.Error(ErrCodeCompileFailed, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "assembling form", err)
	}

	nested, err := LoadInput(inputPath)
	if err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "loading input", err)
	}

	if err := f.Import(nested); err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "importing input", err)
	}

	if formatter.Verbose {
		// Reconciled flat store, for debugging wrapper mappings.
		spew.Fdump(formatter.GetErrWriter(), f.Store().ExportFlat())
	}

	valid := f.Validate()
	tr := translate.DefaultCatalog().For()

	return &CheckResult{
		Form:     formName,
		Valid:    valid,
		Errors:   prune(f.AllErrors()),
		Messages: prune(f.AllMessages(tr)),
		Values:   f.Values(),
	}, f, nil
}

func writeCheckResult(formatter *OutputFormatter, result *CheckResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "OK: form %q is valid\n", result.Form)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "FAIL: form %q has errors\n", result.Form)
	names := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for i, code := range result.Errors[name] {
			msg := code
			if msgs := result.Messages[name]; i < len(msgs) {
				msg = msgs[i]
			}
			fmt.Fprintf(formatter.Writer, "  %s: [%s] %s\n", name, code, msg)
		}
	}
	return nil
}

// prune drops fields with no errors so output only names failures.
func prune(m map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for k, v := range m {
		if len(v) > 0 {
			out[k] = v
		}
	}
	return out
}
