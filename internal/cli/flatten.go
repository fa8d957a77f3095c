package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/formbind/formbind/internal/field"
)

// FlattenResult holds the flat projection of an input payload.
type FlattenResult struct {
	Delimiter string         `json:"delimiter"`
	Fields    map[string]any `json:"fields"`
	Resolved  *ResolvedValue `json:"resolved,omitempty"`
}

// ResolvedValue reports one delimiter-addressed lookup.
type ResolvedValue struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Present bool   `json:"present"`
}

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(rootOpts *RootOptions) *cobra.Command {
	var delimiter string
	var resolve string

	cmd := &cobra.Command{
		Use:   "flatten <input-file>",
		Short: "Show the canonical flat projection of a nested payload",
		Long: `Flatten a nested JSON/YAML payload into delimiter-joined field names,
the addressing scheme the binding pipeline stores data under. With
--resolve, additionally look one name up through the nested projection.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(rootOpts, args[0], delimiter, resolve, cmd)
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", field.DefaultDelimiter, "path delimiter for flat field names")
	cmd.Flags().StringVar(&resolve, "resolve", "", "also resolve this delimiter-addressed name")

	return cmd
}

func runFlatten(opts *RootOptions, inputPath, delimiter, resolve string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	nested, err := LoadInput(inputPath)
	if err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading input", err)
	}

	s := field.New(field.Options{Delimiter: delimiter})
	if err := s.ImportNested(nested); err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "importing input", err)
	}

	result := FlattenResult{
		Delimiter: s.Delimiter(),
		Fields:    make(map[string]any, s.Len()),
	}
	for name, v := range s.ExportFlat() {
		result.Fields[name] = field.Native(v)
	}

	if resolve != "" {
		v, ok := s.Resolve(resolve)
		rv := &ResolvedValue{Name: resolve, Present: ok}
		if ok {
			rv.Value = field.Native(v)
		}
		result.Resolved = rv
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(formatter.Writer, "%s = %v\n", name, result.Fields[name])
	}
	if result.Resolved != nil {
		if result.Resolved.Present {
			fmt.Fprintf(formatter.Writer, "resolved %s = %v\n", result.Resolved.Name, result.Resolved.Value)
		} else {
			fmt.Fprintf(formatter.Writer, "resolved %s: absent\n", result.Resolved.Name)
		}
	}
	return nil
}
