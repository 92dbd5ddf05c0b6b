package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/actionsim/internal/apl"
	"github.com/roach88/actionsim/internal/profile"
	"github.com/roach88/actionsim/internal/sim"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Profile string            `json:"profile,omitempty"`
	Hash    string            `json:"hash,omitempty"`
	Entries int               `json:"entries,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a profile.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <profile.cue>",
		Short: "Validate a profile without running it",
		Long: `Validate an actor profile without running a simulation.

Checks the CUE schema, weapons, talents, glyphs, and the priority list,
then prints the profile hash used to identify stored runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "profile not found", err)
	}

	p, err := profile.LoadFile(path)
	if err != nil {
		return outputValidationErrors(formatter, []ValidationError{profileError(err)})
	}
	formatter.VerboseLog("Compiled profile %s", p.Name)

	// Building a runner compiles the priority list against a real actor.
	if _, err := sim.NewRunner(sim.Config{Profile: p, Iterations: 1}); err != nil {
		return outputValidationErrors(formatter, []ValidationError{runnerError(err)})
	}

	hash, err := p.Hash()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeProfile, "failed to hash profile", err)
	}

	result := ValidationResult{Valid: true, Profile: p.Name, Hash: hash, Entries: len(p.APL)}
	text := fmt.Sprintf("✓ Profile %s valid (%d priority entries, hash %s)", p.Name, len(p.APL), shortHash(hash))
	return formatter.Success(result, text)
}

// profileError converts a profile load error to a validation error.
func profileError(err error) ValidationError {
	var ce *profile.CompileError
	if errors.As(err, &ce) {
		ve := ValidationError{Field: ce.Field, Message: ce.Message, Code: ErrCodeProfile}
		if ce.Pos.IsValid() {
			ve.Line = ce.Pos.Line()
		}
		return ve
	}
	return ValidationError{Field: "profile", Message: err.Error(), Code: ErrCodeProfile}
}

func runnerError(err error) ValidationError {
	var ce *apl.ConfigError
	if errors.As(err, &ce) {
		return ValidationError{
			Field:   fmt.Sprintf("apl[%d]", ce.Entry),
			Message: fmt.Sprintf("%s: %s", ce.Action, ce.Message),
			Code:    ErrCodePriorityList,
		}
	}
	return ValidationError{Field: "profile", Message: err.Error(), Code: runnerErrorCode(err)}
}

// outputValidationErrors outputs validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		resp := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", e.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
