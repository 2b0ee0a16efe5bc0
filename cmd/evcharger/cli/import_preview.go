package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evcharger-search/evcharger-search/internal/importer"
)

// ExitPendingChanges is returned when the preview reports new or updated rows.
const ExitPendingChanges = 10

// Previewer produces an import preview without mutating the catalog.
type Previewer interface {
	Preview(ctx context.Context, source string) (importer.Preview, error)
}

// ImportCLI offers operational helpers around the import pipeline.
type ImportCLI struct {
	previewer Previewer
}

// NewImportCLI constructs a new helper instance.
func NewImportCLI(previewer Previewer) (*ImportCLI, error) {
	if previewer == nil {
		return nil, errors.New("import cli: previewer required")
	}
	return &ImportCLI{previewer: previewer}, nil
}

// ImportPreviewOptions defines available flags for the import-preview command.
type ImportPreviewOptions struct {
	Source     string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func withCode(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps a command error to a process exit code. Errors raised by
// flag parsing are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 2
}

// PreviewerFactory opens the dependencies of a preview and returns a release func.
type PreviewerFactory func(ctx context.Context) (Previewer, func(), error)

// NewImportPreviewCommand builds the import-preview subcommand.
func NewImportPreviewCommand(open PreviewerFactory) *cobra.Command {
	var opts ImportPreviewOptions

	cmd := &cobra.Command{
		Use:           "import-preview",
		Short:         "Preview an upstream price import against the catalog without writing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			previewer, release, err := open(cmd.Context())
			if err != nil {
				_, _ = fmt.Fprintf(opts.Stderr, "import preview: %v\n", err)
				return withCode(1, err)
			}
			defer release()
			command, err := NewImportCLI(previewer)
			if err != nil {
				return withCode(1, err)
			}
			if code := command.PreviewCommand(cmd.Context(), opts); code != 0 {
				return withCode(code, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "Upstream URL returning {success, data} (required)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Print the preview as JSON")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// PreviewCommand fetches the source, prints the diff against the catalog and
// reports pending changes through the exit code.
func (c *ImportCLI) PreviewCommand(ctx context.Context, opts ImportPreviewOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	source := strings.TrimSpace(opts.Source)
	if source == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "import preview: --source is required")
		return 1
	}
	preview, err := c.previewer.Preview(ctx, source)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "import preview: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(preview); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "import preview: encode json: %v\n", err)
			return 1
		}
	} else {
		renderPreviewHuman(opts.Stdout, preview)
	}
	if preview.Stats.New > 0 || preview.Stats.Update > 0 {
		return ExitPendingChanges
	}
	return 0
}

func renderPreviewHuman(w io.Writer, preview importer.Preview) {
	_, _ = fmt.Fprintf(w, "Source: %s\n", preview.Source)
	_, _ = fmt.Fprintf(w, "Items: %d (new %d, update %d, unchanged %d)\n",
		preview.Stats.Total, preview.Stats.New, preview.Stats.Update, preview.Stats.Unchanged)
	if len(preview.Preview) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ACTION\tNAME\tAC\tDC")
	for _, entry := range preview.Preview {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			entry.Action, entry.Name,
			formatChange(entry.ExistingAC, entry.ACPrice, entry.Action),
			formatChange(entry.ExistingDC, entry.DCPrice, entry.Action))
	}
	_ = tw.Flush()
}

func formatChange(old, next *float64, action importer.Action) string {
	if action != importer.ActionUpdate {
		return formatPrice(next)
	}
	if samePointerValue(old, next) {
		return formatPrice(next)
	}
	return formatPrice(old) + " -> " + formatPrice(next)
}

func samePointerValue(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
