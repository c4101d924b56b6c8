package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/codec"
	"github.com/roach88/contacts/internal/contact"
)

// TransferOptions holds flags for export and import.
type TransferOptions struct {
	*RootOptions
	Output string // export destination; empty means stdout
	As     string // document format; inferred from the file extension when empty
}

// ExportResult is the JSON payload of an export written to a file.
type ExportResult struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Exported int    `json:"exported"`
}

// ImportResult counts what an import did with each record.
type ImportResult struct {
	Path     string   `json:"path"`
	Added    int      `json:"added"`
	Replaced int      `json:"replaced"`
	Skipped  int      `json:"skipped"`
	Problems []string `json:"problems,omitempty"`
	Revision string   `json:"revision,omitempty"`
}

func (r ImportResult) String() string {
	return fmt.Sprintf("Imported %s: %d added, %d replaced, %d skipped", r.Path, r.Added, r.Replaced, r.Skipped)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all contacts as a JSON or YAML document",
		Long: `Write all contacts, in name order, as a JSON or YAML document.

Without --output the document goes to standard output.

Examples:
  contacts export > contacts.json
  contacts export --output contacts.yaml
  contacts export --as yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := documentFormat(opts.As, opts.Output)
			if err != nil {
				return err
			}
			return withSession(cmd, opts.RootOptions, func(s *session) error {
				return exportContacts(s, opts, format, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.As, "as", "", "document format (json|yaml)")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add contacts from a JSON or YAML document",
		Long: `Add every contact in a document produced by export.

Each record goes through add, so existing names follow --on-duplicate
and records without a name are skipped.

Examples:
  contacts import contacts.json
  contacts import backup.txt --as yaml --on-duplicate overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := documentFormat(opts.As, args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts.RootOptions, func(s *session) error {
				return importContacts(cmd, s, args[0], format)
			})
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "document format (json|yaml)")

	return cmd
}

// documentFormat picks the explicit format, else the one implied by
// path's extension, else JSON.
func documentFormat(as, path string) (string, error) {
	if as != "" {
		as = strings.ToLower(as)
		for _, f := range codec.ValidDocumentFormats {
			if f == as {
				return as, nil
			}
		}
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("invalid --as %q: must be one of %v", as, codec.ValidDocumentFormats))
	}
	if f, ok := codec.FormatFromExt(strings.ToLower(filepath.Ext(path))); ok {
		return f, nil
	}
	return codec.FormatJSON, nil
}

func exportContacts(s *session, opts *TransferOptions, format string, stdout io.Writer) error {
	records := s.dir.Records()

	if opts.Output == "" {
		if err := codec.EncodeDocument(stdout, format, records); err != nil {
			return s.fail(err)
		}
		return nil
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return s.fail(fmt.Errorf("failed to create output file: %w", err))
	}
	if err := codec.EncodeDocument(f, format, records); err != nil {
		f.Close()
		return s.fail(err)
	}
	if err := f.Close(); err != nil {
		return s.fail(fmt.Errorf("failed to write output file: %w", err))
	}

	s.out.VerboseLog("wrote %d contacts to %s", len(records), opts.Output)
	result := ExportResult{Path: opts.Output, Format: format, Exported: len(records)}
	if s.out.Format == "json" {
		return s.out.Success(result)
	}
	return s.out.Success(fmt.Sprintf("Exported %d contacts to %s", result.Exported, result.Path))
}

func importContacts(cmd *cobra.Command, s *session, path, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return s.fail(fmt.Errorf("failed to open import file: %w", err))
	}
	defer f.Close()

	records, err := codec.DecodeDocument(f, format)
	if err != nil {
		return s.fail(fmt.Errorf("%s: %w", path, err))
	}

	result := ImportResult{Path: path}
	for i, r := range records {
		err := s.dir.Add(cmd.Context(), r.Name, r.Phone, r.Email)
		switch {
		case err == nil:
			if e, ok := s.lastEvent(); ok && e.Kind == contact.EventReplaced {
				result.Replaced++
			} else {
				result.Added++
			}
		case contact.IsDuplicate(err), contact.IsValidation(err):
			result.Skipped++
			result.Problems = append(result.Problems, fmt.Sprintf("contacts[%d]: %v", i, err))
			s.out.VerboseLog("skipped contacts[%d]: %v", i, err)
		default:
			// Store failures abort; records added so far are already saved.
			return s.fail(err)
		}
	}

	result.Revision = s.dir.Revision()
	return s.out.Success(result)
}
