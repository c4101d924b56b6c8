package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InfoResult describes the configured store and what was loaded from it.
type InfoResult struct {
	Backend     string `json:"backend"`
	Path        string `json:"path,omitempty"`
	Duplicates  string `json:"duplicates"`
	Strict      bool   `json:"strict"`
	Records     int    `json:"records"`
	Revision    string `json:"revision,omitempty"`
	LoadWarning string `json:"load_warning,omitempty"`
}

func (r InfoResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Backend:    %s\n", r.Backend)
	if r.Path != "" {
		fmt.Fprintf(&b, "Path:       %s\n", r.Path)
	}
	fmt.Fprintf(&b, "Duplicates: %s\n", r.Duplicates)
	fmt.Fprintf(&b, "Strict:     %t\n", r.Strict)
	fmt.Fprintf(&b, "Records:    %d\n", r.Records)
	revision := r.Revision
	if revision == "" {
		revision = "(never saved)"
	}
	fmt.Fprintf(&b, "Revision:   %s", revision)
	if r.LoadWarning != "" {
		fmt.Fprintf(&b, "\nWarning:    %s", r.LoadWarning)
	}
	return b.String()
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the resolved store configuration",
		Long: `Show the resolved store configuration, the number of contacts and the
revision of the last save. A store that could not be read is reported
here as a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				result := InfoResult{
					Backend:    s.cfg.Backend,
					Path:       s.cfg.Path,
					Duplicates: s.cfg.Duplicates,
					Strict:     s.cfg.Strict,
					Records:    s.dir.Len(),
					Revision:   s.dir.Revision(),
				}
				if w := s.dir.LoadWarning(); w != nil {
					result.LoadWarning = w.Error()
				}
				return s.out.Success(result)
			})
		},
	}
}
