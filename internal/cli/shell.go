package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const menu = `
1. Add Contact
2. Search Contact
3. Update Contact
4. Delete Contact
5. Show All Contacts
0. Exit`

// NewShellCommand creates the interactive menu command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive contact menu",
		Long: `Start a line-based menu over standard input.

Each choice prompts for its fields and maps to one directory operation.
End of input exits like choosing 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format == "json" {
				return NewExitError(ExitCommandError, "shell does not support --format json")
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				return runShell(cmd, s)
			})
		},
	}
}

// prompter reads one answer per line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints label and returns the next line, or false at end of input.
func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimRight(p.in.Text(), "\r"), true
}

// askAll asks each label in turn. It stops at the first prompt that hits
// end of input, so a half-entered command never runs.
func (p *prompter) askAll(labels ...string) ([]string, bool) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		v, ok := p.ask(label)
		if !ok {
			return nil, false
		}
		answers[i] = v
	}
	return answers, true
}

func runShell(cmd *cobra.Command, s *session) error {
	ctx := cmd.Context()
	w := s.out.Writer
	p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: w}

	for {
		fmt.Fprintln(w, menu)
		choice, ok := p.ask("Enter choice: ")
		if !ok {
			fmt.Fprintln(w)
			return p.in.Err()
		}

		var (
			in  []string
			err error
		)
		switch strings.TrimSpace(choice) {
		case "1":
			if in, ok = p.askAll("Name: ", "Phone: ", "Email: "); ok {
				err = s.dir.Add(ctx, in[0], in[1], in[2])
			}
		case "2":
			if in, ok = p.askAll("Enter name to search: "); ok {
				_, err = s.dir.Search(in[0])
			}
		case "3":
			if in, ok = p.askAll("Enter name to update: ", "New phone (or leave blank): ", "New email (or leave blank): "); ok {
				_, err = s.dir.Update(ctx, in[0], in[1], in[2])
			}
		case "4":
			if in, ok = p.askAll("Enter name to delete: "); ok {
				err = s.dir.Delete(ctx, in[0])
			}
		case "5":
			fmt.Fprintln(w)
			printList(w, s.dir)
		case "0":
			fmt.Fprintln(w, "Exiting... Goodbye!")
			return nil
		default:
			fmt.Fprintln(w, "Invalid choice.")
		}
		if !ok {
			fmt.Fprintln(w)
			return p.in.Err()
		}

		// Failures are shown and the menu continues.
		if err != nil {
			code, _ := classifyError(err)
			if code != CodeNotFound && code != CodeDuplicate {
				_ = s.out.Error(code, err.Error(), nil)
			}
		}
	}
}
