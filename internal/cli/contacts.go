package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/contact"
)

// ContactResult is the JSON payload of a single-contact command.
type ContactResult struct {
	Event    string          `json:"event"`
	Message  string          `json:"message"`
	Contact  *contact.Record `json:"contact,omitempty"`
	Revision string          `json:"revision,omitempty"`
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Contacts []contact.Record `json:"contacts"`
	Count    int              `json:"count"`
	Revision string           `json:"revision,omitempty"`
}

// ContactOptions holds the field flags of add and update.
type ContactOptions struct {
	*RootOptions
	Phone string
	Email string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a contact",
		Long: `Add a contact in name order and save the directory.

A name that already exists (ignoring case) is refused unless
--on-duplicate overwrite is set.

Examples:
  contacts add "Ada Lovelace" --phone 555-0100 --email ada@example.com
  contacts add Bob --on-duplicate overwrite --phone 555-0199`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts.RootOptions, func(s *session) error {
				if err := s.dir.Add(cmd.Context(), args[0], opts.Phone, opts.Email); err != nil {
					return s.fail(err)
				}
				return s.succeed()
			})
		},
	}

	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")

	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find a contact by name",
		Long: `Find a contact by exact name, ignoring case.

Exit codes:
  0 - Contact found
  1 - No such contact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if _, err := s.dir.Search(args[0]); err != nil {
					return s.fail(err)
				}
				return s.succeed()
			})
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Change a contact's phone or email",
		Long: `Change a contact's phone or email. Fields left empty keep their
current value.

Example:
  contacts update alice --phone 555-0142`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts.RootOptions, func(s *session) error {
				if _, err := s.dir.Update(cmd.Context(), args[0], opts.Phone, opts.Email); err != nil {
					return s.fail(err)
				}
				return s.succeed()
			})
		},
	}

	cmd.Flags().StringVar(&opts.Phone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&opts.Email, "email", "", "new email address")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if err := s.dir.Delete(cmd.Context(), args[0]); err != nil {
					return s.fail(err)
				}
				return s.succeed()
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all contacts in name order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if s.out.Format == "json" {
					records := s.dir.Records()
					return s.out.Success(ListResult{
						Contacts: records,
						Count:    len(records),
						Revision: s.dir.Revision(),
					})
				}
				printList(s.out.Writer, s.dir)
				return nil
			})
		},
	}
}

// withSession opens a session, runs fn and closes the store.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(*session) error) error {
	s, err := openSession(cmd.Context(), opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// succeed writes the JSON payload for the last event. In text mode the
// event message was already printed.
func (s *session) succeed() error {
	if s.out.Format != "json" {
		return nil
	}
	e, _ := s.lastEvent()
	return s.out.Success(ContactResult{
		Event:    string(e.Kind),
		Message:  e.Message,
		Contact:  e.Record,
		Revision: s.dir.Revision(),
	})
}

// printList writes the contact list framed by a header and footer. An
// empty directory prints its empty message through the reporter instead.
func printList(w io.Writer, dir *contact.Directory) {
	n := 0
	for r := range dir.List() {
		if n == 0 {
			fmt.Fprintln(w, "--- Contact List ---")
		}
		fmt.Fprintln(w, r.String())
		n++
	}
	if n > 0 {
		fmt.Fprintln(w, "-------------------")
	}
}
