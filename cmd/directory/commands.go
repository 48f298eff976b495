package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"clubdirectory/internal/client"
	"clubdirectory/internal/model"
)

func rootCmd(defaultURL string) *cobra.Command {
	var (
		baseURL  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "directory",
		Short:         "Club membership directory client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&baseURL, "url", defaultURL, "Directory service base URL")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	newView := func(cmd *cobra.Command) *client.View {
		return client.NewView(client.New(baseURL, nil), newLogger(cmd.ErrOrStderr(), logLevel))
	}

	cmd.AddCommand(listCmd(newView), addCmd(newView), editCmd(newView), deleteCmd(newView), browseCmd(newView))
	return cmd
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

type viewFactory func(*cobra.Command) *client.View

func listCmd(newView viewFactory) *cobra.Command {
	var query, rating, activity, sortField, sortDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newView(cmd)
			for field, value := range map[string]string{"query": query, "rating": rating, "activity": activity} {
				if err := view.SetFilter(field, value); err != nil {
					return err
				}
			}
			if sortField != "" {
				view.SetSorting(client.Sorting{Field: sortField, Direction: sortDir})
			}
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			return client.Render(cmd.OutOrStdout(), view.Members(), view.Sorting())
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name substring")
	cmd.Flags().StringVar(&rating, "rating", "", "Exact rating (1-5)")
	cmd.Flags().StringVar(&activity, "activity", "", "Exact activity")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort field (name, activities)")
	cmd.Flags().StringVar(&sortDir, "dir", "asc", "Sort direction (asc, desc)")
	return cmd
}

// draftFlags are the member fields shared by add and edit.
type draftFlags struct {
	name       string
	age        int
	rating     int
	activities []string
}

func (f *draftFlags) register(cmd *cobra.Command, defaultRating int) {
	cmd.Flags().StringVar(&f.name, "name", "", "Member name")
	cmd.Flags().IntVar(&f.age, "age", 0, "Member age")
	cmd.Flags().IntVar(&f.rating, "rating", defaultRating, "Rating (1-5)")
	cmd.Flags().StringSliceVar(&f.activities, "activity", nil, "Activities (repeatable or comma separated)")
}

// apply copies the flags the user set onto d.
func (f *draftFlags) apply(cmd *cobra.Command, d *client.Draft) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		d.Name = f.name
	}
	if flags.Changed("age") {
		age := f.age
		d.Age = &age
	}
	if flags.Changed("rating") {
		rating := f.rating
		d.Rating = &rating
	}
	if flags.Changed("activity") {
		d.Activities = append([]string{}, f.activities...)
	}
}

func addCmd(newView viewFactory) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newView(cmd)
			view.OpenCreate()
			view.EditDraft(func(d *client.Draft) { flags.apply(cmd, d) })
			name := view.Draft().Name
			if err := view.SubmitForm(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Member %q added\n", name)
			return nil
		},
	}
	flags.register(cmd, 1)
	return cmd
}

func editCmd(newView viewFactory) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a member, changing only the given fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newView(cmd)
			member, err := findMember(cmd, view, args[0])
			if err != nil {
				return err
			}
			view.OpenEdit(member)
			view.EditDraft(func(d *client.Draft) { flags.apply(cmd, d) })
			if err := view.SubmitForm(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Member %s updated\n", member.ID)
			return nil
		},
	}
	flags.register(cmd, 1)
	return cmd
}

func deleteCmd(newView viewFactory) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newView(cmd)
			in := bufio.NewScanner(cmd.InOrStdin())
			confirm := func() bool {
				return yes || askYes(in, cmd.OutOrStdout(), fmt.Sprintf("Delete member %s?", args[0]))
			}
			called, err := view.Delete(cmd.Context(), args[0], confirm)
			if err != nil {
				return err
			}
			if called {
				fmt.Fprintln(cmd.OutOrStdout(), "Member removed successfully")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func findMember(cmd *cobra.Command, view *client.View, id string) (model.Member, error) {
	if err := view.Load(cmd.Context()); err != nil {
		return model.Member{}, err
	}
	for _, m := range view.Members() {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Member{}, fmt.Errorf("member %s not found", id)
}

func askYes(in *bufio.Scanner, out io.Writer, question string) bool {
	answer := prompt(in, out, question+" [y/N]", "")
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// prompt reads one line, returning def when the line is empty or input ended.
func prompt(in *bufio.Scanner, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	if !in.Scan() {
		return def
	}
	if line := strings.TrimSpace(in.Text()); line != "" {
		return line
	}
	return def
}
