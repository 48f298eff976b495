package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clubdirectory/internal/client"
)

const browseHelp = `Commands:
  search <text>            filter by name (empty clears)
  rating <1-5>             filter by rating (empty clears)
  activity <name>          filter by activity (empty clears)
  sort <name|activities>   cycle the column ordering
  add                      create a member
  edit <id>                update a member
  delete <id>              remove a member
  refresh                  reload the list
  help                     show this help
  quit                     exit`

func browseCmd(newView viewFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive member browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &browser{
				view: newView(cmd),
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
			}
			return b.run(cmd.Context())
		},
	}
}

type browser struct {
	view *client.View
	in   *bufio.Scanner
	out  io.Writer
}

func (b *browser) run(ctx context.Context) error {
	if err := b.view.Load(ctx); err != nil {
		fmt.Fprintf(b.out, "Could not load members: %v\n", err)
	}
	b.render()

	for {
		fmt.Fprint(b.out, "> ")
		if !b.in.Scan() {
			return b.in.Err()
		}
		command, arg, _ := strings.Cut(strings.TrimSpace(b.in.Text()), " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch command {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(b.out, browseHelp)
			continue
		case "search", "rating", "activity":
			field := command
			if field == "search" {
				field = "query"
			}
			if err = b.view.SetFilter(field, arg); err == nil {
				err = b.view.Search(ctx)
			}
		case "sort":
			if arg == "" {
				fmt.Fprintln(b.out, "Usage: sort <name|activities>")
				continue
			}
			err = b.view.ToggleSort(ctx, arg)
		case "add":
			b.view.OpenCreate()
			err = b.fillAndSubmit(ctx)
		case "edit":
			err = b.edit(ctx, arg)
		case "delete":
			_, err = b.view.Delete(ctx, arg, func() bool {
				return askYes(b.in, b.out, fmt.Sprintf("Delete member %s?", arg))
			})
		case "refresh":
			err = b.view.Load(ctx)
		default:
			fmt.Fprintf(b.out, "Unknown command %q, type help\n", command)
			continue
		}

		if err != nil {
			fmt.Fprintf(b.out, "Error: %v\n", err)
			continue
		}
		b.render()
	}
}

func (b *browser) render() {
	_ = client.Render(b.out, b.view.Members(), b.view.Sorting())
}

func (b *browser) edit(ctx context.Context, id string) error {
	for _, m := range b.view.Members() {
		if m.ID == id {
			b.view.OpenEdit(m)
			return b.fillAndSubmit(ctx)
		}
	}
	return fmt.Errorf("member %s not in the current list", id)
}

// fillAndSubmit prompts for every draft field, offering the current values
// as defaults.
func (b *browser) fillAndSubmit(ctx context.Context) error {
	draft := b.view.Draft()

	draft.Name = prompt(b.in, b.out, "Name", draft.Name)

	age := prompt(b.in, b.out, "Age", intString(draft.Age))
	if age != "" {
		v, err := strconv.Atoi(age)
		if err != nil {
			b.view.CancelForm()
			return fmt.Errorf("age must be a number")
		}
		draft.Age = &v
	}

	if rating := prompt(b.in, b.out, "Rating (1-5)", intString(draft.Rating)); rating != "" {
		v, err := strconv.Atoi(rating)
		if err != nil {
			b.view.CancelForm()
			return fmt.Errorf("rating must be a number")
		}
		draft.Rating = &v
	}

	for _, activity := range client.KnownActivities {
		def := "n"
		if slices.Contains(draft.Activities, activity) {
			def = "y"
		}
		answer := strings.ToLower(prompt(b.in, b.out, activity+" (y/n)", def))
		draft.ToggleActivity(activity, answer == "y" || answer == "yes")
	}

	b.view.EditDraft(func(d *client.Draft) { *d = draft })
	if err := b.view.SubmitForm(ctx); err != nil {
		b.view.CancelForm()
		return err
	}
	return nil
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
