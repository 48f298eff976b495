package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"clubdirectory/internal/model"
)

// sortableColumns maps table headings to the field they sort by.
var sortableColumns = map[string]string{
	"Name":       "name",
	"Activities": "activities",
}

func heading(title string, sorting Sorting) string {
	field, ok := sortableColumns[title]
	if !ok || sorting.Field != field {
		return title
	}
	switch sorting.Direction {
	case "asc":
		return title + " ↑"
	case "desc":
		return title + " ↓"
	}
	return title
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// Render writes members as an aligned table with sort markers on the
// sortable headings.
func Render(w io.Writer, members []model.Member, sorting Sorting) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		"ID", heading("Name", sorting), "Age", "Rating", heading("Activities", sorting))
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, optional(m.Age), optional(m.Rating), strings.Join(m.Activities, ", "))
	}
	if len(members) == 0 {
		fmt.Fprintln(tw, "(no members)")
	}
	return tw.Flush()
}
