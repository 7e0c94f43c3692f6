package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/framekeeper/internal/api"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *App) printAlert(al api.Alert) {
	if al.Visible {
		fmt.Fprintf(a.out, "[%s] %s\n", al.Severity, al.Message)
	}
}

func (a *App) printForm(st *api.FormState) {
	if st == nil {
		return
	}
	a.printAlert(st.Alert)

	fmt.Fprintf(a.out, "Title:    %s\n", orDash(st.Title))
	fmt.Fprintf(a.out, "Category: %s\n", orDash(st.Category))
	fmt.Fprintf(a.out, "Color:    %s\n", orDash(st.Color))
	fmt.Fprintf(a.out, "Image:    %s\n", orDash(st.ImageURL))
	if st.Busy {
		fmt.Fprintf(a.out, "Uploading %s: %.0f%%\n", st.Uploading, st.Progress)
	}
}

func (a *App) printItems(items []api.Item) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tCOLOR\tIMAGE")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Title, orDash(it.Category), orDash(it.Color), it.ImageURL)
	}
	w.Flush()
}
