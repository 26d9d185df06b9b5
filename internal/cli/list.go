package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doshub/portal-backend/internal/console"
	"github.com/doshub/portal-backend/internal/content"
)

var listCmd = &cobra.Command{
	Use:       "list [news|events|services]",
	Short:     "List the items of a collection",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"news", "events", "services"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := content.News
		if len(args) == 1 {
			var err error
			if tab, err = content.ParseCollection(args[0]); err != nil {
				return err
			}
		}
		return runList(cmd, tab)
	},
}

func runList(cmd *cobra.Command, tab content.Collection) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	c, err := e.mount(tab)
	if err != nil {
		return err
	}
	defer c.Unmount()

	snap := c.Snapshot()
	if snap.LoadState == console.LoadError {
		return errors.New(snap.Error)
	}
	printItems(e.out, snap)
	return nil
}

func printItems(out io.Writer, snap console.Snapshot) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(out, "No items found. Create a new one to get started.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch snap.Tab {
	case content.Events:
		fmt.Fprintln(w, "ID\tTITLE\tDATE\tVENUE")
		for _, it := range snap.Items {
			date := ""
			if it.Date != nil {
				date = it.Date.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Title, date, it.Venue)
		}
	case content.Services:
		fmt.Fprintln(w, "ID\tTITLE\tREQUIREMENTS\tCREATED")
		for _, it := range snap.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", it.ID, it.Title, len(it.Requirements), it.CreatedAt.Local().Format(time.DateTime))
		}
	default:
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCREATED")
		for _, it := range snap.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Author, it.CreatedAt.Local().Format(time.DateTime))
		}
	}
	w.Flush()
}
