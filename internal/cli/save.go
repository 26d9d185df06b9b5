package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doshub/portal-backend/internal/console"
	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/form"
)

var saveCmd = &cobra.Command{
	Use:   "save <news|events|services> [id]",
	Short: "Create an item, or update the item with the given id",
	Long: `Create an item, or update an existing one. When updating, the form is
pre-populated from the stored item and only the given flags change it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		id := ""
		if len(args) == 2 {
			id = args[1]
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		c, err := e.mount(tab)
		if err != nil {
			return err
		}
		defer c.Unmount()

		var current *content.Item
		if id != "" {
			if current, err = c.EditTarget(cmd.Context(), tab, id); err != nil {
				if errors.Is(err, content.ErrNotFound) {
					return fmt.Errorf("%s %s not found", tab.Singular(), id)
				}
				return errors.New(console.MsgLoadError)
			}
		}

		flags := cmd.Flags()
		switch tab {
		case content.News:
			f := form.NewsForm{}
			if current != nil {
				f = form.NewsFormFromItem(current)
			}
			override(flags, "title", &f.Title)
			override(flags, "excerpt", &f.Excerpt)
			override(flags, "content", &f.Content)
			override(flags, "image-url", &f.ImageURL)
			override(flags, "author", &f.Author)
			return submit(cmd, e, id, f)

		case content.Events:
			f := form.EventForm{Location: time.Local}
			if current != nil {
				f = form.EventFormFromItem(current, time.Local)
			}
			override(flags, "title", &f.Title)
			override(flags, "excerpt", &f.Excerpt)
			override(flags, "content", &f.Content)
			override(flags, "image-url", &f.ImageURL)
			override(flags, "date", &f.Date)
			override(flags, "time", &f.Time)
			override(flags, "venue", &f.Venue)
			return submit(cmd, e, id, f)

		default:
			f := form.ServiceForm{Requirements: form.NewRequirements()}
			if current != nil {
				f = form.ServiceFormFromItem(current)
			}
			override(flags, "title", &f.Title)
			override(flags, "excerpt", &f.Excerpt)
			override(flags, "content", &f.Content)
			if flags.Changed("requirement") {
				rows, _ := flags.GetStringArray("requirement")
				f.Requirements = form.NewRequirements(rows...)
			}
			return submit(cmd, e, id, f)
		}
	},
}

func init() {
	f := saveCmd.Flags()
	f.String("title", "", "title")
	f.String("excerpt", "", "short summary")
	f.String("content", "", "body")
	f.String("image-url", "", "image URL (news, events)")
	f.String("author", "", "author (news)")
	f.String("date", "", "event date, YYYY-MM-DD (events)")
	f.String("time", "", "event time, HH:MM (events)")
	f.String("venue", "", "venue (events, default \""+content.DefaultVenue+"\")")
	f.StringArray("requirement", nil, "requirement row, repeatable (services)")
}

// override copies a flag into dst when it was set on the command line.
func override(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func submit[E form.Entity](cmd *cobra.Command, e *env, id string, f E) error {
	ctrl := form.NewController[E](e.client, appConfig.Timeout)
	ctrl.OnStateChange(func(s form.State) {
		log.Debug().Stringer("state", s).Msg("form state")
	})

	savedID, err := ctrl.Submit(cmd.Context(), id, f)
	if err != nil {
		fields := ctrl.FieldErrors()
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(e.out, "%s: %s\n", name, fields[name])
		}
		if len(fields) == 0 {
			fmt.Fprintln(e.out, form.ErrSubmission)
		}
		return errReported
	}

	fmt.Fprintf(e.out, "saved %s %s\n", f.Collection().Singular(), savedID)
	e.nav.Navigate(console.AdminPath)
	return nil
}
