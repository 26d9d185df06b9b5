package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doshub/portal-backend/internal/console"
	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/form"
	"github.com/doshub/portal-backend/internal/session"
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Show a console view by path, e.g. /admin/events/<id>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route, err := console.ParseRoute(args[0])
		if err != nil {
			return err
		}

		switch route.Kind {
		case console.RouteList:
			return runList(cmd, content.News)
		case console.RouteLogin:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: run \"doshub-console login\"\n", session.LoginPath)
			return nil
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		c, err := e.mount(route.Collection)
		if err != nil {
			return err
		}
		defer c.Unmount()

		var current *content.Item
		if route.Kind == console.RouteEdit {
			if current, err = c.EditTarget(cmd.Context(), route.Collection, route.ID); err != nil {
				return fmt.Errorf("load %s %s: %w", route.Collection.Singular(), route.ID, err)
			}
		}

		var view any
		switch route.Collection {
		case content.News:
			f := form.NewsForm{}
			if current != nil {
				f = form.NewsFormFromItem(current)
			}
			view = f
		case content.Events:
			f := form.EventForm{Location: time.Local}
			if current != nil {
				f = form.EventFormFromItem(current, time.Local)
			}
			view = f
		default:
			f := form.ServiceForm{Requirements: form.NewRequirements()}
			if current != nil {
				f = form.ServiceFormFromItem(current)
			}
			view = f
		}

		raw, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render form: %w", err)
		}
		fmt.Fprintln(e.out, string(raw))
		return nil
	},
}
