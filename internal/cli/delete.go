package cli

import (
	"github.com/spf13/cobra"

	"github.com/doshub/portal-backend/internal/content"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <news|events|services> <id>",
	Short: "Delete an item after confirmation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := content.ParseCollection(args[0])
		if err != nil {
			return err
		}
		assumeYes, _ := cmd.Flags().GetBool("yes")

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		c, err := e.mount(tab)
		if err != nil {
			return err
		}
		defer c.Unmount()

		// The outcome is reported by the toast.
		if _, err := c.Delete(cmd.Context(), args[1], confirmer(e, assumeYes)); err != nil {
			return errReported
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
