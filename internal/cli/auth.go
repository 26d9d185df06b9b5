package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doshub/portal-backend/internal/console"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as an operator",
	Long: `Sign in with email and password. The password is read from --password,
then DOSHUB_PASSWORD, then standard input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email = appConfig.Email
		}
		if email == "" {
			if email, err = e.prompt("Email: "); err != nil {
				return err
			}
		}

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("DOSHUB_PASSWORD")
		}
		if password == "" {
			if password, err = e.prompt("Password: "); err != nil {
				return err
			}
		}

		s, err := e.gate.SignIn(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(e.out, "signed in as %s until %s\n", s.Email, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and end the session on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}

		c := console.New(e.gate, e.client, e.nav, console.Options{Timeout: appConfig.Timeout})
		if err := c.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(e.out, "signed out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "operator email")
	loginCmd.Flags().String("password", "", "operator password")
}

// confirmer asks on the terminal unless --yes was given.
func confirmer(e *env, assumeYes bool) console.Confirmer {
	return console.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		answer, err := e.prompt(prompt + " [y/N] ")
		return err == nil && (answer == "y" || answer == "Y" || answer == "yes")
	})
}
