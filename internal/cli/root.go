package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doshub/portal-backend/internal/pkg/logger"
)

// Config is the console configuration, read from console.yaml and
// DOSHUB_* environment variables.
type Config struct {
	Server      string        `mapstructure:"server"`
	Email       string        `mapstructure:"email"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ToastDelay  time.Duration `mapstructure:"toast_delay"`
	SessionFile string        `mapstructure:"session_file"`
	LogLevel    string        `mapstructure:"log_level"`
}

// errReported ends a command whose failure was already shown to the operator.
var errReported = errors.New("failure already reported")

var cfgFile string
var appConfig Config

var rootCmd = &cobra.Command{
	Use:   "doshub-console",
	Short: "DosHub content console",
	Long: `doshub-console manages the news, events and services published on the
DosHub portal. Sign in with "login", then list, save or delete items.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./console.yaml)")
	rootCmd.PersistentFlags().String("server", "", "portal backend URL")

	rootCmd.AddCommand(loginCmd, logoutCmd, listCmd, deleteCmd, saveCmd, openCmd)
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("timeout", "10s")
	v.SetDefault("toast_delay", "3s")
	v.SetDefault("session_file", defaultSessionFile())
	v.SetDefault("log_level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("console")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOSHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.BindPFlag("server", cmd.Flags().Lookup("server")); err != nil {
		return fmt.Errorf("failed to bind server flag: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	logger.Init("dev", appConfig.LogLevel)
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".doshub-session.json"
	}
	return filepath.Join(dir, "doshub", "session.json")
}
