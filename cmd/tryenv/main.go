package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tryenv",
		Short:         "Run structured exception handling programs",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.tryenv.yaml)")
	flags.Bool("debug", false, "log stack events to stderr")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("order", "newest", "trace order: newest or oldest")
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("no-color", flags.Lookup("no-color"))
	viper.BindPFlag("order", flags.Lookup("order"))

	cmd.AddCommand(
		newListCmd(),
		newRunCmd(),
		newTraceCmd(),
		newThrowCmd(),
	)
	return cmd
}

func initConfig() error {
	viper.SetEnvPrefix("tryenv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return viper.ReadInConfig()
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".tryenv.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	viper.SetConfigFile(path)
	return viper.ReadInConfig()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
