package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cloudtrail-explorer/internal/config"
	"cloudtrail-explorer/internal/types"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "cloudtrail-explorer",
	Short: "Explore CloudTrail audit logs",
	Long: `cloudtrail-explorer loads a CloudTrail JSON document (a Records/events/records
object or a bare array), normalizes every event and lets you filter, sort and
page through them from the terminal or a local web dashboard.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "cloudtrail-explorer.yml", "config file")
	flags.StringP("output", "o", "text", "output format: text, json")
	flags.String("time", "utc", "time display: utc, local")
	flags.String("db", "", "cache database path")
	flags.Bool("no-cache", false, "do not read or write the last-document cache")
	flags.String("audit-log", "", "append load attempts to this JSON-lines file")

	bind("output.format", flags.Lookup("output"))
	bind("query.time_mode", flags.Lookup("time"))
	bind("cache.db_path", flags.Lookup("db"))
	bind("cache.disabled", flags.Lookup("no-cache"))
	bind("output.audit_log_path", flags.Lookup("audit-log"))
}

func initConfig() {
	viper.SetEnvPrefix("CTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file and layers env vars and flags over it.
func loadConfig() (*types.Config, error) {
	return config.LoadConfig(cfgFile, func(c *types.Config) {
		overrideString("input.path", &c.Input.Path)
		overrideBool("input.watch", &c.Input.Watch)
		overrideString("query.page_size", &c.Query.PageSize)
		overrideString("query.time_mode", &c.Query.TimeMode)
		overrideInt("query.suggestion_limit", &c.Query.SuggestionLimit)
		overrideBool("cache.disabled", &c.Cache.Disabled)
		overrideString("cache.db_path", &c.Cache.DBPath)
		overrideString("dashboard.port", &c.Dashboard.Port)
		overrideString("output.format", &c.Output.Format)
		overrideString("output.audit_log_path", &c.Output.AuditLogPath)
	})
}

func overrideString(key string, dst *string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func overrideBool(key string, dst *bool) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

func overrideInt(key string, dst *int) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}
