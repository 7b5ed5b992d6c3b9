package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relmon",
	Short: "relmon manages deferred version bumps in multi-package workspaces",
	Long: `relmon manages deferred semantic-version bumps for the packages of a workspace.

Contributors declare, per in-flight change, which packages a change should bump
and by what strategy (major, minor, patch, a pre* variant, an explicit version,
or decline). Declarations accumulate in per-change release records under the
workspace; a separate apply step later writes the merged result into the
package manifests.

relmon works by keeping one record per change and merging all records on
demand: when several changes name the same package, the strongest pending
bump wins and new decisions may never regress below it.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addWorkspaceFlag(rootCmd)
	addRecordsFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("workspace", ".")
	viper.SetDefault("loglevel", "info")
	if os.Getenv("RELMON_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("RELMON_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.relmon")
		viper.SetConfigName("relmon")
	}

	viper.SetEnvPrefix("relmon")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setVersionParams(&relmonFlags)
}
