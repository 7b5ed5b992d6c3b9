package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Workspace string `json:"workspace" yaml:"workspace"` // Workspace root directory
	Records   string `json:"records" yaml:"records"`     // Release record directory, defaults to <workspace>/.relmon
	Change    string `json:"change" yaml:"change"`       // Default change name for version declarations
	Loglevel  string `json:"loglevel" yaml:"loglevel"`   // Log level (none, info, debug)
	Name      string `json:"name" yaml:"name"`           // Contributor name stamped on records
	Email     string `json:"email" yaml:"email"`         // Contributor email stamped on records
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setVersionParams(flags *flagsT) {
	if flags.root.workspace == "" {
		flags.root.workspace = c.Workspace
	}
	if flags.root.records == "" {
		flags.root.records = c.Records
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.Loglevel
	}
	if flags.version.change == "" {
		flags.version.change = c.Change
	}
}
