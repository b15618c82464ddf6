// Package cmd is for command line interactions with the numtfinder application
package cmd

import (
	"log"

	"github.com/slimsuite/numtfinder/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "numtfinder",
	Short: `Find nuclear copies of mitochondrial DNA (NUMTs) in a genome assembly.
Fragments found with blastn are merged into blocks and mtDNA coverage profiles`,
	Version: "0.2.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// set flags
func init() {
	// settings is an optional parameter for a settings file (that overrides the default run settings)
	rootCmd.PersistentFlags().StringP("settings", "s", config.RootSettingsFile, "run settings")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "whether to log per-sequence detail")
	viper.BindPFlag("settings", rootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
