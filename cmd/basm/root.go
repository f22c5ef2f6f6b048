package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "basm",
	Short: "A compiler for the basm assembly language.",
	Long:  "basm compiles basm source into bf and can run the result directly.",
}

// Execute adds all child commands to the root command. This is called by
// main.main and only needs to run once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if GetFlag(rootCmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	})
}

// GetFlag gets an expected bool flag, printing and exiting on error.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// GetString gets an expected string flag, printing and exiting on error.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}
