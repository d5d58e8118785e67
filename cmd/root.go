package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/internal/config"
)

// Cfg is the global variable that will contain the loaded configuration.
// It is accessible to all Cobra commands throughout the application.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// All other commands (create, resolve, list, stats, delete, prune, monitor)
// are added as subcommands.
var RootCmd = &cobra.Command{
	Use:   "linklocal",
	Short: "A local URL shortener",
	Long: `linklocal shortens URLs into codes kept in a local store on this machine.
Links carry an expiry and a click log; resolving a code records the visit
and prints the destination.`,
}

// Execute is the main entry point for the Cobra application.
// It is called from 'main.go' and handles command execution and error handling.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Set up configuration initialization to run before any command executes.
	// Commands register themselves via their own init() functions, which keeps
	// the packages decoupled and avoids import cycles.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration before every command runs.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
