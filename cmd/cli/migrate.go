package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	"github.com/theomrc/linklocal/internal/store"
)

// MigrateCmd represents the 'migrate' command.
// It initializes the storage file and its schema without touching any data,
// useful for provisioning a fresh machine before the first create.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Initializes the local storage file and its schema.",
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// Open performs the schema migration; nothing else to do.
		st, err := store.Open(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer st.Close()

		fmt.Printf("Storage initialized at %s.\n", cfg.Storage.Path)
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
