package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	"github.com/theomrc/linklocal/internal/store"
)

// PruneCmd represents the 'prune' command. Housekeeping already runs whenever
// a command opens the store; this makes it available on demand and reports
// what it did.
var PruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Removes links expired for longer than the retention window.",
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		st, err := store.Open(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open local storage: %v", err)
		}
		defer st.Close()

		links := st.Load()
		kept := st.Prune(links, retention(cfg))
		if len(kept) == len(links) {
			fmt.Println("Nothing to prune.")
			return
		}

		if err := st.Save(kept); err != nil {
			log.Fatalf("Failed to persist pruned collection: %v", err)
		}
		fmt.Printf("Pruned %d link(s), %d remaining.\n", len(links)-len(kept), len(kept))
	},
}

func init() {
	cmd.RootCmd.AddCommand(PruneCmd)
}
