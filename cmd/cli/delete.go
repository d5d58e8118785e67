package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	"github.com/theomrc/linklocal/internal/models"
)

// DeleteCmd represents the 'delete' command: explicit removal by the user,
// the only way a link disappears apart from housekeeping.
var DeleteCmd = &cobra.Command{
	Use:   "delete [short-code]",
	Short: "Deletes a stored short link.",
	Args:  cobra.ExactArgs(1),
	Run: func(cobraCmd *cobra.Command, args []string) {
		shortCode := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open local storage: %v", err)
		}
		defer st.Close()

		links := st.Load()
		kept := make([]models.Link, 0, len(links))
		for _, link := range links {
			if link.Code != shortCode {
				kept = append(kept, link)
			}
		}

		if len(kept) == len(links) {
			fmt.Printf("Error: Short code '%s' not found\n", shortCode)
			os.Exit(1)
		}

		if err := st.Save(kept); err != nil {
			log.Fatalf("Failed to persist deletion: %v", err)
		}
		fmt.Printf("Short code '%s' deleted.\n", shortCode)
	},
}

func init() {
	cmd.RootCmd.AddCommand(DeleteCmd)
}
