package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
)

// ListCmd represents the 'list' command.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists all stored short links.",
	Run: func(cobraCmd *cobra.Command, args []string) {
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
		if len(links) == 0 {
			fmt.Println("No links stored.")
			return
		}

		nowMillis := time.Now().UnixMilli()
		for _, link := range links {
			status := "active"
			if link.IsExpired(nowMillis) {
				status = "expired"
			}
			fmt.Printf("%-10s %-8s %3d click(s)  %s\n", link.Code, status, len(link.Clicks), link.OriginalURL)
		}
	},
}

func init() {
	cmd.RootCmd.AddCommand(ListCmd)
}
