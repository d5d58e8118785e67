package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	customerrors "github.com/theomrc/linklocal/internal/errors"
	"github.com/theomrc/linklocal/internal/services"
)

// StatsCmd represents the 'stats' command.
var StatsCmd = &cobra.Command{
	Use:   "stats [short-code]",
	Short: "Get statistics for a short link",
	Long:  `Get click statistics for the provided short code.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats executes the logic for the stats command.
func runStats(cobraCmd *cobra.Command, args []string) {
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

	linkService := services.NewLinkService(nil)

	link, totalClicks, err := linkService.GetLinkStats(shortCode, st.Load())
	if err != nil {
		if errors.Is(err, customerrors.ErrShortCodeNotFound) {
			fmt.Printf("Error: Short code '%s' not found\n", shortCode)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	status := "active"
	if link.IsExpired(time.Now().UnixMilli()) {
		status = "expired"
	}

	fmt.Printf("Statistics for short code: %s\n", shortCode)
	fmt.Printf("Original URL: %s\n", link.OriginalURL)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Total clicks: %d\n", totalClicks)
	fmt.Printf("Created: %s\n", time.UnixMilli(link.CreatedAt).Format("2006-01-02 15:04:05"))
	fmt.Printf("Expires: %s\n", time.UnixMilli(link.ExpiresAt).Format("2006-01-02 15:04:05"))

	// Show the most recent visits, newest last (insertion order is
	// chronological by construction).
	const recent = 5
	start := 0
	if len(link.Clicks) > recent {
		start = len(link.Clicks) - recent
	}
	for _, click := range link.Clicks[start:] {
		fmt.Printf("  %s  %s\n", time.UnixMilli(click.Timestamp).Format("2006-01-02 15:04:05"), click.Referrer)
	}
}
