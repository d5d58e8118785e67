package cli

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	"github.com/theomrc/linklocal/internal/monitor"
)

// MonitorCmd represents the 'monitor' command: a foreground loop checking
// that stored destinations are still reachable.
var MonitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watches stored destination URLs and reports reachability changes.",
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

		interval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		urlMonitor := monitor.NewUrlMonitor(st, interval)

		// Blocks until interrupted.
		urlMonitor.Start()
	},
}

func init() {
	cmd.RootCmd.AddCommand(MonitorCmd)
}
