package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/theomrc/linklocal/cmd"
	"github.com/theomrc/linklocal/internal/config"
	customerrors "github.com/theomrc/linklocal/internal/errors"
	"github.com/theomrc/linklocal/internal/services"
)

var referrerFlag string

// ResolveCmd represents the 'resolve' command: one visit of a short code.
var ResolveCmd = &cobra.Command{
	Use:   "resolve [code]",
	Short: "Resolves a short code to its destination and records the click.",
	Long: `This command performs a visit: it looks the code up in the local store,
checks expiry, records a click and prints the destination URL. The click is
persisted before the destination is printed, so an interrupted navigation
never loses the visit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cobraCmd *cobra.Command, args []string) {
		code := args[0]

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

		outcome, err := linkService.ResolveLink(code, referrerFlag, st.Load())
		if err != nil {
			// Not-found and expired are terminal visit outcomes, not faults;
			// the store is left exactly as it was.
			if errors.Is(err, customerrors.ErrShortCodeNotFound) {
				fmt.Printf("Short code '%s' not found\n", code)
				os.Exit(1)
			}
			if errors.Is(err, customerrors.ErrLinkExpired) {
				fmt.Printf("Short code '%s' has expired\n", code)
				os.Exit(1)
			}
			log.Fatalf("Error resolving '%s': %v", code, err)
		}

		// Persist the appended click before announcing the destination.
		if err := st.Save(outcome.Links); err != nil {
			log.Fatalf("Failed to record click: %v", err)
		}

		fmt.Println(outcome.RedirectURL)
	},
}

func init() {
	ResolveCmd.Flags().StringVar(&referrerFlag, "referrer", "", "Referrer recorded with the click (default \"direct\")")
	cmd.RootCmd.AddCommand(ResolveCmd)
}
