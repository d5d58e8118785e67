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
	"github.com/theomrc/linklocal/internal/models"
	"github.com/theomrc/linklocal/internal/services"
)

var (
	longURLFlag  string
	aliasFlag    string
	validityFlag int
)

// CreateCmd represents the 'create' command.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a short link from a long URL.",
	Long: `This command shortens a provided long URL and stores the mapping locally.
A custom alias can be supplied; otherwise a 7-character code is generated.
The link expires after the requested validity (30 minutes by default).

Example:
  linklocal create --url="https://www.google.com/search?q=go+lang" --validity=60`,
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

		linkService := services.NewLinkService(nil)

		existing := st.Load()
		link, err := linkService.CreateLink(services.CreateInput{
			OriginalURL:     longURLFlag,
			Alias:           aliasFlag,
			ValidityMinutes: validityFlag,
		}, existing)
		if err != nil {
			// Creation errors are all recoverable: report the reason and
			// leave the store untouched.
			switch {
			case errors.Is(err, customerrors.ErrEmptyURL),
				errors.Is(err, customerrors.ErrInvalidURL),
				errors.Is(err, customerrors.ErrInvalidAlias),
				errors.Is(err, customerrors.ErrAliasTaken):
				fmt.Printf("Error: %v\n", err)
			case errors.Is(err, customerrors.ErrShortCodeGenerationFailed):
				fmt.Println("Error: could not find a free short code, please retry.")
			default:
				fmt.Printf("Error creating link: %v\n", err)
			}
			os.Exit(1)
		}

		// New links go to the front of the collection; the whole collection
		// is rewritten, that is the only persistence granularity.
		updated := append([]models.Link{*link}, existing...)
		if err := st.Save(updated); err != nil {
			log.Fatalf("Failed to persist link: %v", err)
		}

		fmt.Printf("Short link created successfully:\n")
		fmt.Printf("Code: %s\n", link.Code)
		fmt.Printf("Full short URL: %s\n", cfg.ShortURL(link.Code))
		fmt.Printf("Expires at: %s\n", time.UnixMilli(link.ExpiresAt).Format("2006-01-02 15:04:05"))
	},
}

func init() {
	CreateCmd.Flags().StringVar(&longURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&aliasFlag, "alias", "", "Optional custom code (3-30 chars, A-Z a-z 0-9 _ -)")
	CreateCmd.Flags().IntVar(&validityFlag, "validity", 0, "Validity in minutes (default 30)")

	CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}
