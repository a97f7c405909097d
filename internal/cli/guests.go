package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/vocabulary"
)

// NewGuestsCommand creates the guests command group.
func NewGuestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guests",
		Short: "Inspect stored RSVPs",
	}
	cmd.AddCommand(newGuestsListCommand())
	return cmd
}

func newGuestsListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every RSVP, newest first",
		Example: `  wedding-rsvp guests list
  wedding-rsvp guests list --status declined`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.RSVPStatus
			if status != "" {
				s, ok := models.ParseRSVPStatus(status)
				if !ok {
					return fmt.Errorf("invalid status %q: must be attending or declined", status)
				}
				filter = s
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			vocab, err := loadVocabulary(cfg)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			guests, err := listGuests(cmd.Context(), store, filter)
			if err != nil {
				return err
			}
			printGuests(cmd.OutOrStdout(), guests, filter, vocab)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only show guests with this status (attending|declined)")
	return cmd
}

// listGuests reads through the RSVP handler; an empty status lists everyone.
func listGuests(ctx context.Context, store storage.Store, status models.RSVPStatus) ([]models.GuestRecord, error) {
	h := handler.NewRSVPHandler(handler.Dependencies{Store: store, Log: zerolog.Nop()})
	if status == "" {
		return h.List(ctx)
	}
	return h.ListByStatus(ctx, status)
}

func printGuests(out io.Writer, guests []models.GuestRecord, status models.RSVPStatus, vocab *vocabulary.Vocabulary) {
	if len(guests) == 0 {
		if status == "" {
			fmt.Fprintln(out, "No guests found.")
		} else {
			fmt.Fprintf(out, "No guests with status '%s'.\n", status)
		}
		return
	}

	if status == "" {
		fmt.Fprintf(out, "📋 All Guests (%d total):\n", len(guests))
	} else {
		fmt.Fprintf(out, "📋 Guests with status '%s' (%d total):\n", status, len(guests))
	}
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, g := range guests {
		fmt.Fprintf(out, "Name: %s\n", g.Name)
		fmt.Fprintf(out, "Email: %s\n", g.Email)
		fmt.Fprintf(out, "Status: %s\n", g.Status())
		if g.Attending {
			fmt.Fprintf(out, "Dessert: %s with %s\n",
				vocab.Desserts.Label(g.DessertChoice), vocab.Toppings.Label(g.DessertTopping))
			if g.Allergies != "" {
				fmt.Fprintf(out, "Allergies: %s\n", g.Allergies)
			}
		}
		if !g.CreatedAt.IsZero() {
			fmt.Fprintf(out, "RSVP Date: %s\n", g.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
	}
}
