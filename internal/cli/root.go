package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the wedding-rsvp binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wedding-rsvp",
		Short: "Wedding RSVP service",
		Long: `Collects wedding RSVPs over HTTP, stores them and notifies the couple and the guest.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewGuestsCommand())
	cmd.AddCommand(NewWhatsAppCommand())

	return cmd
}
