package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/logging"
	"wedding-rsvp/internal/whatsapp"
)

// NewWhatsAppCommand creates the whatsapp command group.
func NewWhatsAppCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Manage the WhatsApp device used for admin notices",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "link",
		Short: "Pair a WhatsApp device by scanning a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat)

			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			svc, err := whatsapp.NewService(cmd.Context(), &whatsapp.Config{DataDir: cfg.DataDir}, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.Link(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Connected to WhatsApp!")
			return nil
		},
	})
	return cmd
}
