package whatsapp

import (
	"context"

	"wedding-rsvp/internal/notify"
)

type messenger interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// Notifier pushes admin notices to the couple's phone.
// Guest confirmations are skipped: guests leave no phone number.
type Notifier struct {
	sender     messenger
	adminPhone string
}

// NewNotifier creates a notifier that messages adminPhone. National numbers
// are resolved with countryCode.
func NewNotifier(svc *Service, adminPhone, countryCode string) *Notifier {
	return &Notifier{sender: svc, adminPhone: NormalizePhoneNumber(adminPhone, countryCode)}
}

func (n *Notifier) Send(ctx context.Context, msg notify.Message) error {
	if msg.Audience != notify.AudienceAdmin {
		return nil
	}
	return n.sender.SendMessage(ctx, n.adminPhone, notify.RenderText(msg))
}
