package notify

import (
	"net/url"
	"strings"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/vocabulary"
)

// Audience is who a message is for.
type Audience string

const (
	AudienceAdmin Audience = "admin"
	AudienceGuest Audience = "guest"
)

// Fields are the display values shown in every notification.
// Dessert and topping are always vocabulary labels, never stored codes.
type Fields struct {
	GuestName  string
	GuestEmail string
	Attending  string
	Dessert    string
	Topping    string
	Allergies  string
	UpdateLink string
}

// Wedding carries the event details quoted in guest confirmations.
type Wedding struct {
	BrideName string
	GroomName string
	Date      string
	Location  string
}

// Message is a composed, unrendered notification.
type Message struct {
	Audience  Audience
	Event     models.EventKind
	To        string
	Subject   string
	Attending bool
	Fields    Fields
	Wedding   Wedding
}

// ComposerConfig holds the site-specific values used while composing.
type ComposerConfig struct {
	SiteURL    string
	UpdatePath string
	AdminEmail string
	Wedding    Wedding
}

// Composer builds admin notices and guest confirmations from records.
type Composer struct {
	vocab *vocabulary.Vocabulary
	cfg   ComposerConfig
}

// NewComposer creates a composer
func NewComposer(vocab *vocabulary.Vocabulary, cfg ComposerConfig) *Composer {
	if cfg.UpdatePath == "" {
		cfg.UpdatePath = "/update-rsvp"
	}
	if !strings.HasPrefix(cfg.UpdatePath, "/") {
		cfg.UpdatePath = "/" + cfg.UpdatePath
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &Composer{vocab: vocab, cfg: cfg}
}

// UpdateLink is the stable link a guest uses to change their RSVP.
func (c *Composer) UpdateLink(id string) string {
	return c.cfg.SiteURL + c.cfg.UpdatePath + "?" + url.Values{"uuid": {id}}.Encode()
}

// ComposeAdminNotice builds the message sent to the couple.
func (c *Composer) ComposeAdminNotice(rec models.GuestRecord, kind models.EventKind) Message {
	subject := "New RSVP Submission"
	if kind == models.EventUpdated {
		subject = "RSVP Updated"
	}
	return Message{
		Audience:  AudienceAdmin,
		Event:     kind,
		To:        c.cfg.AdminEmail,
		Subject:   subject,
		Attending: rec.Attending,
		Fields:    c.fields(rec),
		Wedding:   c.cfg.Wedding,
	}
}

// ComposeGuestConfirmation builds the message sent to the guest.
func (c *Composer) ComposeGuestConfirmation(rec models.GuestRecord, kind models.EventKind) Message {
	subject := "Thanks for your RSVP!"
	if kind == models.EventUpdated {
		subject = "Your RSVP has been updated"
	}
	return Message{
		Audience:  AudienceGuest,
		Event:     kind,
		To:        rec.Email,
		Subject:   subject,
		Attending: rec.Attending,
		Fields:    c.fields(rec),
		Wedding:   c.cfg.Wedding,
	}
}

func (c *Composer) fields(rec models.GuestRecord) Fields {
	f := Fields{
		GuestName:  rec.Name,
		GuestEmail: rec.Email,
		Attending:  "No",
		Dessert:    "N/A",
		Topping:    "None",
		Allergies:  "None",
		UpdateLink: c.UpdateLink(rec.ID),
	}
	if rec.Attending {
		f.Attending = "Yes"
		f.Dessert = c.vocab.Desserts.Label(rec.DessertChoice)
		f.Topping = c.vocab.Toppings.Label(rec.DessertTopping)
		if rec.Allergies != "" {
			f.Allergies = rec.Allergies
		}
	}
	return f
}
