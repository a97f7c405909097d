package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"wedding-rsvp/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var emailTemplate = template.Must(
	template.New("email.html.tmpl").
		Funcs(template.FuncMap{"intro": guestIntro}).
		ParseFS(templateFS, "templates/email.html.tmpl"),
)

// RenderHTML renders m as an email body.
func RenderHTML(m Message) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", m.Audience, err)
	}
	return buf.String(), nil
}

// RenderText renders m as a plain chat message.
func RenderText(m Message) string {
	var b strings.Builder

	icon := "📬"
	if m.Audience == AudienceGuest {
		icon = "💌"
	}
	fmt.Fprintf(&b, "%s *%s*\n\n", icon, m.Subject)

	if m.Audience == AudienceGuest {
		fmt.Fprintf(&b, "Dear %s,\n\n%s\n\n", m.Fields.GuestName, guestIntro(m))
	}

	fmt.Fprintf(&b, "Name: %s\n", m.Fields.GuestName)
	if m.Audience == AudienceAdmin {
		fmt.Fprintf(&b, "Email: %s\n", m.Fields.GuestEmail)
	}
	fmt.Fprintf(&b, "Attending: %s\n", m.Fields.Attending)
	fmt.Fprintf(&b, "Dessert: %s\n", m.Fields.Dessert)
	fmt.Fprintf(&b, "Topping: %s\n", m.Fields.Topping)
	fmt.Fprintf(&b, "Allergies: %s\n", m.Fields.Allergies)
	fmt.Fprintf(&b, "\nUpdate link: %s\n", m.Fields.UpdateLink)

	return b.String()
}

func guestIntro(m Message) string {
	var intro string
	if m.Attending {
		intro = "We're so happy you'll be joining us!"
	} else {
		intro = "We're sorry you can't join us, but thank you for letting us know."
	}
	if m.Event == models.EventUpdated {
		intro = "Your RSVP has been updated. " + intro
	}
	return intro
}
