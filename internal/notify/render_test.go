package notify

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

func TestRenderText_Golden(t *testing.T) {
	c := newTestComposer()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	g.Assert(t, "admin_created_attending", []byte(RenderText(c.ComposeAdminNotice(johnDoe(), models.EventCreated))))
	g.Assert(t, "guest_updated_declined", []byte(RenderText(c.ComposeGuestConfirmation(jo(), models.EventUpdated))))
}

func TestRenderHTML_Guest(t *testing.T) {
	c := newTestComposer()

	body, err := RenderHTML(c.ComposeGuestConfirmation(johnDoe(), models.EventCreated))
	require.NoError(t, err)

	assert.Contains(t, body, "Thank you for your RSVP, John Doe!")
	assert.Contains(t, body, "We&#39;re so happy you&#39;ll be joining us!")
	assert.Contains(t, body, "Saturday, 6 June 2026")
	assert.Contains(t, body, "Lemon Cake")
	assert.Contains(t, body, `href="https://wedding.example/update-rsvp?uuid=id-1"`)
	assert.NotContains(t, body, "jane@ex.com")
}

func TestRenderHTML_Admin(t *testing.T) {
	c := newTestComposer()

	body, err := RenderHTML(c.ComposeAdminNotice(jo(), models.EventUpdated))
	require.NoError(t, err)

	assert.Contains(t, body, "<h2>RSVP Updated</h2>")
	assert.Contains(t, body, "jo@x.com")
	assert.Contains(t, body, "<strong>Dessert:</strong> N/A")
}

func TestRenderHTML_EscapesGuestInput(t *testing.T) {
	c := newTestComposer()
	rec := johnDoe()
	rec.Name = "<script>alert(1)</script>"

	body, err := RenderHTML(c.ComposeAdminNotice(rec, models.EventCreated))
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
