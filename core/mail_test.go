package core

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	base := ContextData{AppName: "Huda Academy", FrontendBaseURL: "https://huda.test"}

	t.Run("plain body", func(t *testing.T) {
		msg := &EmailMessage{To: []mail.Address{{Address: "a@test.in"}}, BodyStr: "hello"}
		require.NoError(t, msg.Render(base))
		assert.Equal(t, "hello", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
		assert.True(t, msg.HasRecipients())
		assert.True(t, msg.HasContent())
	})

	t.Run("template", func(t *testing.T) {
		msg := &EmailMessage{
			TemplateName: "registration_received",
			TemplateData: map[string]string{"Name": "Aysha", "Date": "2024-05-10", "Phone": "9999999999"},
		}
		require.NoError(t, msg.Render(base))
		assert.True(t, strings.HasPrefix(msg.TextContent, "Assalamu alaikum Aysha,"))
		assert.Contains(t, msg.TextContent, "The Huda Academy team")
		assert.Contains(t, msg.HTMLContent, "<p>Assalamu alaikum Aysha,</p>")
		assert.Contains(t, msg.HTMLContent, `href="https://huda.test"`)
	})

	t.Run("missing data", func(t *testing.T) {
		msg := &EmailMessage{TemplateName: "registration_received", TemplateData: map[string]string{}}
		assert.Error(t, msg.Render(base))
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := &EmailMessage{TemplateName: "nope"}
		require.NoError(t, msg.Render(base))
		assert.False(t, msg.HasContent())
	})
}
