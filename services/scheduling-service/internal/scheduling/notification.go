package scheduling

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

// Notification is the message announcing a booking. Nothing here sends it.
type Notification struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

func (f *Facade) notification(appt model.Appointment) Notification {
	text := fmt.Sprintf("New booking!\nClient: %s\nPhone: %s\nService: %s\nDate: %s\nTime: %s",
		appt.ClientName, appt.ClientPhone, f.catalog.Name(appt.Service), appt.Date, appt.Time)
	if appt.Notes != "" {
		text += "\nNotes: " + appt.Notes
	}
	return Notification{Text: text, Link: WhatsAppLink(f.cfg.WhatsAppNumber, text)}
}

// WhatsAppLink builds a click-to-chat URL with text percent-encoded.
func WhatsAppLink(number, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + number + "?text=" + escaped
}
