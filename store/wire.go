package store

import (
	"github.com/scylladb/go-set/strset"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/attachment"
)

func sessionFromWire(chat *api.Chat) *Session {
	session := &Session{
		ID:        chat.ID,
		Owner:     chat.UserID,
		Title:     chat.Title,
		UpdatedAt: chat.UpdatedAt,
	}
	for _, message := range chat.Messages {
		session.Messages = append(session.Messages, MessageFromWire(message))
	}
	return session
}

// MessageFromWire converts a wire turn into the typed variant.
func MessageFromWire(message api.ChatMessage) Message {
	if message.Role == api.RoleUser {
		user := &UserMessage{
			MessageID: message.ID,
			Body:      message.Text,
			At:        message.Timestamp,
		}
		for _, att := range message.Attachments {
			user.Attachments = append(user.Attachments, &attachment.Attachment{
				Kind:      attachment.Kind(att.Type),
				MediaType: att.MimeType,
				Data:      att.Data,
				Name:      att.Name,
			})
		}
		return user
	}

	assistant := &AssistantMessage{
		MessageID: message.ID,
		Body:      message.Text,
		At:        message.Timestamp,
	}
	// The backend occasionally cites the same locator more than once when
	// several grounding chunks resolve to one document.
	seen := strset.New()
	for _, source := range message.GroundingSources {
		if source.URI != "" && seen.Has(source.URI) {
			continue
		}
		seen.Add(source.URI)
		assistant.Sources = append(assistant.Sources, Source{Title: source.Title, URI: source.URI})
	}
	return assistant
}

// AttachmentsToWire converts pending attachments into their request form.
func AttachmentsToWire(attachments []*attachment.Attachment) []api.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	wire := make([]api.Attachment, 0, len(attachments))
	for _, att := range attachments {
		wire = append(wire, api.Attachment{
			Type:     string(att.Kind),
			MimeType: att.MediaType,
			Data:     att.Data,
			Name:     att.Name,
		})
	}
	return wire
}
