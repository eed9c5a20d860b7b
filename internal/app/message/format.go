package message

import "talentx/internal/app/user"

// FormatMessage annotates m with its sender's display name and avatar. The support
// account is always shown as SupportName.
func FormatMessage(m Message) FormattedMessage {
	out := FormattedMessage{Message: m, SenderName: fallbackSenderName}

	switch {
	case user.IsSupport(m.SenderID):
		out.SenderName = user.SupportName
		out.SenderAvatar = user.SupportAvatar
	case m.Sender != nil:
		if m.Sender.FullName != "" {
			out.SenderName = m.Sender.FullName
		}
		out.SenderAvatar = m.Sender.AvatarURL
	}

	return out
}

// FormatMessages formats every message in order. It never returns nil.
func FormatMessages(msgs []Message) []FormattedMessage {
	out := make([]FormattedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FormatMessage(m))
	}
	return out
}

// FormatThreads turns the latest message of each support thread into a summary.
func FormatThreads(heads []Message) []ThreadSummary {
	out := make([]ThreadSummary, 0, len(heads))

	for _, h := range heads {
		summary := ThreadSummary{
			UserID:      h.SenderID,
			UserName:    fallbackThreadName,
			LastMessage: h.Content,
			Time:        h.Timestamp,
		}

		if h.Sender != nil {
			if h.Sender.FullName != "" {
				summary.UserName = h.Sender.FullName
			}
			if h.Sender.AvatarURL != "" {
				avatar := h.Sender.AvatarURL
				summary.UserAvatar = &avatar
			}
		}

		out = append(out, summary)
	}

	return out
}
