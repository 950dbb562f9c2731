// Package telegram is the narrow transport client: inbound update model and
// the handful of Bot API methods the assistant sends through.
package telegram

// Update is one inbound webhook delivery.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the text-message slice of an update. Stickers, photos and
// other media arrive with an empty Text and are ignored upstream.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// Chat identifies the conversation; for private chats the id doubles as the
// user id.
type Chat struct {
	ID int64 `json:"id"`
}
