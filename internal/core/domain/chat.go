package domain

import "time"

// ChatExchange is one user message and the assistant's reply. Malicious is
// the assistant's verdict on the user message, already parsed from the wire
// format (the upstream sends it as the string "true" or "false").
type ChatExchange struct {
	ID        string    `json:"id"`
	UserText  string    `json:"user_text"`
	BotText   string    `json:"bot_text"`
	Malicious bool      `json:"malicious"`
	CreatedAt time.Time `json:"created_at"`
}
