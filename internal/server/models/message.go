package models

// Message is a direct message between two accounts. Read only ever moves
// from false to true.
type Message struct {
	ID        string
	Sender    string
	Recipient string
	Content   string
	Timestamp int64
	Read      bool
}

// Involves reports whether username is the sender or the recipient.
func (m *Message) Involves(username string) bool {
	return m.Sender == username || m.Recipient == username
}
