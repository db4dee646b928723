package domain

import "time"

// Message es un registro del transcript que guarda el servidor de pruebas.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// Bubble devuelve la vista de chat del registro.
func (m Message) Bubble() ChatMessage {
	return ChatMessage{Text: m.Text, Sender: m.Sender}
}
