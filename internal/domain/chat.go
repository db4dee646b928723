package domain

import "strings"

// Sender identifica quién escribió un mensaje del chat.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// DefaultUserID se usa cuando el identificador llega vacío.
const DefaultUserID = "guest"

// Textos fijos que el cliente muestra como burbujas del bot.
const (
	GreetingText       = "Hello! I’m Mini Chatbox AI. Type something to get started ✨"
	NetworkErrorText   = "Network error. Please try again."
	HistoryErrorText   = "Could not load history."
	EmptyHistoryText   = "No history yet. Say hi! 👋"
	UnknownErrorReason = "Unknown"
)

// IsUser indica si el mensaje se dibuja con estilo de usuario.
// Cualquier otro valor se trata como bot.
func (s Sender) IsUser() bool {
	return s == SenderUser
}

// ChatMessage es una burbuja del chat. Solo vive mientras se dibuja.
type ChatMessage struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// NormalizeUserID recorta el identificador y aplica el valor por defecto.
func NormalizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return DefaultUserID
	}
	return userID
}

// ErrorBubbleText arma el texto para una respuesta ok:false.
func ErrorBubbleText(reason string) string {
	if reason == "" {
		reason = UnknownErrorReason
	}
	return "Error: " + reason
}
