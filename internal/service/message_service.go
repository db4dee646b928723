package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"minichat/internal/domain"
	"minichat/internal/repository"
)

// MessageService encapsula el transcript del servidor de pruebas.
type MessageService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrMessageInvalidInput         = errors.New("message invalid input")
)

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo, now: time.Now}
}

func (s *MessageService) Save(ctx context.Context, msg domain.Message) error {
	if s == nil || s.repo == nil {
		return ErrMessageServiceNotConfigured
	}

	msg.UserID = domain.NormalizeUserID(msg.UserID)
	msg.Text = strings.TrimSpace(msg.Text)

	if msg.Text == "" || (msg.Sender != domain.SenderUser && msg.Sender != domain.SenderBot) {
		return ErrMessageInvalidInput
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}

	return s.repo.Create(ctx, msg)
}

// EchoReply guarda el mensaje del usuario y una respuesta eco del bot.
func (s *MessageService) EchoReply(ctx context.Context, userID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := s.Save(ctx, domain.Message{UserID: userID, Text: text, Sender: domain.SenderUser}); err != nil {
		return "", err
	}
	reply := "You said: " + text
	if err := s.Save(ctx, domain.Message{UserID: userID, Text: reply, Sender: domain.SenderBot}); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *MessageService) ListByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	return s.repo.ListByUserID(ctx, domain.NormalizeUserID(userID))
}
