package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"minichat/internal/chatapi"
	"minichat/internal/domain"
)

var ErrChatControllerNotConfigured = errors.New("chat controller not configured")

// Window es la ventana del chat donde se dibujan las burbujas.
// Las implementaciones garantizan que la ventana solo se modifica desde el hilo de UI.
type Window interface {
	Append(msg domain.ChatMessage)
	Clear()
}

// Form expone los campos de entrada del chat.
type Form interface {
	Message() string
	ClearMessage()
	UserID() string
}

// Runner ejecuta work fuera del hilo de UI y luego corre el render que devuelve
// en el hilo de UI.
type Runner func(work func() (render func()))

// GoRunner lanza cada request en su propia goroutine, sin coordinarlas.
// Solo sirve para ventanas que ya serializan sus escrituras.
func GoRunner(work func() func()) {
	go func() {
		work()()
	}()
}

// TaskGroup es un Runner que permite esperar las requests en vuelo antes de salir.
type TaskGroup struct {
	wg     sync.WaitGroup
	render func(func())
}

// NewTaskGroup crea un TaskGroup. render decide cómo llegar al hilo de UI;
// con nil el render se ejecuta en la misma goroutine de la request.
func NewTaskGroup(render func(func())) *TaskGroup {
	if render == nil {
		render = func(f func()) { f() }
	}
	return &TaskGroup{render: render}
}

func (g *TaskGroup) Run(work func() func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.render(work())
	}()
}

// Wait bloquea hasta que terminan todas las requests lanzadas.
func (g *TaskGroup) Wait() {
	g.wg.Wait()
}

// ChatController conecta el formulario, la ventana y la API del chat.
type ChatController struct {
	api    chatapi.API
	window Window
	form   Form
	run    Runner
	logger *zap.Logger
}

func NewChatController(api chatapi.API, window Window, form Form, run Runner, logger *zap.Logger) *ChatController {
	if run == nil {
		run = GoRunner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatController{
		api:    api,
		window: window,
		form:   form,
		run:    run,
		logger: logger,
	}
}

func (c *ChatController) ready() error {
	if c == nil || c.api == nil || c.window == nil || c.form == nil {
		return ErrChatControllerNotConfigured
	}
	return nil
}

// AddBubble agrega una burbuja al final de la ventana.
func (c *ChatController) AddBubble(text string, sender domain.Sender) {
	if c == nil || c.window == nil {
		return
	}
	c.window.Append(domain.ChatMessage{Text: text, Sender: sender})
}

// Greet muestra el saludo inicial del bot.
func (c *ChatController) Greet() {
	c.AddBubble(domain.GreetingText, domain.SenderBot)
}

// SendMessage envía el texto del formulario. Debe llamarse desde el hilo de UI:
// la burbuja del usuario se dibuja antes de que salga la request.
// Devuelve false si no había nada que enviar.
func (c *ChatController) SendMessage(ctx context.Context) bool {
	if err := c.ready(); err != nil {
		return false
	}

	text := strings.TrimSpace(c.form.Message())
	userID := domain.NormalizeUserID(c.form.UserID())
	if text == "" {
		return false
	}

	c.AddBubble(text, domain.SenderUser)
	c.form.ClearMessage()

	c.run(func() func() {
		resp, err := c.api.PostMessage(ctx, text, userID)
		if err != nil {
			c.logger.Warn("send message failed", zap.String("user_id", userID), zap.Error(err))
			return func() { c.AddBubble(domain.NetworkErrorText, domain.SenderBot) }
		}
		if resp.OK {
			return func() { c.AddBubble(resp.Reply, domain.SenderBot) }
		}
		return func() { c.AddBubble(domain.ErrorBubbleText(resp.Error), domain.SenderBot) }
	})
	return true
}

// LoadHistory limpia la ventana y dibuja el historial del usuario actual.
func (c *ChatController) LoadHistory(ctx context.Context) {
	if err := c.ready(); err != nil {
		return
	}

	userID := domain.NormalizeUserID(c.form.UserID())
	c.window.Clear()

	c.run(func() func() {
		resp, err := c.api.History(ctx, userID)
		if err == nil && resp.OK && resp.History == nil {
			err = errors.New("history list missing")
		}
		if err != nil {
			c.logger.Warn("load history failed", zap.String("user_id", userID), zap.Error(err))
			return func() { c.AddBubble(domain.HistoryErrorText, domain.SenderBot) }
		}
		if !resp.OK {
			c.logger.Info("history not available", zap.String("user_id", userID), zap.String("error", resp.Error))
			return func() {}
		}
		return func() {
			for _, item := range resp.History {
				c.AddBubble(item.Text, item.Sender)
			}
			if len(resp.History) == 0 {
				c.AddBubble(domain.EmptyHistoryText, domain.SenderBot)
			}
		}
	})
}
