package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"minichat/internal/domain"
	"minichat/internal/service"
)

// TUI es la ventana del chat en terminal. Implementa service.Window y service.Form.
// Sus métodos de ventana se llaman solo desde el event loop de tview.
type TUI struct {
	app     *tview.Application
	view    *tview.TextView
	input   *tview.InputField
	user    *tview.InputField
	send    *tview.Button
	history *tview.Button
	root    *tview.Flex
}

func NewTUI(userID string) *TUI {
	t := &TUI{app: tview.NewApplication()}

	t.view = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	t.view.SetBorder(true).SetTitle(" Mini Chatbox ")

	t.user = tview.NewInputField().
		SetLabel("User ID: ").
		SetText(userID).
		SetPlaceholder(domain.DefaultUserID)

	t.input = tview.NewInputField().
		SetLabel("> ").
		SetPlaceholder("Type a message...")

	t.send = tview.NewButton("Send")
	t.history = tview.NewButton("Load History")

	header := tview.NewFlex().
		AddItem(t.user, 0, 1, false).
		AddItem(t.history, 16, 0, false)
	footer := tview.NewFlex().
		AddItem(t.input, 0, 1, true).
		AddItem(t.send, 8, 0, false)

	t.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(t.view, 0, 1, false).
		AddItem(footer, 1, 0, true)
	return t
}

// Append agrega la burbuja y baja la vista al final.
func (t *TUI) Append(msg domain.ChatMessage) {
	fmt.Fprint(t.view, formatBubble(msg))
	t.view.ScrollToEnd()
}

func (t *TUI) Clear() {
	t.view.Clear()
}

func (t *TUI) Message() string {
	return t.input.GetText()
}

func (t *TUI) ClearMessage() {
	t.input.SetText("")
}

func (t *TUI) UserID() string {
	return t.user.GetText()
}

// Render lleva f al event loop y redibuja. Se usa como render de un TaskGroup,
// siempre desde goroutines de request.
func (t *TUI) Render(f func()) {
	t.app.QueueUpdateDraw(f)
}

// Transcript devuelve el texto visible sin etiquetas de color.
func (t *TUI) Transcript() string {
	return t.view.GetText(true)
}

// Bind conecta los eventos de teclado y botones con el controlador.
// Enter o Send envían, Load History o Ctrl+L cargan el historial, Tab cambia de campo.
func (t *TUI) Bind(ctx context.Context, ctrl *service.ChatController) {
	send := func() { ctrl.SendMessage(ctx) }
	load := func() { ctrl.LoadHistory(ctx) }

	t.send.SetSelectedFunc(send)
	t.history.SetSelectedFunc(load)

	t.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			send()
		case tcell.KeyTab:
			t.app.SetFocus(t.user)
		}
	})
	t.user.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab {
			t.app.SetFocus(t.input)
		}
	})

	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlL {
			load()
			return nil
		}
		return event
	})
}

// Run dibuja el saludo y bloquea hasta que el usuario sale con Ctrl+C.
func (t *TUI) Run(ctrl *service.ChatController) error {
	ctrl.Greet()
	return t.app.SetRoot(t.root, true).EnableMouse(true).SetFocus(t.input).Run()
}

// Stop cierra la aplicación.
func (t *TUI) Stop() {
	t.app.Stop()
}

// formatBubble arma la línea con colores de tview. El texto se escapa para que
// el servidor no pueda inyectar etiquetas.
func formatBubble(msg domain.ChatMessage) string {
	if msg.Sender.IsUser() {
		return fmt.Sprintf("[green::b]you >[-:-:-] %s\n", tview.Escape(msg.Text))
	}
	return fmt.Sprintf("[dodgerblue::b]bot >[-:-:-] %s\n", tview.Escape(msg.Text))
}

// Go es el Runner de la TUI: la request corre en su goroutine y el render vuelve al event loop.
// Las requests que siguen en vuelo al salir se abandonan.
func (t *TUI) Go(work func() func()) {
	go func() {
		t.Render(work())
	}()
}
