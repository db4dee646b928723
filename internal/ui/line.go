package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ergochat/readline"

	"minichat/internal/domain"
	"minichat/internal/service"
)

// LineWindow escribe una línea por burbuja. Las escrituras se serializan
// para que las respuestas que llegan en otra goroutine no se mezclen.
// ui hace de hilo de UI: Render toma ese lock, Append y Clear toman mu.
type LineWindow struct {
	ui  sync.Mutex
	mu  sync.Mutex
	out io.Writer
}

func NewLineWindow(out io.Writer) *LineWindow {
	return &LineWindow{out: out}
}

func (w *LineWindow) Append(msg domain.ChatMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, formatLine(msg))
}

func (w *LineWindow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, "---- chat cleared ----")
}

// Notice escribe una línea informativa que no es una burbuja.
func (w *LineWindow) Notice(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, "-- "+text)
}

// Render ejecuta f como única tarea de UI en curso; sirve como render de un TaskGroup.
func (w *LineWindow) Render(f func()) {
	w.ui.Lock()
	defer w.ui.Unlock()
	f()
}

// formatLine antepone la etiqueta del remitente e indenta las líneas siguientes.
func formatLine(msg domain.ChatMessage) string {
	label := "bot > "
	if msg.Sender.IsUser() {
		label = "you > "
	}
	text := strings.ReplaceAll(msg.Text, "\n", "\n"+strings.Repeat(" ", len(label)))
	return label + text
}

// LineForm guarda la última línea leída y el usuario actual.
type LineForm struct {
	mu      sync.Mutex
	message string
	userID  string
}

func NewLineForm(userID string) *LineForm {
	return &LineForm{userID: userID}
}

func (f *LineForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *LineForm) ClearMessage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = ""
}

func (f *LineForm) UserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID
}

func (f *LineForm) SetMessage(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = text
}

func (f *LineForm) SetUserID(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = userID
}

// LineReader lee una línea de entrada sin el salto final. Devuelve io.EOF al terminar.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

type bufioReader struct {
	r *bufio.Reader
}

// NewBufioReader lee de una entrada que no es terminal.
func NewBufioReader(in io.Reader) LineReader {
	return &bufioReader{r: bufio.NewReader(in)}
}

func (b *bufioReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufioReader) Close() error { return nil }

// ReadlineReader usa readline cuando stdin es una terminal.
type ReadlineReader struct {
	rl *readline.Instance
}

func NewReadlineReader(prompt string) (*ReadlineReader, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

// Write imprime por encima del prompt sin romper la línea que se está editando.
func (r *ReadlineReader) Write(p []byte) (int, error) {
	return r.rl.Write(p)
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// RunLine ejecuta el modo línea hasta EOF, /quit o exit.
// Comandos: /history carga el historial, /user <id> cambia el usuario.
func RunLine(ctx context.Context, in LineReader, ctrl *service.ChatController, form *LineForm, win *LineWindow) error {
	win.Render(ctrl.Greet)
	for {
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		cmd := strings.TrimSpace(line)
		switch {
		case strings.EqualFold(cmd, "/quit") || strings.EqualFold(cmd, "exit"):
			return nil
		case strings.EqualFold(cmd, "/history"):
			win.Render(func() { ctrl.LoadHistory(ctx) })
		case cmd == "/user" || strings.HasPrefix(cmd, "/user "):
			form.SetUserID(strings.TrimSpace(strings.TrimPrefix(cmd, "/user")))
			win.Notice("user id: " + domain.NormalizeUserID(form.UserID()))
		default:
			form.SetMessage(line)
			win.Render(func() { ctrl.SendMessage(ctx) })
		}
	}
}
