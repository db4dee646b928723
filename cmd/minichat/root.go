package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"minichat/internal/chatapi"
	"minichat/internal/config"
	"minichat/internal/logging"
	"minichat/internal/service"
	"minichat/internal/ui"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	api    chatapi.API

	baseURL string
	userID  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "minichat",
		Short:         "Minimal chat client for the Mini Chatbox server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd.Context(), a.cfg.UIMode)
		},
	}
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "chat server base URL (overrides MINICHAT_BASE_URL)")
	root.PersistentFlags().StringVar(&a.userID, "user", "", "user id (overrides MINICHAT_USER_ID)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the terminal chat window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.interactive(cmd.Context(), config.UITUI)
			},
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Chat line by line (/history, /user <id>, /quit)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.interactive(cmd.Context(), config.UILine)
			},
		},
		&cobra.Command{
			Use:   "send <message...>",
			Short: "Send one message and print the reply",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a.sendOnce(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "Print the conversation history for the user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a.historyOnce(cmd.Context(), cmd.OutOrStdout())
				return nil
			},
		},
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if cmd.Flags().Changed("user") {
		cfg.UserID = a.userID
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.api = chatapi.NewHTTPClient(cfg.BaseURL, cfg.HTTPTimeout, logger)
	logger.Info("minichat started", zap.String("base_url", cfg.BaseURL), zap.String("command", cmd.Name()))
	return nil
}

func (a *app) interactive(ctx context.Context, mode string) error {
	if mode == config.UIAuto {
		mode = config.UILine
		if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			mode = config.UITUI
		}
	}
	if mode == config.UITUI {
		return a.runTUI(ctx)
	}
	return a.runLine(ctx)
}

func (a *app) runTUI(ctx context.Context) error {
	tui := ui.NewTUI(a.cfg.UserID)
	ctrl := service.NewChatController(a.api, tui, tui, tui.Go, a.logger)
	tui.Bind(ctx, ctrl)
	return tui.Run(ctrl)
}

func (a *app) runLine(ctx context.Context) error {
	var (
		reader ui.LineReader
		out    io.Writer = os.Stdout
	)
	if isTerminal(os.Stdin) {
		rl, err := ui.NewReadlineReader("> ")
		if err != nil {
			return err
		}
		reader, out = rl, rl
	} else {
		reader = ui.NewBufioReader(os.Stdin)
	}
	defer reader.Close()

	win := ui.NewLineWindow(out)
	form := ui.NewLineForm(a.cfg.UserID)
	group := service.NewTaskGroup(win.Render)
	ctrl := service.NewChatController(a.api, win, form, group.Run, a.logger)

	err := ui.RunLine(ctx, reader, ctrl, form, win)
	group.Wait()
	return err
}

func (a *app) sendOnce(ctx context.Context, out io.Writer, text string) {
	win := ui.NewLineWindow(out)
	form := ui.NewLineForm(a.cfg.UserID)
	form.SetMessage(text)
	group := service.NewTaskGroup(win.Render)
	ctrl := service.NewChatController(a.api, win, form, group.Run, a.logger)

	win.Render(func() { ctrl.SendMessage(ctx) })
	group.Wait()
}

// printWindow no imprime el separador de Clear: en un solo comando no hay nada que limpiar.
type printWindow struct {
	*ui.LineWindow
}

func (printWindow) Clear() {}

func (a *app) historyOnce(ctx context.Context, out io.Writer) {
	win := ui.NewLineWindow(out)
	group := service.NewTaskGroup(win.Render)
	ctrl := service.NewChatController(a.api, printWindow{win}, ui.NewLineForm(a.cfg.UserID), group.Run, a.logger)

	win.Render(func() { ctrl.LoadHistory(ctx) })
	group.Wait()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
