package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/app"
	"github.com/Danondso/sigcap/internal/chime"
	"github.com/Danondso/sigcap/internal/logging"
	"github.com/Danondso/sigcap/internal/notify"
	"github.com/Danondso/sigcap/internal/sample"
	"github.com/Danondso/sigcap/internal/tui"
)

// programSender forwards to a tea.Program once it exists. Messages sent
// before that are dropped.
type programSender struct {
	p atomic.Pointer[tea.Program]
}

func (s *programSender) Send(msg tea.Msg) {
	if p := s.p.Load(); p != nil {
		p.Send(msg)
	}
}

func newChime(s *settings, logger *zap.SugaredLogger) app.Chimer {
	a := s.cfg.Audio
	player, err := chime.New(a.ChimeStart, a.ChimeStop, a.ChimeEnabled, a.ChimeSampleRate, logger)
	if err != nil {
		logger.Warnw("chime disabled", "err", err)
		return nil
	}
	return player
}

func runTUI(ctx context.Context, s *settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sender := &programSender{}
	logger := logging.Nop()
	if s.debug {
		logger = logging.New(logging.DebugLevel, tui.NewLogWriter(sender))
	}

	tui.RegisterCustomThemes(s.cfg.CustomThemes)

	gate, closeGate := newGate(s.cfg, logger)
	defer closeGate()

	ctrl := app.New(app.Options{
		Destination: s.dest,
		Gate:        gate,
		// Sent in order from the caller's goroutine. The model never calls
		// the controller on its update loop, so these cannot deadlock.
		Notifier: notify.Func(func(text string) {
			sender.Send(tui.NoticeMsg{Text: text})
		}),
		Chime:  newChime(s, logger),
		Logger: logger,
		OnSample: func(r sample.Record) {
			sender.Send(tui.SampleMsg{Record: r})
		},
	})

	model := tui.NewModel(ctx, s.cfg, ctrl, logger, s.debug)
	model.ConfigPath = s.cfgPath

	listener, err := createListener(s.cfg, logger)
	if err != nil {
		logger.Warnw("hotkey unavailable", "err", err)
		model.HotkeyName = ""
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	sender.p.Store(p)

	// Send blocks until p.Run is reading messages.
	go ctrl.CheckPermission()

	if listener != nil {
		go func() {
			err := listener.Start(ctx, func() {
				logger.Debugw("hotkey pressed", "key", listener.KeyName())
				p.Send(tui.ToggleMsg{})
			})
			if err != nil && ctx.Err() == nil {
				logger.Warnw("hotkey listener stopped", "err", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	cancel()
	ctrl.Stop()
	return nil
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record without the TUI, then save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			dur, _ := cmd.Flags().GetDuration("for")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.New(s.cfg.Log.Level, os.Stderr)
			defer func() { _ = logger.Sync() }()

			return runRecord(ctx, s, dur, clockwork.NewRealClock(), logger, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Duration("for", 0, "how long to record (0 waits for Ctrl+C)")
	return cmd
}

// runRecord records until dur has elapsed on clock or ctx is done, then
// stops and saves.
func runRecord(ctx context.Context, s *settings, dur time.Duration, clock clockwork.Clock, logger *zap.SugaredLogger, out io.Writer) error {
	gate, closeGate := newGate(s.cfg, logger)
	defer closeGate()

	ctrl := app.New(app.Options{
		Destination: s.dest,
		Gate:        gate,
		Notifier:    notify.NewLogNotifier(logger, clock),
		Chime:       newChime(s, logger),
		Clock:       clock,
		Logger:      logger,
	})

	ctrl.CheckPermission()
	// ctx only bounds the wait below; the session itself ends in
	// StopAndSave so the stop is announced.
	if err := ctrl.Start(context.Background()); err != nil {
		return err
	}

	var timeout <-chan time.Time
	if dur > 0 {
		timeout = clock.After(dur)
	}
	select {
	case <-ctx.Done():
	case <-timeout:
	}

	res, err := ctrl.StopAndSave()
	if err != nil {
		return err
	}
	if res.Empty() {
		fmt.Fprintln(out, "no data recorded")
		return nil
	}
	fmt.Fprintf(out, "%d rows written to %s\n", res.Rows, res.Path)
	return nil
}
