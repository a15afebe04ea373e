package control

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"dev/bravebird/browser-launcher/pkg/models"
	"dev/bravebird/browser-launcher/pkg/view"
)

// ErrPollerStopped is returned by Submit once Run has returned
var ErrPollerStopped = errors.New("poller stopped")

// Recorder stores dispatched commands
type Recorder interface {
	RecordCommand(ctx context.Context, rec *models.CommandRecord) error
}

// Options configures a Poller
type Options struct {
	Interval time.Duration // Defaults to one second
	Watch    bool          // Also tick when the control file changes
	Recorder Recorder      // Optional
	Logger   *slog.Logger
}

type submitRequest struct {
	text  string
	reply chan models.Command
}

// Poller owns the browser view and applies control commands to it.
// All view access happens on the goroutine running Run.
type Poller struct {
	channel  *Channel
	view     view.View
	interval time.Duration
	watch    bool
	recorder Recorder
	logger   *slog.Logger

	lastURL string
	loaded  bool

	requests chan submitRequest
	stopped  chan struct{}
}

// NewPoller creates a poller for the control file at path driving v
func NewPoller(path string, v view.View, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Poller{
		channel:  NewChannel(path),
		view:     v,
		interval: opts.Interval,
		watch:    opts.Watch,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		requests: make(chan submitRequest),
		stopped:  make(chan struct{}),
	}
}

// LastURL returns the URL most recently loaded into the view
func (p *Poller) LastURL() string {
	return p.lastURL
}

// Tick reads the control file once and applies what it finds.
// An unreadable file is a no-op until the next tick.
func (p *Poller) Tick(ctx context.Context) {
	p.tick(ctx, false)
}

// Watch wake-ups ignore an empty file. It is usually a writer that has
// truncated but not yet written, and the next poll still sees it.
func (p *Poller) tick(ctx context.Context, watched bool) {
	content, err := p.channel.Read()
	if err != nil {
		p.logger.Warn("Failed to read the file", "path", p.channel.Path(), "error", err)
		return
	}
	if watched && strings.TrimSpace(content) == "" {
		return
	}

	cmd := Parse(content)
	if cmd.IsIdle() {
		return
	}

	p.logger.Info("Processing action", "action", strings.TrimSpace(content))
	p.dispatch(ctx, models.SourceFile, content, cmd)

	if err := p.channel.Ack(); err != nil {
		p.logger.Warn("Failed to acknowledge command", "path", p.channel.Path(), "error", err)
	}
}

// dispatch issues the command to the view without waiting for the engine to finish it
func (p *Poller) dispatch(ctx context.Context, source models.CommandSource, raw string, cmd models.Command) {
	rec := &models.CommandRecord{
		ID:         uuid.New().String(),
		Source:     source,
		Kind:       cmd.Kind,
		Raw:        raw,
		URL:        cmd.URL,
		ReceivedAt: time.Now(),
	}

	var err error
	if cmd.Kind == models.CommandURL {
		if p.loaded && cmd.URL == p.lastURL {
			rec.Skipped = true
			p.logger.Debug("URL already loaded, skipping", "url", cmd.URL)
		} else {
			err = p.view.LoadURL(cmd.URL)
			p.lastURL = cmd.URL
			p.loaded = true
		}
	} else if apply := lookupAction(cmd.Kind); apply != nil {
		err = apply(p.view)
	}

	if err != nil {
		// Engine errors are not recovered; the command still counts as accepted
		rec.EngineErr = err.Error()
		p.logger.Debug("Browser engine reported an error", "kind", cmd.Kind, "error", err)
	}

	if p.recorder != nil {
		if err := p.recorder.RecordCommand(ctx, rec); err != nil {
			p.logger.Warn("Failed to record command", "id", rec.ID, "error", err)
		}
	}
}

// Submit hands a command to the running loop and waits until it was dispatched.
// The control file is not touched.
func (p *Poller) Submit(ctx context.Context, text string) (models.Command, error) {
	req := submitRequest{text: text, reply: make(chan models.Command, 1)}

	select {
	case p.requests <- req:
	case <-p.stopped:
		return models.Command{}, ErrPollerStopped
	case <-ctx.Done():
		return models.Command{}, ctx.Err()
	}

	select {
	case cmd := <-req.reply:
		return cmd, nil
	case <-p.stopped:
		return models.Command{}, ErrPollerStopped
	case <-ctx.Done():
		return models.Command{}, ctx.Err()
	}
}

// Run ticks every interval until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.stopped)

	var changes <-chan struct{}
	if p.watch {
		w, err := newFileWatcher(p.channel.Path(), p.logger)
		if err != nil {
			p.logger.Warn("Failed to watch control file, polling only", "path", p.channel.Path(), "error", err)
		} else {
			defer w.Close()
			go w.Run(ctx)
			changes = w.Changes()
		}
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Polling control file", "path", p.channel.Path(), "interval", p.interval, "watch", changes != nil)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			p.Tick(ctx)

		case <-changes:
			p.tick(ctx, true)

		case req := <-p.requests:
			cmd := Parse(req.text)
			if !cmd.IsIdle() {
				p.logger.Info("Processing automation action", "action", strings.TrimSpace(req.text))
				p.dispatch(ctx, models.SourceAutomation, req.text, cmd)
			}
			req.reply <- cmd
		}
	}
}
