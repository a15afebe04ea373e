package control

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"dev/bravebird/browser-launcher/pkg/models"
	"dev/bravebird/browser-launcher/pkg/view"
)

// fakeView records every call made to it
type fakeView struct {
	mu    sync.Mutex
	calls []string
	loads []string
	err   error
}

func (f *fakeView) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeView) LoadURL(url string) error {
	f.mu.Lock()
	f.loads = append(f.loads, url)
	f.mu.Unlock()
	return f.record("load")
}

func (f *fakeView) GoBack() error           { return f.record("back") }
func (f *fakeView) GoForward() error        { return f.record("forward") }
func (f *fakeView) Reload() error           { return f.record("reload") }
func (f *fakeView) Close() error            { return f.record("close") }
func (f *fakeView) Toplevel() view.Toplevel { return &fakeToplevel{view: f} }

func (f *fakeView) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeView) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

type fakeToplevel struct {
	view *fakeView
}

func (t *fakeToplevel) Resize(width, height int) error { return t.view.record("resize") }
func (t *fakeToplevel) Maximize() error                { return t.view.record("maximize") }
func (t *fakeToplevel) Unmaximize() error              { return t.view.record("unmaximize") }
func (t *fakeToplevel) Fullscreen() error              { return t.view.record("fullscreen") }
func (t *fakeToplevel) Unfullscreen() error            { return t.view.record("unfullscreen") }

// fakeRecorder collects journal records
type fakeRecorder struct {
	mu      sync.Mutex
	records []models.CommandRecord
	err     error
}

func (r *fakeRecorder) RecordCommand(ctx context.Context, rec *models.CommandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return r.err
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
