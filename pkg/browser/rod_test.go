package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev/bravebird/browser-launcher/pkg/models"
	"dev/bravebird/browser-launcher/pkg/view"
)

var _ view.View = (*View)(nil)
var _ view.Toplevel = (*window)(nil)

type fakeSetter struct {
	bounds []proto.BrowserBounds
	err    error
}

func (f *fakeSetter) SetWindow(bounds *proto.BrowserBounds) error {
	f.bounds = append(f.bounds, *bounds)
	return f.err
}

func TestWindowImplementsToplevel(t *testing.T) {
	v := &View{}
	if _, ok := v.Toplevel().(*window); !ok {
		t.Errorf("Toplevel() returned %T, want *window", v.Toplevel())
	}
}

func TestWindowStates(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*window) error
		want  proto.BrowserWindowState
	}{
		{"maximize", (*window).Maximize, proto.BrowserWindowStateMaximized},
		{"unmaximize", (*window).Unmaximize, proto.BrowserWindowStateNormal},
		{"fullscreen", (*window).Fullscreen, proto.BrowserWindowStateFullscreen},
		{"unfullscreen", (*window).Unfullscreen, proto.BrowserWindowStateNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeSetter{}
			require.NoError(t, tt.apply(&window{page: fs}))

			require.Len(t, fs.bounds, 1)
			assert.Equal(t, tt.want, fs.bounds[0].WindowState)
			assert.Nil(t, fs.bounds[0].Width)
			assert.Nil(t, fs.bounds[0].Height)
		})
	}
}

func TestWindowResizeRestoresNormalFirst(t *testing.T) {
	fs := &fakeSetter{}
	w := &window{page: fs}

	require.NoError(t, w.Resize(1024, 768))

	require.Len(t, fs.bounds, 2)
	assert.Equal(t, proto.BrowserWindowStateNormal, fs.bounds[0].WindowState)
	assert.Empty(t, fs.bounds[1].WindowState)
	require.NotNil(t, fs.bounds[1].Width)
	require.NotNil(t, fs.bounds[1].Height)
	assert.Equal(t, 1024, *fs.bounds[1].Width)
	assert.Equal(t, 768, *fs.bounds[1].Height)
}

func TestWindowResizeStopsOnStateError(t *testing.T) {
	fs := &fakeSetter{err: errors.New("no window")}
	w := &window{page: fs}

	assert.Error(t, w.Resize(1024, 768))
	assert.Len(t, fs.bounds, 1)
}

func TestWindowUnknownState(t *testing.T) {
	fs := &fakeSetter{}
	w := &window{page: fs}

	assert.Error(t, w.setState(models.WindowState("minimized")))
	assert.Empty(t, fs.bounds)
}

func TestOptionsTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, Options{}.timeout())
	assert.Equal(t, DefaultTimeout, Options{Timeout: -time.Second}.timeout())
	assert.Equal(t, 2*time.Second, Options{Timeout: 2 * time.Second}.timeout())
}
