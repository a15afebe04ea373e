package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"dev/bravebird/browser-launcher/pkg/models"
	"dev/bravebird/browser-launcher/pkg/view"
)

// DefaultTimeout bounds how long a navigation call may block the caller
const DefaultTimeout = 5 * time.Second

// Options configures how the browser process is launched
type Options struct {
	Bin        string // Browser binary, empty lets rod pick or download one
	Headless   bool
	Automation bool          // Marks the browser as controlled by automation
	Timeout    time.Duration // Per navigation call, defaults to DefaultTimeout
	Logger     *slog.Logger
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// View is a go-rod backed view.View. It drives exactly one page.
type View struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	logger   *slog.Logger
}

// Launch starts a browser and opens a single blank page in it
func Launch(opts Options) (*View, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Launching browser", "headless", opts.Headless, "automation", opts.Automation)

	l := launcher.New()
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	l = l.Headless(opts.Headless)

	// Flags for container compatibility
	l = l.Set("no-sandbox")
	l = l.Set("disable-gpu")
	l = l.Set("disable-dev-shm-usage")

	if opts.Automation {
		l = l.Set("enable-automation")
	} else {
		l = l.Delete("enable-automation")
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	logger.Info("Browser view created", "controlURL", url)

	return &View{
		launcher: l,
		browser:  b,
		page:     page,
		timeout:  opts.timeout(),
		logger:   logger,
	}, nil
}

// LoadURL starts navigating to url. The call gives up waiting once the
// timeout passes; the navigation itself keeps going in the browser.
func (v *View) LoadURL(url string) error {
	return v.bounded(func(p *rod.Page) error { return p.Navigate(url) })
}

// GoBack navigates backward in session history
func (v *View) GoBack() error {
	return v.bounded((*rod.Page).NavigateBack)
}

// GoForward navigates forward in session history
func (v *View) GoForward() error {
	return v.bounded((*rod.Page).NavigateForward)
}

// Reload reloads the current page
func (v *View) Reload() error {
	return v.bounded((*rod.Page).Reload)
}

func (v *View) bounded(fn func(*rod.Page) error) error {
	p := v.page.Timeout(v.timeout)
	defer p.CancelTimeout()
	return fn(p)
}

// Toplevel returns the window hosting the page
func (v *View) Toplevel() view.Toplevel {
	return &window{page: v.page}
}

// Close closes the page and shuts the browser process down
func (v *View) Close() error {
	var firstErr error
	if err := v.page.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close page: %w", err)
	}
	if err := v.browser.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close browser: %w", err)
	}
	v.launcher.Cleanup()
	return firstErr
}

// windowSetter is the part of *rod.Page used by window
type windowSetter interface {
	SetWindow(bounds *proto.BrowserBounds) error
}

var windowStates = map[models.WindowState]proto.BrowserWindowState{
	models.WindowNormal:     proto.BrowserWindowStateNormal,
	models.WindowMaximized:  proto.BrowserWindowStateMaximized,
	models.WindowFullscreen: proto.BrowserWindowStateFullscreen,
}

// window maps Toplevel operations onto CDP window bounds
type window struct {
	page windowSetter
}

func (w *window) Resize(width, height int) error {
	// Size can only be changed while the window is in normal state
	if err := w.setState(models.WindowNormal); err != nil {
		return err
	}
	return w.page.SetWindow(&proto.BrowserBounds{
		Width:  &width,
		Height: &height,
	})
}

func (w *window) Maximize() error {
	return w.setState(models.WindowMaximized)
}

func (w *window) Unmaximize() error {
	return w.setState(models.WindowNormal)
}

func (w *window) Fullscreen() error {
	return w.setState(models.WindowFullscreen)
}

func (w *window) Unfullscreen() error {
	return w.setState(models.WindowNormal)
}

func (w *window) setState(state models.WindowState) error {
	cdp, ok := windowStates[state]
	if !ok {
		return fmt.Errorf("unknown window state %q", state)
	}
	return w.page.SetWindow(&proto.BrowserBounds{WindowState: cdp})
}
