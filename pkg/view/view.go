package view

// View is a renderable web page surface owned by the launcher.
// Navigation calls return once the engine accepted them; they do not wait for the page to load.
type View interface {
	LoadURL(url string) error
	GoBack() error
	GoForward() error
	Reload() error
	Toplevel() Toplevel
	Close() error
}

// Toplevel is the window-like object hosting a View
type Toplevel interface {
	Resize(width, height int) error
	Maximize() error
	Unmaximize() error
	Fullscreen() error
	Unfullscreen() error
}

// Default window size applied at startup
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)
