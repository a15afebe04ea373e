package models

import (
	"time"
)

// ==================== Command Types ====================

// CommandKind identifies what a control command asks the browser view to do
type CommandKind string

const (
	CommandDone         CommandKind = "done"         // Idle marker, nothing to do
	CommandBack         CommandKind = "back"         // Navigate backward in session history
	CommandForward      CommandKind = "forward"      // Navigate forward in session history
	CommandReload       CommandKind = "reload"       // Reload current page
	CommandUnfullscreen CommandKind = "unfullscreen" // Exit fullscreen
	CommandFullscreen   CommandKind = "fullscreen"   // Enter fullscreen
	CommandUnmaximize   CommandKind = "unmaximized"  // Restore window from maximized
	CommandMaximize     CommandKind = "maximized"    // Maximize window
	CommandURL          CommandKind = "url"          // Anything else is loaded as a URL
)

// AckText is written back to the control file once a command was accepted
const AckText = "done"

// Command is a parsed control command. URL is set only for CommandURL.
type Command struct {
	Kind CommandKind `json:"kind"`
	URL  string      `json:"url,omitempty"`
}

// IsIdle reports whether the command requires no action at all
func (c Command) IsIdle() bool {
	return c.Kind == CommandDone
}

// CommandSource tells where a command came from
type CommandSource string

const (
	SourceFile       CommandSource = "file"
	SourceAutomation CommandSource = "automation"
)

// ==================== Journal Types ====================

// CommandRecord is a single dispatched command as stored in the journal
type CommandRecord struct {
	ID         string        `json:"id" db:"id"`
	Source     CommandSource `json:"source" db:"source"`
	Kind       CommandKind   `json:"kind" db:"kind"`
	Raw        string        `json:"raw" db:"raw"`
	URL        string        `json:"url,omitempty" db:"url"`
	Skipped    bool          `json:"skipped" db:"skipped"` // URL equal to the last loaded one
	EngineErr  string        `json:"engine_error,omitempty" db:"engine_error"`
	ReceivedAt time.Time     `json:"received_at" db:"received_at"`
}

// ==================== Window Types ====================

// WindowState is the state of the browser's top-level window
type WindowState string

const (
	WindowNormal     WindowState = "normal"
	WindowMaximized  WindowState = "maximized"
	WindowFullscreen WindowState = "fullscreen"
)

// ==================== Automation Types ====================

// ApplicationInfo identifies this launcher to automation controllers
type ApplicationInfo struct {
	Name  string `json:"name"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Micro int    `json:"micro"`
}

// SessionInfo describes an attached automation session
type SessionInfo struct {
	SessionID  string    `json:"session_id"`
	AttachedAt time.Time `json:"attached_at"`
}

// CommandRequest is sent by an automation controller over the websocket
type CommandRequest struct {
	Command string `json:"command"`
}

// ==================== WebSocket Message Types ====================

// WSMessage represents a WebSocket message exchanged with automation controllers
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// CommandAck is the payload of an "ack" message
type CommandAck struct {
	Kind CommandKind `json:"kind"`
	URL  string      `json:"url,omitempty"`
}
