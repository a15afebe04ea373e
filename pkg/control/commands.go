package control

import (
	"strings"

	"dev/bravebird/browser-launcher/pkg/models"
	"dev/bravebird/browser-launcher/pkg/view"
)

// action applies a fixed command to a view
type action func(v view.View) error

type commandEntry struct {
	token string
	kind  models.CommandKind
	apply action
}

// commandTable is matched in order, first exact match wins.
// Anything that matches no entry is a URL.
var commandTable = []commandEntry{
	{"back", models.CommandBack, func(v view.View) error { return v.GoBack() }},
	{"forward", models.CommandForward, func(v view.View) error { return v.GoForward() }},
	{"reload", models.CommandReload, func(v view.View) error { return v.Reload() }},
	{"unfullscreen", models.CommandUnfullscreen, func(v view.View) error { return v.Toplevel().Unfullscreen() }},
	{"fullscreen", models.CommandFullscreen, func(v view.View) error { return v.Toplevel().Fullscreen() }},
	{"unmaximized", models.CommandUnmaximize, func(v view.View) error { return v.Toplevel().Unmaximize() }},
	{"maximized", models.CommandMaximize, func(v view.View) error { return v.Toplevel().Maximize() }},
}

// Parse turns raw control text into a command. Matching is case-sensitive
// and ignores leading and trailing whitespace.
func Parse(raw string) models.Command {
	text := strings.TrimSpace(raw)
	if text == models.AckText {
		return models.Command{Kind: models.CommandDone}
	}
	for _, e := range commandTable {
		if text == e.token {
			return models.Command{Kind: e.kind}
		}
	}
	return models.Command{Kind: models.CommandURL, URL: text}
}

func lookupAction(kind models.CommandKind) action {
	for _, e := range commandTable {
		if e.kind == kind {
			return e.apply
		}
	}
	return nil
}
