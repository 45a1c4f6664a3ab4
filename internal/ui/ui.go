// Package ui declares the interface boundary to the visual widgets. The
// router drives these as opaque sinks; rendering and layout live
// entirely behind them.
package ui

import (
	"github.com/mkern/scribe/internal/paths"
	"github.com/mkern/scribe/internal/protocol"
)

// Directories is the folder tree widget.
type Directories interface {
	Refresh(root, current *paths.Node)
	Select(current *paths.Node)
	Focus()
	Toggle()
}

// Preview is the document list of the current folder.
type Preview interface {
	Refresh(dir, currentDoc *paths.Node)
	Select(doc *paths.Node)
	Focus()
	Toggle()
	SetSnippets(on bool)
	ShowSearchResults(hits []protocol.SearchHit)
}

// Editor is the editing surface.
type Editor interface {
	Open(doc *paths.Node, content string)
	Close()
	Content() string
	RunCommand(cmd protocol.EditorCommand)
	SetZoom(percent int)
}

// Body is the dialog and notification layer. Confirm and AskName are
// synchronous modal prompts; the second return reports cancellation.
type Body interface {
	Confirm(question string) bool
	AskName(title, initial string) (string, bool)
	AskExportFormat(doc *paths.Node) (string, bool)
	ShowPreferences(prefs protocol.Preferences)
	Quicklook(doc *paths.Node, content string)
	Notify(message string)
}

// Toolbar is the toolbar strip.
type Toolbar interface {
	ApplyTheme(dark bool)
	Pomodoro()
}

// Widgets bundles one of each collaborator for injection into the
// router.
type Widgets struct {
	Directories Directories
	Preview     Preview
	Editor      Editor
	Body        Body
	Toolbar     Toolbar
}
