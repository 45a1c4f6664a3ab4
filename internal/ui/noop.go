package ui

import (
	"github.com/mkern/scribe/internal/paths"
	"github.com/mkern/scribe/internal/protocol"
)

// Noop returns a widget set that accepts every call and declines every
// prompt. It backs headless runs and keeps the control layer testable
// before real widgets are attached.
func Noop() Widgets {
	return Widgets{
		Directories: noopDirectories{},
		Preview:     noopPreview{},
		Editor:      &noopEditor{},
		Body:        noopBody{},
		Toolbar:     noopToolbar{},
	}
}

type noopDirectories struct{}

func (noopDirectories) Refresh(root, current *paths.Node) {}
func (noopDirectories) Select(current *paths.Node)        {}
func (noopDirectories) Focus()                            {}
func (noopDirectories) Toggle()                           {}

type noopPreview struct{}

func (noopPreview) Refresh(dir, currentDoc *paths.Node)         {}
func (noopPreview) Select(doc *paths.Node)                      {}
func (noopPreview) Focus()                                      {}
func (noopPreview) Toggle()                                     {}
func (noopPreview) SetSnippets(on bool)                         {}
func (noopPreview) ShowSearchResults(hits []protocol.SearchHit) {}

// noopEditor keeps the last opened content so file-save still has
// something to send.
type noopEditor struct {
	content string
}

func (e *noopEditor) Open(doc *paths.Node, content string)  { e.content = content }
func (e *noopEditor) Close()                                { e.content = "" }
func (e *noopEditor) Content() string                       { return e.content }
func (e *noopEditor) RunCommand(cmd protocol.EditorCommand) {}
func (e *noopEditor) SetZoom(percent int)                   {}

type noopBody struct{}

func (noopBody) Confirm(question string) bool                   { return false }
func (noopBody) AskName(title, initial string) (string, bool)   { return "", false }
func (noopBody) AskExportFormat(doc *paths.Node) (string, bool) { return "", false }
func (noopBody) ShowPreferences(prefs protocol.Preferences)     {}
func (noopBody) Quicklook(doc *paths.Node, content string)      {}
func (noopBody) Notify(message string)                          {}

type noopToolbar struct{}

func (noopToolbar) ApplyTheme(dark bool) {}
func (noopToolbar) Pomodoro()            {}
