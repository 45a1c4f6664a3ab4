package router

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkern/scribe/internal/paths"
	"github.com/mkern/scribe/internal/protocol"
)

// resolveRef decodes an optional node reference and resolves it against
// the index, falling back to the given node when the payload names no
// identifier. A nil result with a nil error is a lookup miss.
func (r *Router) resolveRef(raw json.RawMessage, fallback *paths.Node) (*paths.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback, nil
	}
	var ref protocol.NodeRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("node reference: %w", err)
	}
	if ref.ID == nil {
		return fallback, nil
	}
	return r.index.Find(*ref.ID), nil
}

// handleTree installs a new tree snapshot. The order is fixed: replace,
// resync the session, and only then notify the widgets, so they never
// see a new tree alongside stale current pointers.
func (r *Router) handleTree(raw json.RawMessage) error {
	var root *paths.Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return fmt.Errorf("tree snapshot: %w", err)
	}
	r.index.Replace(root)
	r.session.Resync(r.index)
	r.applyRestore()
	r.widgets.Directories.Refresh(r.index.Root(), r.session.CurrentFolder())
	r.widgets.Preview.Refresh(r.session.CurrentFolder(), r.session.CurrentDocument())
	return nil
}

// applyRestore reapplies the previous run's selection against the first
// snapshot. One attempt only; whatever resolves, sticks.
func (r *Router) applyRestore() {
	if r.restore == nil {
		return
	}
	s := *r.restore
	r.restore = nil
	if s.LastFolder != 0 {
		if dir := r.index.Find(s.LastFolder); dir != nil {
			r.session.SetCurrentFolder(dir)
		}
	}
	if s.LastDocument != 0 {
		if doc := r.index.Find(s.LastDocument); doc != nil {
			r.session.SetCurrentDocument(doc)
		}
	}
}

func (r *Router) handleDirSetCurrent(raw json.RawMessage) error {
	dir, err := r.resolveRef(raw, nil)
	if err != nil {
		return err
	}
	if dir == nil {
		return fmt.Errorf("dir-set-current: %w", errUnknownNode)
	}
	r.session.SetCurrentFolder(dir)
	r.widgets.Directories.Select(dir)
	r.widgets.Preview.Refresh(dir, r.session.CurrentDocument())
	return nil
}

func (r *Router) handleDirFind(json.RawMessage) error {
	r.widgets.Directories.Focus()
	return nil
}

func (r *Router) handleDirOpen(json.RawMessage) error {
	r.send(protocol.NewRequest(protocol.ReqDirOpen, nil))
	return nil
}

func (r *Router) handleDirRename(raw json.RawMessage) error {
	dir, err := r.resolveRef(raw, r.session.CurrentFolder())
	if err != nil {
		return err
	}
	if dir == nil {
		return fmt.Errorf("dir-rename: %w", errUnknownNode)
	}
	if dir.IsRoot() {
		r.log.Warn("rename of workspace root refused")
		return nil
	}
	name, ok := r.widgets.Body.AskName("Rename folder", dir.Name)
	if !ok {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqDirRename,
		protocol.RenameRequest{ID: dir.ID, Name: name}))
	return nil
}

func (r *Router) handleDirNew(raw json.RawMessage) error {
	parent, err := r.resolveRef(raw, r.session.CurrentFolder())
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("dir-new: %w", errUnknownNode)
	}
	name, ok := r.widgets.Body.AskName("New folder", "")
	if !ok {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqDirNew,
		protocol.CreateRequest{Parent: parent.ID, Name: name}))
	return nil
}

func (r *Router) handleDirDelete(raw json.RawMessage) error {
	dir, err := r.resolveRef(raw, r.session.CurrentFolder())
	if err != nil {
		return err
	}
	if dir == nil {
		return fmt.Errorf("dir-delete: %w", errUnknownNode)
	}
	if dir.IsRoot() {
		r.log.Warn("deletion of workspace root refused")
		return nil
	}
	if !r.widgets.Body.Confirm("Really delete \"" + dir.Name + "\" and everything in it?") {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqDirDelete,
		protocol.NodeRef{ID: &dir.ID}))
	return nil
}

func (r *Router) handleFileSetCurrent(raw json.RawMessage) error {
	doc, err := r.resolveRef(raw, nil)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("file-set-current: %w", errUnknownNode)
	}
	r.session.SetCurrentDocument(doc)
	r.widgets.Preview.Select(doc)
	return nil
}

func (r *Router) handleFileOpen(raw json.RawMessage) error {
	var fc protocol.FileContent
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("file-open: %w", err)
	}
	// The node may be absent from the snapshot (freshly created file,
	// tree update still in flight); the content is opened regardless.
	doc := r.index.Find(fc.ID)
	r.session.SetCurrentDocument(doc)
	r.session.MarkClean()
	r.widgets.Editor.Open(doc, fc.Content)
	r.widgets.Preview.Select(doc)
	return nil
}

func (r *Router) handleFileClose(json.RawMessage) error {
	r.widgets.Editor.Close()
	r.session.SetCurrentDocument(nil)
	r.session.MarkClean()
	return nil
}

// handleFileSave pulls the buffer from the editor and hands it to the
// host. A nil identifier tells the host this is a new, unsaved
// document.
func (r *Router) handleFileSave(json.RawMessage) error {
	var id *uint64
	if doc := r.session.CurrentDocument(); doc != nil {
		id = &doc.ID
	}
	r.send(protocol.NewRequest(protocol.ReqFileSave,
		protocol.SaveRequest{ID: id, Content: r.widgets.Editor.Content()}))
	r.session.MarkClean()
	return nil
}

func (r *Router) handleFileRename(raw json.RawMessage) error {
	doc, err := r.resolveRef(raw, r.session.CurrentDocument())
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("file-rename: %w", errUnknownNode)
	}
	name, ok := r.widgets.Body.AskName("Rename file", doc.Name)
	if !ok {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqFileRename,
		protocol.RenameRequest{ID: doc.ID, Name: name}))
	return nil
}

func (r *Router) handleFileNew(raw json.RawMessage) error {
	parent, err := r.resolveRef(raw, r.session.CurrentFolder())
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("file-new: %w", errUnknownNode)
	}
	name, ok := r.widgets.Body.AskName("New file", "")
	if !ok {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqFileNew,
		protocol.CreateRequest{Parent: parent.ID, Name: name}))
	return nil
}

func (r *Router) handleFileFind(json.RawMessage) error {
	r.widgets.Preview.Focus()
	return nil
}

func (r *Router) handleFileInsert(raw json.RawMessage) error {
	target, err := r.resolveRef(raw, r.session.CurrentFolder())
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("file-insert: %w", errUnknownNode)
	}
	r.send(protocol.NewRequest(protocol.ReqFileInsert,
		protocol.NodeRef{ID: &target.ID}))
	return nil
}

func (r *Router) handleFileDelete(raw json.RawMessage) error {
	doc, err := r.resolveRef(raw, r.session.CurrentDocument())
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("file-delete: %w", errUnknownNode)
	}
	if !r.widgets.Body.Confirm("Really delete \"" + doc.Name + "\"?") {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqFileDelete,
		protocol.NodeRef{ID: &doc.ID}))
	return nil
}

func (r *Router) handleFileSearchResult(raw json.RawMessage) error {
	var res protocol.SearchResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("file-search-result: %w", err)
	}
	r.widgets.Preview.ShowSearchResults(res.Hits)
	return nil
}

func (r *Router) handleToggleTheme(raw json.RawMessage) error {
	toggle, err := decodeToggle(raw)
	if err != nil {
		return err
	}
	r.settings.darkTheme = !r.settings.darkTheme
	r.widgets.Toolbar.ApplyTheme(r.settings.darkTheme)
	if !toggle.SuppressEcho {
		r.send(protocol.PersistConfig(protocol.ConfigDarkTheme, r.settings.darkTheme))
	}
	return nil
}

func (r *Router) handleToggleSnippets(raw json.RawMessage) error {
	toggle, err := decodeToggle(raw)
	if err != nil {
		return err
	}
	r.settings.snippets = !r.settings.snippets
	r.widgets.Preview.SetSnippets(r.settings.snippets)
	if !toggle.SuppressEcho {
		r.send(protocol.PersistConfig(protocol.ConfigSnippets, r.settings.snippets))
	}
	return nil
}

func (r *Router) handleToggleDirectories(json.RawMessage) error {
	r.widgets.Directories.Toggle()
	return nil
}

func (r *Router) handleTogglePreview(json.RawMessage) error {
	r.widgets.Preview.Toggle()
	return nil
}

func (r *Router) handleExport(json.RawMessage) error {
	doc := r.session.CurrentDocument()
	if doc == nil {
		return fmt.Errorf("export: no current document")
	}
	format, ok := r.widgets.Body.AskExportFormat(doc)
	if !ok {
		return nil
	}
	r.send(protocol.NewRequest(protocol.ReqExport,
		protocol.ExportRequest{ID: doc.ID, Format: format}))
	return nil
}

func (r *Router) handleOpenPreferences(json.RawMessage) error {
	r.send(protocol.NewRequest(protocol.ReqGetPreferences, nil))
	return nil
}

func (r *Router) handlePreferences(raw json.RawMessage) error {
	var prefs protocol.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	r.widgets.Body.ShowPreferences(prefs)
	return nil
}

func (r *Router) handleEditorCommand(raw json.RawMessage) error {
	var cmd protocol.EditorCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return fmt.Errorf("cm-command: %w", err)
	}
	r.widgets.Editor.RunCommand(cmd)
	if r.session.MarkDirty() {
		r.send(protocol.NotifyModified())
	}
	return nil
}

// handleConfig applies one configuration value. Values are idempotent
// to reapply; the UI side effect of a key fires at most once per
// session, on first application.
func (r *Router) handleConfig(raw json.RawMessage) error {
	var cv protocol.ConfigValue
	if err := json.Unmarshal(raw, &cv); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	first := !r.appliedOnce[cv.Key]

	switch cv.Key {
	case protocol.ConfigDarkTheme:
		var v bool
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return fmt.Errorf("config %s: %w", cv.Key, err)
		}
		r.settings.darkTheme = v
		if first {
			r.widgets.Toolbar.ApplyTheme(v)
		}
	case protocol.ConfigSnippets:
		var v bool
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return fmt.Errorf("config %s: %w", cv.Key, err)
		}
		r.settings.snippets = v
		if first {
			r.widgets.Preview.SetSnippets(v)
		}
	case protocol.ConfigAppLang:
		var v string
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return fmt.Errorf("config %s: %w", cv.Key, err)
		}
		r.settings.appLang = v
	case protocol.ConfigPandoc:
		var v bool
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return fmt.Errorf("config %s: %w", cv.Key, err)
		}
		r.settings.pandoc = v
	case protocol.ConfigPDFLaTeX:
		var v bool
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return fmt.Errorf("config %s: %w", cv.Key, err)
		}
		r.settings.pdflatex = v
	default:
		r.log.Warn("unrecognized config key", zap.String("key", cv.Key))
		return nil
	}
	r.appliedOnce[cv.Key] = true
	return nil
}

func (r *Router) handleTypoLang(raw json.RawMessage) error {
	reqs, err := protocol.DecodeLanguageRequests(raw)
	if err != nil {
		return err
	}
	var langs []string
	for _, lr := range reqs {
		if lr.Requested {
			langs = append(langs, lr.Lang)
		}
	}
	r.spell.Begin(langs)
	return nil
}

func (r *Router) handleTypoAff(raw json.RawMessage) error {
	data, err := decodeBlob(raw, "typo-aff")
	if err != nil {
		return err
	}
	r.spell.AffixReceived(data)
	return nil
}

func (r *Router) handleTypoDic(raw json.RawMessage) error {
	data, err := decodeBlob(raw, "typo-dic")
	if err != nil {
		return err
	}
	r.spell.DictionaryReceived(data)
	return nil
}

// handleQuicklook asks the host for the document body; the reply comes
// back as file-quicklook.
func (r *Router) handleQuicklook(raw json.RawMessage) error {
	doc, err := r.resolveRef(raw, nil)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("quicklook: %w", errUnknownNode)
	}
	r.send(protocol.NewRequest(protocol.ReqFileGet,
		protocol.NodeRef{ID: &doc.ID}))
	return nil
}

func (r *Router) handleFileQuicklook(raw json.RawMessage) error {
	var fc protocol.FileContent
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("file-quicklook: %w", err)
	}
	r.widgets.Body.Quicklook(r.index.Find(fc.ID), fc.Content)
	return nil
}

func (r *Router) handleNotify(raw json.RawMessage) error {
	var n protocol.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	r.widgets.Body.Notify(n.Message)
	return nil
}

func (r *Router) handlePomodoro(json.RawMessage) error {
	r.widgets.Toolbar.Pomodoro()
	return nil
}

func (r *Router) handleZoomReset(json.RawMessage) error {
	r.widgets.Editor.SetZoom(r.session.ZoomReset())
	return nil
}

func (r *Router) handleZoomIn(json.RawMessage) error {
	r.widgets.Editor.SetZoom(r.session.ZoomIn())
	return nil
}

func (r *Router) handleZoomOut(json.RawMessage) error {
	r.widgets.Editor.SetZoom(r.session.ZoomOut())
	return nil
}

func decodeToggle(raw json.RawMessage) (protocol.Toggle, error) {
	var toggle protocol.Toggle
	if len(raw) == 0 || string(raw) == "null" {
		return toggle, nil
	}
	if err := json.Unmarshal(raw, &toggle); err != nil {
		return toggle, fmt.Errorf("toggle marker: %w", err)
	}
	return toggle, nil
}

// decodeBlob unwraps a JSON string payload into raw bytes; the affix and
// dictionary files travel as plain strings.
func decodeBlob(raw json.RawMessage, what string) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s payload: %w", what, err)
	}
	return []byte(s), nil
}
