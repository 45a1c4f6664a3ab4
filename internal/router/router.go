// Package router demultiplexes the inbound command stream from the host
// process. Every message is matched against a static dispatch table and
// its handler runs synchronously to completion before the next message
// is looked at; the read loop in cmd/scribe is the only caller, so no
// locking is needed anywhere in the core.
package router

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkern/scribe/internal/paths"
	"github.com/mkern/scribe/internal/prefs"
	"github.com/mkern/scribe/internal/protocol"
	"github.com/mkern/scribe/internal/session"
	"github.com/mkern/scribe/internal/spellcheck"
	"github.com/mkern/scribe/internal/ui"
)

var errUnknownNode = errors.New("unknown node identifier")

// Sender carries outbound requests to the host. Sends are
// fire-and-forget: replies come back later as ordinary inbound
// messages.
type Sender interface {
	Send(env protocol.Envelope) error
}

type handlerFunc func(payload json.RawMessage) error

// settings mirrors the host-side configuration values the control layer
// cares about, fed one key at a time through the config command.
type settings struct {
	darkTheme bool
	snippets  bool
	appLang   string
	pandoc    bool
	pdflatex  bool
}

// Router owns the session core: the tree index, the session state and
// the spellcheck pipeline, plus the dispatch table tying command tags to
// handlers.
type Router struct {
	log     *zap.Logger
	out     Sender
	widgets ui.Widgets

	index   *paths.Index
	session *session.State
	spell   *spellcheck.Pipeline

	settings    settings
	appliedOnce map[string]bool
	restore     *prefs.Session

	handlers map[string]handlerFunc
}

// New wires a router around the given outbound sender and widget set.
func New(out Sender, widgets ui.Widgets, log *zap.Logger) *Router {
	r := &Router{
		log:         log,
		out:         out,
		widgets:     widgets,
		index:       paths.NewIndex(),
		session:     session.New(),
		appliedOnce: make(map[string]bool),
	}
	r.spell = spellcheck.NewPipeline(pipelineRequester{r}, log.Named("spellcheck"))
	r.handlers = map[string]handlerFunc{
		protocol.CmdPaths:             r.handleTree,
		protocol.CmdPathsUpdate:       r.handleTree,
		protocol.CmdDirSetCurrent:     r.handleDirSetCurrent,
		protocol.CmdDirFind:           r.handleDirFind,
		protocol.CmdDirOpen:           r.handleDirOpen,
		protocol.CmdDirRename:         r.handleDirRename,
		protocol.CmdDirNew:            r.handleDirNew,
		protocol.CmdDirDelete:         r.handleDirDelete,
		protocol.CmdFileSetCurrent:    r.handleFileSetCurrent,
		protocol.CmdFileOpen:          r.handleFileOpen,
		protocol.CmdFileClose:         r.handleFileClose,
		protocol.CmdFileSave:          r.handleFileSave,
		protocol.CmdFileRename:        r.handleFileRename,
		protocol.CmdFileNew:           r.handleFileNew,
		protocol.CmdFileFind:          r.handleFileFind,
		protocol.CmdFileInsert:        r.handleFileInsert,
		protocol.CmdFileDelete:        r.handleFileDelete,
		protocol.CmdFileSearchResult:  r.handleFileSearchResult,
		protocol.CmdToggleTheme:       r.handleToggleTheme,
		protocol.CmdToggleSnippets:    r.handleToggleSnippets,
		protocol.CmdToggleDirectories: r.handleToggleDirectories,
		protocol.CmdTogglePreview:     r.handleTogglePreview,
		protocol.CmdExport:            r.handleExport,
		protocol.CmdOpenPreferences:   r.handleOpenPreferences,
		protocol.CmdPreferences:       r.handlePreferences,
		protocol.CmdEditorCommand:     r.handleEditorCommand,
		protocol.CmdConfig:            r.handleConfig,
		protocol.CmdTypoLang:          r.handleTypoLang,
		protocol.CmdTypoAff:           r.handleTypoAff,
		protocol.CmdTypoDic:           r.handleTypoDic,
		protocol.CmdQuicklook:         r.handleQuicklook,
		protocol.CmdFileQuicklook:     r.handleFileQuicklook,
		protocol.CmdNotify:            r.handleNotify,
		protocol.CmdPomodoro:          r.handlePomodoro,
		protocol.CmdZoomReset:         r.handleZoomReset,
		protocol.CmdZoomIn:            r.handleZoomIn,
		protocol.CmdZoomOut:           r.handleZoomOut,
	}
	return r
}

// Dispatch routes one inbound message. Unknown tags and handler
// failures are logged and swallowed; a malformed message must never
// stop the loop.
func (r *Router) Dispatch(env protocol.Envelope) {
	h, ok := r.handlers[env.Command]
	if !ok {
		r.log.Warn("unrecognized command", zap.String("command", env.Command))
		return
	}
	if err := h(env.Payload); err != nil {
		r.log.Warn("command failed",
			zap.String("command", env.Command), zap.Error(err))
	}
}

// Bootstrap issues the startup request burst: the tree, the spell-check
// language set, every configuration key and the external-tool probes.
func (r *Router) Bootstrap() {
	r.send(protocol.RequestPaths())
	r.send(protocol.RequestLanguages())
	for _, key := range []string{
		protocol.ConfigDarkTheme,
		protocol.ConfigSnippets,
		protocol.ConfigAppLang,
	} {
		r.send(protocol.RequestConfig(key))
	}
	r.send(protocol.RequestEnv("pandoc"))
	r.send(protocol.RequestEnv("pdflatex"))
}

// SelectDirectory asks the host to make the given folder current. The
// directory list invokes this on a user click; the host answers with
// dir-set-current once the change took effect.
func (r *Router) SelectDirectory(id uint64) error {
	dir := r.index.Find(id)
	if dir == nil {
		return fmt.Errorf("dir-select: %w", errUnknownNode)
	}
	if !dir.IsFolder() {
		return fmt.Errorf("dir-select: node %d is not a folder", id)
	}
	r.send(protocol.NewRequest(protocol.ReqDirSelect,
		protocol.NodeRef{ID: &dir.ID}))
	return nil
}

// MoveNode asks the host to move a document or folder into another
// folder, the drag-and-drop path of the tree widgets. The result comes
// back as an ordinary tree update.
func (r *Router) MoveNode(id, target uint64) error {
	node := r.index.Find(id)
	if node == nil {
		return fmt.Errorf("file-move: %w", errUnknownNode)
	}
	if node.IsRoot() {
		r.log.Warn("move of workspace root refused")
		return nil
	}
	dest := r.index.Find(target)
	if dest == nil {
		return fmt.Errorf("file-move target: %w", errUnknownNode)
	}
	if !dest.IsFolder() {
		return fmt.Errorf("file-move: target %d is not a folder", target)
	}
	r.send(protocol.NewRequest(protocol.ReqFileMove,
		protocol.MoveRequest{ID: id, Target: target}))
	return nil
}

// RestoreSession arranges for a previous run's selection to be
// reapplied once the first tree snapshot arrives; identifiers that no
// longer exist are silently dropped then.
func (r *Router) RestoreSession(s prefs.Session) {
	r.restore = &s
	r.widgets.Editor.SetZoom(r.session.SetZoom(s.Zoom))
}

// SnapshotSession captures what should survive into the next run.
func (r *Router) SnapshotSession() prefs.Session {
	var s prefs.Session
	if doc := r.session.CurrentDocument(); doc != nil {
		s.LastDocument = doc.ID
	}
	if dir := r.session.CurrentFolder(); dir != nil && !dir.IsRoot() {
		s.LastFolder = dir.ID
	}
	s.Zoom = r.session.Zoom()
	return s
}

// Index exposes the tree index to the rest of the front end.
func (r *Router) Index() *paths.Index { return r.index }

// Session exposes the session state.
func (r *Router) Session() *session.State { return r.session }

// Spellcheck exposes the word-correctness queries.
func (r *Router) Spellcheck() *spellcheck.Pipeline { return r.spell }

func (r *Router) send(env protocol.Envelope) {
	if err := r.out.Send(env); err != nil {
		r.log.Warn("outbound request failed",
			zap.String("command", env.Command), zap.Error(err))
	}
}

// pipelineRequester adapts the outbound sender to the pipeline's
// fetch-request interface.
type pipelineRequester struct {
	r *Router
}

func (p pipelineRequester) RequestAffix(lang string) {
	p.r.send(protocol.RequestAffix(lang))
}

func (p pipelineRequester) RequestDictionary(lang string) {
	p.r.send(protocol.RequestDictionary(lang))
}
