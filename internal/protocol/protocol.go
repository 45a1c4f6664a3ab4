// Package protocol defines the logical command/payload contract spoken
// with the host process. Messages are JSON envelopes carrying a command
// tag and a command-specific payload; the transport framing lives in
// internal/ipc.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Envelope is one tagged message in either direction.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound command tags consumed by the router.
const (
	CmdPaths             = "paths"
	CmdPathsUpdate       = "paths-update"
	CmdDirSetCurrent     = "dir-set-current"
	CmdDirFind           = "dir-find"
	CmdDirOpen           = "dir-open"
	CmdDirRename         = "dir-rename"
	CmdDirNew            = "dir-new"
	CmdDirDelete         = "dir-delete"
	CmdFileSetCurrent    = "file-set-current"
	CmdFileOpen          = "file-open"
	CmdFileClose         = "file-close"
	CmdFileSave          = "file-save"
	CmdFileRename        = "file-rename"
	CmdFileNew           = "file-new"
	CmdFileFind          = "file-find"
	CmdFileInsert        = "file-insert"
	CmdFileDelete        = "file-delete"
	CmdFileSearchResult  = "file-search-result"
	CmdToggleTheme       = "toggle-theme"
	CmdToggleSnippets    = "toggle-snippets"
	CmdToggleDirectories = "toggle-directories"
	CmdTogglePreview     = "toggle-preview"
	CmdExport            = "export"
	CmdOpenPreferences   = "open-preferences"
	CmdPreferences       = "preferences"
	CmdEditorCommand     = "cm-command"
	CmdConfig            = "config"
	CmdTypoLang          = "typo-lang"
	CmdTypoAff           = "typo-aff"
	CmdTypoDic           = "typo-dic"
	CmdQuicklook         = "quicklook"
	CmdFileQuicklook     = "file-quicklook"
	CmdNotify            = "notify"
	CmdPomodoro          = "pomodoro"
	CmdZoomReset         = "zoom-reset"
	CmdZoomIn            = "zoom-in"
	CmdZoomOut           = "zoom-out"
)

// Outbound request tags emitted toward the host.
const (
	ReqGetPaths       = "get-paths"
	ReqGetConfig      = "get-config"
	ReqGetEnv         = "get-env"
	ReqGetPreferences = "get-preferences"
	ReqDirSelect      = "dir-select"
	ReqDirOpen        = "dir-open"
	ReqDirNew         = "dir-new"
	ReqDirRename      = "dir-rename"
	ReqDirDelete      = "dir-delete"
	ReqFileNew        = "file-new"
	ReqFileRename     = "file-rename"
	ReqFileDelete     = "file-delete"
	ReqFileMove       = "file-move"
	ReqFileInsert     = "file-insert"
	ReqFileGet        = "file-get"
	ReqFileSave       = "file-save"
	ReqExport         = "export"
	ReqTypoLang       = "typo-request-lang"
	ReqTypoAff        = "typo-request-aff"
	ReqTypoDic        = "typo-request-dic"
	ReqConfigSave     = "config-save"
	ReqFileModified   = "file-modified"
)

// Configuration keys delivered one at a time via the config command.
const (
	ConfigDarkTheme = "darkTheme"
	ConfigSnippets  = "snippets"
	ConfigAppLang   = "app_lang"
	ConfigPandoc    = "pandoc"
	ConfigPDFLaTeX  = "pdflatex"
)

// NodeRef optionally identifies a tree node. A nil ID means "the current
// one" for commands that default to the current document or folder.
type NodeRef struct {
	ID *uint64 `json:"id,omitempty"`
}

// RenameRequest carries a rename toward the host.
type RenameRequest struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CreateRequest asks the host to create an entry under a parent.
type CreateRequest struct {
	Parent uint64 `json:"parent"`
	Name   string `json:"name"`
}

// MoveRequest asks the host to move an entry to another folder.
type MoveRequest struct {
	ID     uint64 `json:"id"`
	Target uint64 `json:"target"`
}

// SaveRequest persists editor content. A nil ID signals a new document.
type SaveRequest struct {
	ID      *uint64 `json:"id"`
	Content string  `json:"content"`
}

// ExportRequest asks the host to export a document in a given format.
type ExportRequest struct {
	ID     uint64 `json:"id"`
	Format string `json:"format"`
}

// ConfigValue is one key/value pair of the one-shot configuration feed.
type ConfigValue struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Preferences is the full settings payload shown in the preferences
// dialog.
type Preferences struct {
	DarkTheme bool   `json:"darkTheme"`
	Snippets  bool   `json:"snippets"`
	AppLang   string `json:"app_lang"`
	Pandoc    string `json:"pandoc"`
	PDFLaTeX  string `json:"pdflatex"`
}

// Toggle optionally suppresses echoing a toggle back to the host, used
// when the host itself initiated the change.
type Toggle struct {
	SuppressEcho bool `json:"suppressEcho,omitempty"`
}

// EditorCommand is an opaque editor command descriptor forwarded to the
// editor surface.
type EditorCommand struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// FileContent carries a document body, inbound on file-open and
// file-quicklook.
type FileContent struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// SearchHit is one per-document match count of a global search.
type SearchHit struct {
	ID      uint64 `json:"id"`
	Matches int    `json:"matches"`
}

// SearchResult is the payload of file-search-result.
type SearchResult struct {
	Hits []SearchHit `json:"hits"`
}

// Notification is a host-originated user-visible message.
type Notification struct {
	Message string `json:"message"`
}

// LangRequest is one language of the typo-lang payload with its
// requested flag, in original key order.
type LangRequest struct {
	Lang      string
	Requested bool
}

// DecodeLanguageRequests parses a typo-lang payload object while
// preserving key order. encoding/json map decoding would randomize the
// order, and load sequencing depends on it.
func DecodeLanguageRequests(raw json.RawMessage) ([]LangRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("typo-lang payload: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("typo-lang payload: expected object, got %v", tok)
	}
	var out []LangRequest
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("typo-lang payload: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("typo-lang payload: non-string key %v", keyTok)
		}
		var requested bool
		if err := dec.Decode(&requested); err != nil {
			return nil, fmt.Errorf("typo-lang payload, key %q: %w", key, err)
		}
		out = append(out, LangRequest{Lang: key, Requested: requested})
	}
	return out, nil
}

// NewRequest builds an outbound envelope with a fresh correlation ID.
// The payload must marshal cleanly; a marshal failure is a programming
// error and panics.
func NewRequest(command string, payload any) Envelope {
	env := Envelope{ID: uuid.NewString(), Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			panic(fmt.Sprintf("protocol: marshal %s payload: %v", command, err))
		}
		env.Payload = raw
	}
	return env
}

type keyPayload struct {
	Key string `json:"key"`
}

type langPayload struct {
	Lang string `json:"lang"`
}

type toolPayload struct {
	Tool string `json:"tool"`
}

// RequestPaths asks the host for the current tree snapshot.
func RequestPaths() Envelope { return NewRequest(ReqGetPaths, nil) }

// RequestConfig asks the host for one setting value.
func RequestConfig(key string) Envelope {
	return NewRequest(ReqGetConfig, keyPayload{Key: key})
}

// RequestEnv asks the host whether an external tool is available.
func RequestEnv(tool string) Envelope {
	return NewRequest(ReqGetEnv, toolPayload{Tool: tool})
}

// RequestLanguages asks the host for the requested spell-check language
// set.
func RequestLanguages() Envelope { return NewRequest(ReqTypoLang, nil) }

// RequestAffix asks the host for one language's affix data.
func RequestAffix(lang string) Envelope {
	return NewRequest(ReqTypoAff, langPayload{Lang: lang})
}

// RequestDictionary asks the host for one language's dictionary data.
func RequestDictionary(lang string) Envelope {
	return NewRequest(ReqTypoDic, langPayload{Lang: lang})
}

// PersistConfig asks the host to persist one configuration value.
func PersistConfig(key string, value any) Envelope {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("protocol: marshal config value for %s: %v", key, err))
	}
	return NewRequest(ReqConfigSave, ConfigValue{Key: key, Value: raw})
}

// NotifyModified tells the host the current document has unsaved
// changes.
func NotifyModified() Envelope { return NewRequest(ReqFileModified, nil) }
