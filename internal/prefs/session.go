// Package prefs persists the small client-side session snapshot (last
// document, last folder, zoom) between runs. Host-side configuration is
// never stored here; it lives with the host.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const sessionFile = "session.json"

// Session is what survives a restart.
type Session struct {
	LastDocument uint64 `json:"lastDocument,omitempty"`
	LastFolder   uint64 `json:"lastFolder,omitempty"`
	Zoom         int    `json:"zoom,omitempty"`
}

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "scribe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// SaveSession writes the snapshot atomically.
func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession reads the previous snapshot. A missing file yields the
// zero session.
func LoadSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}
