// Package storage defines the workdir file-system abstraction used for
// export files and the import inbox.
package storage

import "time"

// FileInfo describes one file under the workdir root.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Provider is the interface for workdir file operations.
type Provider interface {
	// List returns metadata for every file under dir (relative to the
	// workdir root) whose extension is in exts; empty exts matches all.
	List(dir string, exts ...string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the workdir root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the workdir root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the workdir root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the workdir root).
	Move(oldPath, newPath string) error
}
