// Package resolver derives live filesystem facts for registry entries.
package resolver

import (
	"os"
	"path/filepath"
	"time"

	"github.com/KYD-04/Home-Files/pkg/share"
)

// Facts are the derived, ephemeral attributes of a path
type Facts struct {
	Exists   bool
	Kind     share.Kind
	Size     int64
	Modified time.Time
	Icon     string
}

// Resolve inspects path on the filesystem. When the path does not exist
// only Exists is meaningful; kind is the stored kind and is returned as is.
func Resolve(path string, kind share.Kind) Facts {
	info, err := os.Stat(path)
	if err != nil {
		return Facts{Exists: false, Kind: kind}
	}

	facts := Facts{
		Exists:   true,
		Kind:     share.KindFile,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}
	if info.IsDir() {
		facts.Kind = share.KindFolder
		facts.Icon = IconFolder
	} else {
		facts.Icon = FileIcon(filepath.Base(path))
	}
	return facts
}

// Apply copies facts onto entry. A vanished path only flips Exists;
// the last known size and modification time are kept.
func Apply(entry *share.Entry, facts Facts) {
	entry.Exists = facts.Exists
	if !facts.Exists {
		return
	}

	size := facts.Size
	entry.Size = &size
	entry.Modified = facts.Modified.Format(share.ModifiedLayout)
	entry.Kind = facts.Kind
	entry.Icon = facts.Icon
}

// Refresh resolves entry.Path and applies the result in place
func Refresh(entry *share.Entry) {
	Apply(entry, Resolve(entry.Path, entry.Kind))
}
