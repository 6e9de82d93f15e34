package resolver

import (
	"path/filepath"
	"strings"
)

const (
	// IconFolder is used for every folder entry
	IconFolder = "folder"
	// IconDefault is used for files with an unknown extension
	IconDefault = "insert_drive_file"
)

var icons = map[string]string{
	".pdf":  "picture_as_pdf",
	".doc":  "description",
	".docx": "description",
	".txt":  "description",
	".md":   "description",
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".mp3":  "music_note",
	".wav":  "music_note",
	".mp4":  "movie",
	".zip":  "archive",
	".rar":  "archive",
	".7z":   "archive",
	".py":   "code",
	".js":   "code",
	".html": "code",
	".css":  "code",
	".java": "code",
	".cpp":  "code",
	".c":    "code",
}

// FileIcon returns the icon for a file name, matching its extension
// case-insensitively
func FileIcon(name string) string {
	if icon, ok := icons[strings.ToLower(filepath.Ext(name))]; ok {
		return icon
	}
	return IconDefault
}
