package share

// Kind is the filesystem nature of a shared entry
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Timestamp layouts used on the wire and in the registry document
const (
	AddedAtLayout  = "2006-01-02 15:04:05"
	ModifiedLayout = "2006-01-02 15:04"
)

// Entry is one registered filesystem path with its tracked metadata.
// Size and Modified are derived facts; they are refreshed only while the
// path exists and keep their last known values otherwise.
type Entry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Kind     Kind   `json:"kind"`
	Icon     string `json:"icon"`
	AddedAt  string `json:"added_at"`
	Exists   bool   `json:"exists"`
	Size     *int64 `json:"size,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// IsFolder reports whether the entry currently refers to a folder
func (e *Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// AddParams is the body of an add request
type AddParams struct {
	Path string `json:"path"`
}

// AddResult is returned by the add operation
type AddResult struct {
	Message string `json:"message"`
	File    *Entry `json:"file,omitempty"`
}

// MessageResult is a plain acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// UploadResult describes a stored upload
type UploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Error is the structured payload of every failed request
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
