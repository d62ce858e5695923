package types

type FileInfo struct {
	FileID      string         `json:"file_id,omitempty"`
	Filename    string         `json:"filename,omitempty"`
	FilePath    string         `json:"file_path,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	Size        int64          `json:"size,omitempty"`
	UploadDate  string         `json:"upload_date,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// DisplayName prefers the original filename, then the sandbox path, then the
// storage id.
func (f FileInfo) DisplayName() string {
	switch {
	case f.Filename != "":
		return f.Filename
	case f.FilePath != "":
		return f.FilePath
	default:
		return f.FileID
	}
}
