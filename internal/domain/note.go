package domain

// MarkdownNote is a free-form markdown item.
type MarkdownNote struct {
	ItemBase
	Content string `json:"content"`
}

// Clone copies the note.
func (n *MarkdownNote) Clone() Item {
	out := *n
	return &out
}

// FileItem is an uploaded file referenced by URL.
type FileItem struct {
	ItemBase
	Name      string `json:"name"`
	FileType  string `json:"fileType"`
	URL       string `json:"url" validate:"required"`
	Thumbnail string `json:"thumbnail,omitempty"`
	BlurHash  string `json:"blurHash,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// Clone copies the file item.
func (f *FileItem) Clone() Item {
	out := *f
	return &out
}
