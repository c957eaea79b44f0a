package domain

import "slices"

// Folder groups boards and nested subfolders by ID reference.
// A board appears in at most one folder's BoardIDs.
type Folder struct {
	Timestamps
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name"`
	BoardIDs     []string `json:"boardIds"`
	SubfolderIDs []string `json:"subfolderIds"`
	Expanded     bool     `json:"expanded"`
	Archived     bool     `json:"archived"`
	PinOrder     *int     `json:"pinOrder,omitempty"`
}

// Clone deep-copies the folder.
func (f Folder) Clone() Folder {
	out := f
	out.BoardIDs = slices.Clone(f.BoardIDs)
	out.SubfolderIDs = slices.Clone(f.SubfolderIDs)
	out.PinOrder = clonePin(f.PinOrder)
	return out
}

// HasBoard reports whether the folder lists boardID.
func (f Folder) HasBoard(boardID string) bool {
	return slices.Contains(f.BoardIDs, boardID)
}

// CloneFolders deep-copies a folder list.
func CloneFolders(folders []Folder) []Folder {
	if folders == nil {
		return nil
	}
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = f.Clone()
	}
	return out
}

// without returns ids minus every occurrence of id.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// WithoutBoard returns a copy of the folder that no longer lists boardID.
func (f Folder) WithoutBoard(boardID string) Folder {
	out := f.Clone()
	out.BoardIDs = without(f.BoardIDs, boardID)
	return out
}

// WithoutSubfolder returns a copy of the folder that no longer lists folderID.
func (f Folder) WithoutSubfolder(folderID string) Folder {
	out := f.Clone()
	out.SubfolderIDs = without(f.SubfolderIDs, folderID)
	return out
}
