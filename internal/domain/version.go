package domain

import "time"

// MaxVersions is the number of snapshots kept, newest first.
const MaxVersions = 5

// Version is a timestamped full-state snapshot. Data holds the serialized Snapshot.
type Version struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Data        string    `json:"data"`
}

// Snapshot is the persisted workspace state captured by a Version.
type Snapshot struct {
	Boards   []Board  `json:"boards"`
	Folders  []Folder `json:"folders"`
	Settings Settings `json:"settings"`
	Archived Archive  `json:"archived"`
}
