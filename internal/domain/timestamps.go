// Package domain defines the workspace data model: boards, blocks, typed items,
// folders, settings, the archive and version snapshots.
//
// Values in this package are plain data. Mutation rules (ordering, archive
// lifecycle, parent checks) are enforced by the workspace package.
package domain

import "time"

// Timestamps provides the creation and modification times shared by every entity.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch sets UpdatedAt to now.
func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (t *Timestamps) InitTimestamps(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}
