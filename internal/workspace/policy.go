package workspace

import "fmt"

// dangerousOp names an operation that snapshots the workspace before it runs.
type dangerousOp string

const (
	opArchiveBoard  dangerousOp = "archive_board"
	opDeleteBoard   dangerousOp = "delete_board"
	opArchiveFolder dangerousOp = "archive_folder"
	opDeleteFolder  dangerousOp = "delete_folder"
	opDeleteBlock   dangerousOp = "delete_block"
	opImport        dangerousOp = "import"
	opImportApplied dangerousOp = "import_applied"
)

// dangerousOps maps each guarded operation to the description of its snapshot.
var dangerousOps = map[dangerousOp]func(name string) string{
	opArchiveBoard:  func(name string) string { return fmt.Sprintf("Before archiving board %q", name) },
	opDeleteBoard:   func(name string) string { return fmt.Sprintf("Before deleting board %q", name) },
	opArchiveFolder: func(name string) string { return fmt.Sprintf("Before archiving folder %q", name) },
	opDeleteFolder:  func(name string) string { return fmt.Sprintf("Before deleting folder %q", name) },
	opDeleteBlock:   func(name string) string { return fmt.Sprintf("Before deleting block %q", name) },
	opImport:        func(string) string { return "Before import" },
	opImportApplied: func(string) string { return "After import" },
}

// guard records a version snapshot if op is listed in dangerousOps.
// Must be called with s.mu held, before the mutation for "before" operations.
func (s *Store) guard(op dangerousOp, name string) {
	describe, ok := dangerousOps[op]
	if !ok {
		return
	}
	v := s.versions.SaveCurrentStateAsVersion(describe(name))
	s.logger.Debug("snapshot taken", "op", string(op), "version_id", v.ID)
}
