// Package id generates identifiers for workspace entities.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixAlphabet excludes '-' so the separator stays unambiguous when splitting an ID.
const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// suffixLength is the number of random characters appended after the time component.
const suffixLength = 10

// Entity prefixes.
const (
	PrefixBoard       = "board"
	PrefixBlock       = "block"
	PrefixCard        = "card"
	PrefixSpreadsheet = "sheet"
	PrefixNote        = "note"
	PrefixFile        = "file"
	PrefixFolder      = "folder"
	PrefixVersion     = "ver"
	PrefixChecklist   = "chk"
	PrefixAttachment  = "att"
	PrefixColumn      = "col"
	PrefixRow         = "row"
)

// Generate creates a prefixed unique ID.
// Format: prefix-<base36 unix millis>-<random> (e.g., "board-lq2x9k3c-V1StGXR8Z5").
//
// The time component keeps IDs roughly sortable by creation; the random suffix
// makes collisions within a single millisecond practically impossible.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + "-" + stamp + "-" + suffix, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Entity factories use this; entropy exhaustion is not a recoverable condition for them.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
