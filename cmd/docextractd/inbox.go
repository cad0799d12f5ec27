package main

import (
	"path/filepath"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

// inboxKind reads the document kind from the first folder below root,
// e.g. root/cnh/x.pdf is a LICENSE.
func inboxKind(root, path string) (constants.DocumentKind, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == ".." {
		return "", false
	}
	return constants.ParseDocumentKind(parts[0])
}
