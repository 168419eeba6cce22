package rules

import (
	"embed"
	"io/fs"
)

//go:embed heuristics/*
var embeddedRules embed.FS

// EmbeddedFS returns the bundled heuristic tables. Callers may pass this
// filesystem to LoadFS to use the default configuration.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedRules, "heuristics")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the bundled tables, panicking when the embedded documents
// fail to parse; the package tests validate them.
func Default() *Store {
	store, err := LoadFS(EmbeddedFS())
	if err != nil {
		panic(err)
	}
	return store
}
