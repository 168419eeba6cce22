package report

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// TemplatesFS returns the embedded report templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(fmt.Sprintf("report: embedded templates unavailable: %v", err))
	}
	return sub
}
