//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version is the semantic version of the module.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration directory and
	// prefixes environment variables read by the CLI.
	Name = "dollar"
	// Description is a one-line summary shown in help output.
	Description = "Render $-directive templates against structured data"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
