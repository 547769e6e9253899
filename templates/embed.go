// Package templates holds the built-in templates of every target. Each
// target reads from its own folder; _common holds the files shared by all
// of them.
package templates

import "embed"

//go:embed all:_common all:java all:go
var FS embed.FS
