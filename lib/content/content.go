// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package content provides the embedded project templates used to seed
// an empty container: a go.mod manifest and a hello-world main.go.
//
// Templates are embedded at compile time via go:embed and rendered with
// text/template. The only parameter is the container's base name, which
// becomes the module path (after [ModulePath] sanitization) and appears
// in the generated program's greeting.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed project/*.tmpl
var projectFiles embed.FS

// GoVersion is the language version written into a fresh manifest.
const GoVersion = "1.22"

var templates = template.Must(template.ParseFS(projectFiles, "project/*.tmpl"))

// templateData is the parameter set for the project templates.
type templateData struct {
	Name      string
	Module    string
	GoVersion string
}

// Manifest renders the default go.mod for a container named name.
func Manifest(name string) (string, error) {
	return render("go.mod.tmpl", name)
}

// Source renders the default main.go for a container named name.
func Source(name string) (string, error) {
	return render("main.go.tmpl", name)
}

// ModulePath derives a valid module path from a container base name.
// Characters outside the module path alphabet become '-'; an empty
// result becomes "main".
//
//	"tool"       -> "tool"
//	"my tool!"   -> "my-tool-"
func ModulePath(name string) string {
	path := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '~', r == '-':
			return r
		default:
			return '-'
		}
	}, name)
	if path == "" {
		return "main"
	}
	return path
}

func render(templateName, name string) (string, error) {
	var output bytes.Buffer
	data := templateData{
		Name:      name,
		Module:    ModulePath(name),
		GoVersion: GoVersion,
	}
	if err := templates.ExecuteTemplate(&output, templateName, data); err != nil {
		return "", fmt.Errorf("rendering embedded template %s: %w", templateName, err)
	}
	return output.String(), nil
}
