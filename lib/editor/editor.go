// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package editor hands a build tree to the user's editor and blocks
// until the editor exits.
//
// The editor is a command line, split with shell quoting rules. Its
// arguments may reference the tree with placeholders:
//
//	{dir}       the build tree directory
//	{file}      the main.go source file
//	{manifest}  the go.mod manifest
//
// A command line without any placeholder gets {file} appended, which is
// what $EDITOR-style programs expect. A few bare names are presets:
// "code" waits on the whole directory ("code -w {dir}"), and common
// terminal editors open the source file. An empty command line falls
// back to $VISUAL, then $EDITOR, then nano.
//
// The editor's own exit status is ignored: closing an editor is not a
// failure. Only an editor that cannot be started is an error
// ([*InvocationError]), and the workflows treat it as fatal.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	shlex "github.com/flynn-archive/go-shlex"

	"github.com/monofile-dev/monofile/lib/buildtree"
	"github.com/monofile-dev/monofile/lib/materialize"
)

// Editor opens a build tree for editing and returns once the user is
// done.
type Editor interface {
	Open(ctx context.Context, tree buildtree.Tree) error
}

// InvocationError reports an editor that could not be started.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("starting editor %q: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// fallbackEditor is used when neither configuration nor environment
// names an editor.
const fallbackEditor = "nano"

// presets maps bare editor names to full command lines.
var presets = map[string]string{
	"code":  "code -w {dir}",
	"nvim":  "nvim {file}",
	"vim":   "vim {file}",
	"vi":    "vi {file}",
	"nano":  "nano {file}",
	"emacs": "emacs {file}",
	"hx":    "hx {file}",
}

func init() {
	if runtime.GOOS == "windows" {
		presets["code"] = "code.cmd -w {dir}"
	}
}

// Command is an [Editor] that runs an external program with the
// terminal attached.
type Command struct {
	// Line is the resolved command line, placeholders included.
	Line string

	argv  []string
	stdio materialize.Stdio
}

// New resolves line (a preset name, a full command line, or empty for
// the environment default) into a Command attached to the current
// terminal.
func New(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		line = fromEnvironment()
	}
	if preset, ok := presets[line]; ok {
		line = preset
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing editor command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("editor command is empty")
	}
	if !hasPlaceholder(argv) {
		argv = append(argv, "{file}")
	}

	return &Command{Line: line, argv: argv, stdio: materialize.Inherit()}, nil
}

// Args returns the argument vector for tree with placeholders
// substituted.
func (c *Command) Args(tree buildtree.Tree) []string {
	replacer := strings.NewReplacer(
		"{dir}", tree.Dir,
		"{file}", tree.SourcePath,
		"{manifest}", tree.ManifestPath,
	)
	args := make([]string, len(c.argv))
	for i, arg := range c.argv {
		args[i] = replacer.Replace(arg)
	}
	return args
}

// Open runs the editor on tree and waits for it to exit.
func (c *Command) Open(ctx context.Context, tree buildtree.Tree) error {
	args := c.Args(tree)
	command := exec.CommandContext(ctx, args[0], args[1:]...)
	command.Dir = tree.Dir
	command.Stdin = c.stdio.Stdin
	command.Stdout = c.stdio.Stdout
	command.Stderr = c.stdio.Stderr

	err := command.Run()
	if err == nil {
		return nil
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return nil
	}
	return &InvocationError{Command: c.Line, Err: err}
}

func fromEnvironment() string {
	for _, variable := range []string{"VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(os.Getenv(variable)); value != "" {
			return value
		}
	}
	return fallbackEditor
}

func hasPlaceholder(argv []string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, "{dir}") || strings.Contains(arg, "{file}") || strings.Contains(arg, "{manifest}") {
			return true
		}
	}
	return false
}
