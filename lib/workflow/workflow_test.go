// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/monofile-dev/monofile/lib/buildtree"
	"github.com/monofile-dev/monofile/lib/config"
	"github.com/monofile-dev/monofile/lib/container"
	"github.com/monofile-dev/monofile/lib/editor"
	"github.com/monofile-dev/monofile/lib/fingerprint"
	"github.com/monofile-dev/monofile/lib/materialize"
	"github.com/monofile-dev/monofile/lib/testutil"
	"github.com/monofile-dev/monofile/lib/toolchain"
)

const testPlatform = "testos/testarch"

// stubEditor records each session and optionally edits the tree.
type stubEditor struct {
	opens int
	trees []buildtree.Tree
	edit  func(session int, tree buildtree.Tree) error
}

func (e *stubEditor) Open(_ context.Context, tree buildtree.Tree) error {
	e.opens++
	e.trees = append(e.trees, tree)
	if e.edit != nil {
		return e.edit(e.opens, tree)
	}
	return nil
}

// stubToolchain returns the queued results in order, then succeeds.
// A successful build writes artifact (or the source text when nil) to
// the tree's artifact path.
type stubToolchain struct {
	builds   int
	results  []error
	artifact []byte
}

func (s *stubToolchain) Build(_ context.Context, tree buildtree.Tree) error {
	s.builds++
	if len(s.results) > 0 {
		result := s.results[0]
		s.results = s.results[1:]
		if result != nil {
			return result
		}
	}
	artifact := s.artifact
	if artifact == nil {
		_, source, err := tree.Read()
		if err != nil {
			return err
		}
		artifact = []byte("built:" + source)
	}
	return os.WriteFile(tree.ArtifactPath, artifact, 0755)
}

// recordingExecutor captures what Run materialized.
type recordingExecutor struct {
	calls    int
	path     string
	contents []byte
	args     []string
	exitCode int
	err      error
	after    func(path string)
}

func (r *recordingExecutor) execute(_ context.Context, path string, args []string) (int, error) {
	r.calls++
	r.path = path
	r.args = args
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	r.contents = contents
	if r.after != nil {
		r.after(path)
	}
	return r.exitCode, r.err
}

func newTestWorkflow(edit *stubEditor, build *stubToolchain, separate bool) *Workflow {
	return &Workflow{
		Toolchain: build,
		Editor:    edit,
		Layout:    buildtree.Layout{SeparateDirectory: separate},
		Encoding:  container.Raw,
		Platform:  testPlatform,
	}
}

// writeContainer packs manifest, source, and payload at path with the
// given fingerprint.
func writeContainer(t *testing.T, path string, c container.Container) {
	t.Helper()
	data, err := container.Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing container: %v", err)
	}
}

func readContainer(t *testing.T, path string) container.Container {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading container: %v", err)
	}
	decoded, err := container.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return decoded
}

// entries lists directory names, for asserting that nothing was left
// behind.
func entries(t *testing.T, directory string) []string {
	t.Helper()
	list, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("reading %s: %v", directory, err)
	}
	names := make([]string, 0, len(list))
	for _, entry := range list {
		names = append(names, entry.Name())
	}
	return names
}

func TestEditRetriesUntilBuildSucceeds(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "hello.mono")

	edit := &stubEditor{
		edit: func(session int, tree buildtree.Tree) error {
			source := "package main\n\n// session " + string(rune('0'+session)) + "\nfunc main() {}\n"
			return os.WriteFile(tree.SourcePath, []byte(source), 0644)
		},
	}
	build := &stubToolchain{results: []error{
		&toolchain.BuildFailure{Step: "go build", ExitCode: 1},
		&toolchain.BuildFailure{Step: "go build", ExitCode: 1},
	}}

	result, err := newTestWorkflow(edit, build, true).Edit(context.Background(), containerPath)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	if edit.opens != 3 {
		t.Errorf("editor opened %d times, want 3", edit.opens)
	}
	if build.builds != 3 {
		t.Errorf("toolchain ran %d times, want 3", build.builds)
	}
	if result.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", result.Iterations)
	}
	if !result.Created {
		t.Error("expected Created for a new container")
	}

	packed := readContainer(t, containerPath)
	if !strings.Contains(packed.Source, "// session 3") {
		t.Errorf("packed source is not the last edit:\n%s", packed.Source)
	}
	if string(packed.Payload) != "built:"+packed.Source {
		t.Errorf("payload %q does not match the final build", packed.Payload)
	}
	if want := fingerprint.Compute(packed.Manifest, packed.Source, testPlatform); packed.Fingerprint != want {
		t.Errorf("fingerprint = %d, want %d", packed.Fingerprint, want)
	}
	if result.Fingerprint != packed.Fingerprint || result.PayloadSize != len(packed.Payload) {
		t.Errorf("result %+v does not describe the packed container", result)
	}

	if _, err := os.Stat(edit.trees[0].Dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("build tree still present: %v", err)
	}
}

func TestEditStartsFromDefaults(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "greeter.mono")

	var manifest string
	edit := &stubEditor{edit: func(_ int, tree buildtree.Tree) error {
		data, err := os.ReadFile(tree.ManifestPath)
		manifest = string(data)
		return err
	}}

	if _, err := newTestWorkflow(edit, &stubToolchain{}, true).Edit(context.Background(), containerPath); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !strings.Contains(manifest, "module greeter") {
		t.Errorf("default manifest does not name the container:\n%s", manifest)
	}
}

func TestEditExistingContainerKeepsText(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "tool.mono")
	writeContainer(t, containerPath, container.Container{
		Manifest: "module tool\n\ngo 1.22\n",
		Source:   "package main\n\nfunc main() { println(\"kept\") }\n",
		Payload:  []byte("old"),
		Encoding: container.Raw,
	})

	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Encoding = container.Text

	result, err := workflow.Edit(context.Background(), containerPath)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if result.Created {
		t.Error("existing container reported as created")
	}

	packed := readContainer(t, containerPath)
	if !strings.Contains(packed.Source, "kept") {
		t.Errorf("source lost: %q", packed.Source)
	}
	if packed.Encoding != container.Text {
		t.Errorf("encoding = %s, want text", packed.Encoding)
	}
}

func TestEditInlineLayoutCleansUp(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "inline.mono")

	edit := &stubEditor{}
	if _, err := newTestWorkflow(edit, &stubToolchain{}, false).Edit(context.Background(), containerPath); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	if edit.trees[0].Dir != directory {
		t.Errorf("inline tree in %s, want %s", edit.trees[0].Dir, directory)
	}
	names := entries(t, directory)
	if len(names) != 1 || names[0] != "inline.mono" {
		t.Errorf("directory not cleaned: %v", names)
	}
}

func TestEditContainersShareDirectory(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	var paths []string
	for range 3 {
		containerPath := filepath.Join(directory, testutil.UniqueName("tool")+".mono")
		paths = append(paths, containerPath)
		if _, err := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true).Edit(context.Background(), containerPath); err != nil {
			t.Fatalf("Edit %s: %v", containerPath, err)
		}
	}

	for _, containerPath := range paths {
		packed := readContainer(t, containerPath)
		name := container.BaseName(containerPath)
		if !strings.Contains(packed.Manifest, "module "+name) {
			t.Errorf("%s: manifest does not name its container:\n%s", name, packed.Manifest)
		}
	}
	if names := entries(t, directory); len(names) != len(paths) {
		t.Errorf("build trees left behind: %v", names)
	}
}

func TestEditEditorInvocationAborts(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "broken.mono")

	edit := &stubEditor{edit: func(int, buildtree.Tree) error {
		return &editor.InvocationError{Command: "missing-editor", Err: os.ErrNotExist}
	}}
	build := &stubToolchain{}

	_, err := newTestWorkflow(edit, build, true).Edit(context.Background(), containerPath)
	if !IsInvocationError(err) {
		t.Fatalf("expected invocation error, got %v", err)
	}
	if build.builds != 0 {
		t.Errorf("toolchain ran %d times after editor failure", build.builds)
	}
	if edit.opens != 1 {
		t.Errorf("editor opened %d times, want 1", edit.opens)
	}

	names := entries(t, directory)
	if len(names) != 1 {
		t.Errorf("build tree not cleaned after abort: %v", names)
	}
	if data, _ := os.ReadFile(containerPath); len(data) != 0 {
		t.Errorf("aborted edit wrote %d bytes into the container", len(data))
	}
}

func TestEditToolchainInvocationNotRetried(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "nogo.mono")

	edit := &stubEditor{}
	build := &stubToolchain{results: []error{
		&toolchain.InvocationError{Binary: "go", Err: os.ErrNotExist},
	}}

	_, err := newTestWorkflow(edit, build, true).Edit(context.Background(), containerPath)
	if !IsInvocationError(err) {
		t.Fatalf("expected invocation error, got %v", err)
	}
	if edit.opens != 1 || build.builds != 1 {
		t.Errorf("opens=%d builds=%d, want 1 and 1", edit.opens, build.builds)
	}
	if _, err := os.Stat(edit.trees[0].Dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("build tree still present after abort: %v", err)
	}
}

func TestEditTreeCollision(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "taken.mono")
	if err := os.Mkdir(filepath.Join(directory, "taken"), 0755); err != nil {
		t.Fatal(err)
	}

	edit := &stubEditor{}
	if _, err := newTestWorkflow(edit, &stubToolchain{}, true).Edit(context.Background(), containerPath); err == nil {
		t.Fatal("expected error when the build directory exists")
	}
	if edit.opens != 0 {
		t.Errorf("editor opened despite tree failure")
	}
	if _, err := os.Stat(filepath.Join(directory, "taken")); err != nil {
		t.Errorf("pre-existing directory was touched: %v", err)
	}
}

func TestEditInlineKeepsExistingFiles(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "tool.mono")
	lockPath := filepath.Join(directory, "go.sum")
	executablePath := filepath.Join(directory, materialize.ExecutableName("tool"))
	userFiles := map[string]string{
		lockPath:       "user go.sum\n",
		executablePath: "user binary\n",
	}
	for path, contents := range userFiles {
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}

	edit := &stubEditor{}
	build := &stubToolchain{results: []error{
		&toolchain.InvocationError{Binary: "go", Err: os.ErrNotExist},
	}}
	_, err := newTestWorkflow(edit, build, false).Edit(context.Background(), containerPath)
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("Edit over existing go.sum and executable: err = %v, want os.ErrExist", err)
	}
	if edit.opens != 0 || build.builds != 0 {
		t.Errorf("opens=%d builds=%d, want 0 and 0", edit.opens, build.builds)
	}
	for path, contents := range userFiles {
		data, err := os.ReadFile(path)
		if err != nil || string(data) != contents {
			t.Errorf("%s = %q, %v; want %q untouched", path, data, err, contents)
		}
	}
	for _, name := range []string{"go.mod", "main.go"} {
		if _, err := os.Stat(filepath.Join(directory, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s left behind: %v", name, err)
		}
	}
}

func TestEditExtensionlessContainer(t *testing.T) {
	t.Parallel()

	for _, separate := range []bool{true, false} {
		directory := t.TempDir()
		containerPath := filepath.Join(directory, "tool")

		edit := &stubEditor{}
		result, err := newTestWorkflow(edit, &stubToolchain{}, separate).Edit(context.Background(), containerPath)
		if err != nil {
			t.Fatalf("separate=%v: Edit: %v", separate, err)
		}
		if result.PayloadSize == 0 {
			t.Errorf("separate=%v: empty payload", separate)
		}
		tree := edit.trees[0]
		if tree.Dir == containerPath || tree.ArtifactPath == containerPath {
			t.Errorf("separate=%v: tree %+v reuses the container path", separate, tree)
		}

		packed := readContainer(t, containerPath)
		if !strings.Contains(packed.Manifest, "module tool") {
			t.Errorf("separate=%v: manifest = %q", separate, packed.Manifest)
		}
		if names := entries(t, directory); len(names) != 1 || names[0] != "tool" {
			t.Errorf("separate=%v: directory not cleaned: %v", separate, names)
		}
	}
}

func TestEditCancelled(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "cancelled.mono")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	edit := &stubEditor{}
	_, err := newTestWorkflow(edit, &stubToolchain{}, true).Edit(ctx, containerPath)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if edit.opens != 0 {
		t.Errorf("editor opened after cancellation")
	}
}

func TestRunFingerprintMatchSkipsBuild(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "cached.mono")
	manifest, source := "module cached\n", "package main\n"
	writeContainer(t, containerPath, container.Container{
		Manifest:    manifest,
		Source:      source,
		Payload:     []byte("stored payload"),
		Encoding:    container.Raw,
		Fingerprint: fingerprint.Compute(manifest, source, testPlatform),
	})

	build := &stubToolchain{}
	executor := &recordingExecutor{exitCode: 4}
	workflow := newTestWorkflow(&stubEditor{}, build, true)
	workflow.Execute = executor.execute

	result, err := workflow.Run(context.Background(), containerPath, RunOptions{
		CheckStaleness: true,
		Args:           []string{"--name", "world"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if build.builds != 0 {
		t.Errorf("toolchain ran %d times on a fingerprint match", build.builds)
	}
	if result.Rebuilt {
		t.Error("Rebuilt set on a fingerprint match")
	}
	if result.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", result.ExitCode)
	}
	if string(executor.contents) != "stored payload" {
		t.Errorf("executed %q", executor.contents)
	}
	if executor.path != materialize.ExecutablePath(containerPath) {
		t.Errorf("executed %s, want %s", executor.path, materialize.ExecutablePath(containerPath))
	}
	if strings.Join(executor.args, " ") != "--name world" {
		t.Errorf("args = %v", executor.args)
	}
	if _, err := os.Stat(executor.path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("executable left behind: %v", err)
	}
}

func TestRunFingerprintMismatchRebuildsOnce(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "stale.mono")
	writeContainer(t, containerPath, container.Container{
		Manifest:    "module stale\n",
		Source:      "package main\n",
		Payload:     []byte("stale payload"),
		Encoding:    container.Raw,
		Fingerprint: 1,
	})

	build := &stubToolchain{artifact: []byte("fresh payload")}
	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, build, true)
	workflow.Execute = executor.execute

	result, err := workflow.Run(context.Background(), containerPath, RunOptions{CheckStaleness: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if build.builds != 1 {
		t.Errorf("toolchain ran %d times, want 1", build.builds)
	}
	if !result.Rebuilt {
		t.Error("Rebuilt not set")
	}
	if string(executor.contents) != "fresh payload" {
		t.Errorf("executed %q, want the fresh artifact", executor.contents)
	}

	repacked := readContainer(t, containerPath)
	if string(repacked.Payload) != "fresh payload" {
		t.Errorf("container payload = %q", repacked.Payload)
	}
	if repacked.Fingerprint != fingerprint.Compute("module stale\n", "package main\n", testPlatform) {
		t.Error("repacked fingerprint does not match")
	}

	names := entries(t, directory)
	if len(names) != 1 || names[0] != "stale.mono" {
		t.Errorf("directory not cleaned: %v", names)
	}
}

func TestRunWithoutStalenessCheckUsesStoredPayload(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "trusted.mono")
	writeContainer(t, containerPath, container.Container{
		Manifest:    "module trusted\n",
		Source:      "package main\n",
		Payload:     []byte("stored"),
		Encoding:    container.Text,
		Fingerprint: 1,
	})

	build := &stubToolchain{}
	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, build, true)
	workflow.Execute = executor.execute

	if _, err := workflow.Run(context.Background(), containerPath, RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if build.builds != 0 {
		t.Errorf("toolchain ran without a staleness check")
	}
	if string(executor.contents) != "stored" {
		t.Errorf("executed %q", executor.contents)
	}
}

func TestRunRebuildFailureIsFatal(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "failing.mono")
	writeContainer(t, containerPath, container.Container{
		Manifest:    "module failing\n",
		Source:      "package main\n",
		Payload:     []byte("stale"),
		Encoding:    container.Raw,
		Fingerprint: 1,
	})
	before, _ := os.ReadFile(containerPath)

	build := &stubToolchain{results: []error{&toolchain.BuildFailure{Step: "go build", ExitCode: 2}}}
	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, build, true)
	workflow.Execute = executor.execute

	_, err := workflow.Run(context.Background(), containerPath, RunOptions{CheckStaleness: true})
	if !IsBuildFailure(err) {
		t.Fatalf("expected build failure, got %v", err)
	}
	if executor.calls != 0 {
		t.Error("payload executed after a failed rebuild")
	}
	after, _ := os.ReadFile(containerPath)
	if string(after) != string(before) {
		t.Error("container changed after a failed rebuild")
	}
	if names := entries(t, directory); len(names) != 1 {
		t.Errorf("directory not cleaned: %v", names)
	}
}

func TestRunEmptyContainer(t *testing.T) {
	t.Parallel()

	containerPath := filepath.Join(t.TempDir(), "empty.mono")
	if err := os.WriteFile(containerPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Execute = executor.execute

	_, err := workflow.Run(context.Background(), containerPath, RunOptions{})
	if !errors.Is(err, container.ErrMalformed) {
		t.Fatalf("expected malformed container error, got %v", err)
	}
	if executor.calls != 0 {
		t.Error("executor called for an empty container")
	}
}

func TestRunMissingContainer(t *testing.T) {
	t.Parallel()

	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	_, err := workflow.Run(context.Background(), filepath.Join(t.TempDir(), "absent.mono"), RunOptions{})
	var ioError *container.IOError
	if !errors.As(err, &ioError) {
		t.Fatalf("expected IOError, got %v", err)
	}
}

func TestRunNotStartable(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "unstartable.mono")
	writeContainer(t, containerPath, container.Container{Payload: []byte("x"), Encoding: container.Raw})

	startErr := errors.New("exec format error")
	executor := &recordingExecutor{err: startErr}
	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Execute = executor.execute

	_, err := workflow.Run(context.Background(), containerPath, RunOptions{})
	if !errors.Is(err, startErr) {
		t.Fatalf("expected start error, got %v", err)
	}
	if names := entries(t, directory); len(names) != 1 {
		t.Errorf("executable left behind: %v", names)
	}
}

func TestRunCleanupFailureKeepsExitCode(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "selfdelete.mono")
	writeContainer(t, containerPath, container.Container{Payload: []byte("x"), Encoding: container.Raw})

	// The payload removes itself, so the final delete fails.
	executor := &recordingExecutor{exitCode: 9, after: func(path string) { os.Remove(path) }}
	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Execute = executor.execute

	result, err := workflow.Run(context.Background(), containerPath, RunOptions{})
	if !IsCleanupError(err) {
		t.Fatalf("expected cleanup error, got %v", err)
	}
	if result.ExitCode != 9 {
		t.Errorf("ExitCode = %d, want 9", result.ExitCode)
	}
}

func TestRunRefusesExistingExecutable(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "occupied.mono")
	writeContainer(t, containerPath, container.Container{Payload: []byte("x"), Encoding: container.Raw})
	existing := materialize.ExecutablePath(containerPath)
	if err := os.WriteFile(existing, []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Execute = executor.execute

	if _, err := workflow.Run(context.Background(), containerPath, RunOptions{}); err == nil {
		t.Fatal("expected error when the executable path is taken")
	}
	if data, _ := os.ReadFile(existing); string(data) != "mine" {
		t.Error("existing file was replaced")
	}
}

func TestRunExtensionlessContainer(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	containerPath := filepath.Join(directory, "tool")
	manifest, source := "module tool\n", "package main\n"
	writeContainer(t, containerPath, container.Container{
		Manifest:    manifest,
		Source:      source,
		Payload:     []byte("stored payload"),
		Encoding:    container.Raw,
		Fingerprint: fingerprint.Compute(manifest, source, testPlatform),
	})

	executor := &recordingExecutor{}
	workflow := newTestWorkflow(&stubEditor{}, &stubToolchain{}, true)
	workflow.Execute = executor.execute

	if _, err := workflow.Run(context.Background(), containerPath, RunOptions{CheckStaleness: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if executor.path == containerPath {
		t.Errorf("payload materialized over the container at %s", executor.path)
	}
	if string(executor.contents) != "stored payload" {
		t.Errorf("executed %q", executor.contents)
	}
	if packed := readContainer(t, containerPath); string(packed.Payload) != "stored payload" {
		t.Errorf("container payload changed to %q", packed.Payload)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Editor = "vim"
	cfg.Encoding = container.Text
	cfg.BuildTree.SeparateDirectory = false

	workflow, err := New(cfg, materialize.Stdio{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	goToolchain, ok := workflow.Toolchain.(*toolchain.Go)
	if !ok {
		t.Fatalf("toolchain is %T", workflow.Toolchain)
	}
	if !goToolchain.Tidy || len(goToolchain.Flags) != 1 {
		t.Errorf("toolchain not configured: %+v", goToolchain)
	}
	command, ok := workflow.Editor.(*editor.Command)
	if !ok {
		t.Fatalf("editor is %T", workflow.Editor)
	}
	if command.Line != "vim {file}" {
		t.Errorf("editor line = %q", command.Line)
	}
	if workflow.Encoding != container.Text || workflow.Layout.SeparateDirectory {
		t.Errorf("workflow not configured: %+v", workflow)
	}
}

func TestNewRejectsBadEditor(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Editor = `vim "unterminated`
	if _, err := New(cfg, materialize.Stdio{}, nil); err == nil {
		t.Fatal("expected error for unparsable editor command")
	}
}
