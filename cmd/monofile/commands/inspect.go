// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"

	"github.com/monofile-dev/monofile/cmd/monofile/cli"
	"github.com/monofile-dev/monofile/lib/container"
	"github.com/monofile-dev/monofile/lib/fingerprint"
)

// inspectReport describes a container without running it.
type inspectReport struct {
	Path           string `json:"path"`
	Empty          bool   `json:"empty"`
	Encoding       string `json:"encoding,omitempty"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	Platform       string `json:"platform"`
	Stale          bool   `json:"stale"`
	ContainerBytes int    `json:"container_bytes"`
	ManifestBytes  int    `json:"manifest_bytes"`
	SourceBytes    int    `json:"source_bytes"`
	PayloadBytes   int    `json:"payload_bytes"`
	PayloadBLAKE3  string `json:"payload_blake3,omitempty"`
}

type inspectParams struct {
	cli.JSONOutput
	globals globalOptions
}

func inspectCommand(env Environment) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe a container without running it",
		Description: `Print a container's payload encoding, fingerprint, section sizes, and
a BLAKE3 digest of the stored executable. "stale" reports whether the
fingerprint matches the manifest and source for this platform, which
is what "run --check-staleness" would rebuild on.`,
		Usage: "monofile inspect <file> [flags]",
		Examples: []cli.Example{
			{Description: "Show a summary", Command: "monofile inspect tool.mono"},
			{Description: "Machine-readable output", Command: "monofile inspect --json tool.mono"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			params.globals.register(flagSet)
			params.AddJSONFlag(flagSet)
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("inspect requires exactly one container file argument")
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			data, err := container.ReadFile(path)
			if err != nil {
				return err
			}
			report, err := inspect(path, data, fingerprint.Platform())
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(env.Stdout, report); done {
				return err
			}
			printReport(env, report)
			return nil
		},
	}
}

// inspect decodes data and summarizes it. An empty container is not an
// error here: it is reported as empty.
func inspect(path string, data []byte, platform string) (inspectReport, error) {
	report := inspectReport{
		Path:           path,
		Platform:       platform,
		ContainerBytes: len(data),
	}
	if len(data) == 0 {
		report.Empty = true
		return report, nil
	}

	decoded, err := container.Decode(data)
	if err != nil {
		return inspectReport{}, err
	}

	digest := blake3.Sum256(decoded.Payload)
	report.Encoding = decoded.Encoding.String()
	report.Fingerprint = fmt.Sprintf("%016x", decoded.Fingerprint)
	report.Stale = fingerprint.IsStale(decoded.Fingerprint, decoded.Manifest, decoded.Source, platform)
	report.ManifestBytes = len(decoded.Manifest)
	report.SourceBytes = len(decoded.Source)
	report.PayloadBytes = len(decoded.Payload)
	report.PayloadBLAKE3 = hex.EncodeToString(digest[:])
	return report, nil
}

func printReport(env Environment, report inspectReport) {
	if report.Empty {
		fmt.Fprintf(env.Stdout, "%s: empty container (run \"monofile edit\" to create its program)\n", report.Path)
		return
	}

	writer := tabwriter.NewWriter(env.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Path:\t%s\n", report.Path)
	fmt.Fprintf(writer, "Encoding:\t%s\n", report.Encoding)
	fmt.Fprintf(writer, "Fingerprint:\t%s\n", report.Fingerprint)
	fmt.Fprintf(writer, "Stale on %s:\t%t\n", report.Platform, report.Stale)
	fmt.Fprintf(writer, "Manifest:\t%d bytes\n", report.ManifestBytes)
	fmt.Fprintf(writer, "Source:\t%d bytes\n", report.SourceBytes)
	fmt.Fprintf(writer, "Payload:\t%d bytes\n", report.PayloadBytes)
	fmt.Fprintf(writer, "Payload BLAKE3:\t%s\n", report.PayloadBLAKE3)
	fmt.Fprintf(writer, "Container:\t%d bytes\n", report.ContainerBytes)
	writer.Flush()
}
