package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	jerrors "github.com/opal-lang/join/internal/errors"
	"github.com/opal-lang/join/runtime/expand"
)

// SourceExt marks Go files that contain macro calls.
const SourceExt = ".gojoin"

// generatedHeader is the first line of every output file.
const generatedHeader = "// Code generated by joingen. DO NOT EDIT."

type genFlags struct {
	check  bool
	watch  bool
	stdout bool
}

func (a *app) genCmd() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "gen [paths...]",
		Short: "Expand " + SourceExt + " files into Go files",
		Long: `Expands every ` + SourceExt + ` file found under the given paths (default ".")
into a sibling Go file named after the configured suffix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			if flags.check && (flags.watch || flags.stdout) {
				return jerrors.New(jerrors.ErrUsage, "--check cannot be combined with --watch or --stdout")
			}

			files, err := findSources(args)
			if err != nil {
				return err
			}
			a.logger.Debug("found sources", "count", len(files))

			if flags.check {
				return a.check(files)
			}
			if err := a.generateAll(files, flags.stdout); err != nil {
				if !flags.watch {
					return err
				}
				a.report(err)
			}
			if !flags.watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args, func(path string) error {
				return a.generateAll([]string{path}, flags.stdout)
			})
		},
	}

	cmd.Flags().BoolVar(&flags.check, "check", false, "Fail if any generated file is missing or out of date")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Regenerate when source files change")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "Print generated code instead of writing files")
	return cmd
}

// findSources expands paths into a sorted list of source files. Directories
// are walked recursively, skipping hidden directories, testdata and vendor.
func findSources(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, jerrors.Wrap(jerrors.ErrFileNotFound, fmt.Sprintf("no such file or directory: %s", root), err)
			}
			return nil, jerrors.NewInputError(root, err)
		}
		if !info.IsDir() {
			if filepath.Ext(root) != SourceExt {
				return nil, jerrors.New(jerrors.ErrUsage, fmt.Sprintf("%s is not a %s file", root, SourceExt))
			}
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == SourceExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, jerrors.NewInputError(root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor"
}

// outputPath maps foo.gojoin to foo<suffix>.
func (a *app) outputPath(source string) string {
	return strings.TrimSuffix(source, SourceExt) + a.cfg.Suffix
}

// render expands one source file into the complete output file.
func (a *app) render(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, jerrors.NewInputError(path, err)
	}

	opts := append(a.expandOptions(a.cfg.JoinMode()), expand.WithFilename(path))
	res, err := expand.File(src, opts...)
	if err != nil {
		return nil, classify(path, err)
	}
	fingerprint, err := res.Fingerprint()
	if err != nil {
		return nil, jerrors.NewGenerationError(path, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n// Source: %s\n// Fingerprint: %s\n\n",
		generatedHeader, filepath.ToSlash(filepath.Base(path)), fingerprint)
	buf.Write(res.Source)

	a.logger.Debug("expanded file", "file", path, "macros", len(res.Expansions), "fingerprint", fingerprint)
	return buf.Bytes(), nil
}

// generateAll renders and writes every file, stopping at the first failure.
func (a *app) generateAll(files []string, toStdout bool) error {
	for _, path := range files {
		out, err := a.render(path)
		if err != nil {
			return err
		}
		if toStdout {
			if _, err := a.stdout.Write(out); err != nil {
				return jerrors.NewOutputError("stdout", err)
			}
			continue
		}

		target := a.outputPath(path)
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return jerrors.NewOutputError(target, err)
		}
		a.logger.Info("generated", "file", target)
	}
	return nil
}

// check reports outputs that are missing or differ from a fresh expansion.
func (a *app) check(files []string) error {
	var stale []string
	for _, path := range files {
		want, err := a.render(path)
		if err != nil {
			return err
		}
		target := a.outputPath(path)
		got, err := os.ReadFile(target)
		if err != nil && !os.IsNotExist(err) {
			return jerrors.NewInputError(target, err)
		}
		if !bytes.Equal(got, want) {
			stale = append(stale, target)
		}
	}

	if len(stale) > 0 {
		return jerrors.New(jerrors.ErrStale,
			fmt.Sprintf("%d generated file(s) out of date: %s", len(stale), strings.Join(stale, ", "))).
			WithContext("files", stale)
	}
	_, _ = fmt.Fprintf(a.stdout, "%d file(s) up to date\n", len(files))
	return nil
}
