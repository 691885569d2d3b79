// Package compiler is the driver: it turns a file or directory path into
// one or more completed class translations, wiring together the lexer,
// symbol table, translator and VM writer for each input file. It is
// grounded on the original Jack compiler's main.go (removeExtension /
// getClassName / getOutputPath / processFile / collectFiles), adapted to
// return errors instead of printing-and-continuing so a cobra command can
// own the reporting policy.
package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/libklein/jack2vm/internal/lexer"
	"github.com/libklein/jack2vm/internal/translator"
	"github.com/libklein/jack2vm/internal/vmwriter"
)

// SourceExtension is the only extension the driver treats as a
// compilation unit.
const SourceExtension = ".jack"

// OutputExtension is the extension written for each compiled class.
const OutputExtension = ".vm"

// OutputPath returns the path a given source file's translation is
// written to: the same directory and base name, with OutputExtension.
func OutputPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return sourcePath[:len(sourcePath)-len(ext)] + OutputExtension
}

// Translate reads a single .jack file from r and writes its VM
// translation to w. name is used only for diagnostics and does not have
// to be a real path (tests may pass a synthetic one).
func Translate(r io.Reader, w io.Writer, name string) error {
	source, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	lex := lexer.New(strings.NewReader(string(source)))
	writer := vmwriter.New(w)
	tr := translator.New(lex, writer, name, string(source))

	return tr.Translate()
}

// CompileFile translates the source file at path, writing the result to
// its OutputPath. Once the source file is open, it returns that output
// path even on failure, since a truncated file may have been created
// (callers should not rely on its contents in that case, per the driver's
// error-handling contract). If the source file cannot be opened, the
// returned path is empty.
func CompileFile(path string) (outputPath string, err error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open %q for reading: %w", path, err)
	}
	defer in.Close()

	outputPath = OutputPath(path)
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return outputPath, fmt.Errorf("could not open %q for writing: %w", outputPath, err)
	}
	defer out.Close()

	if err := Translate(in, out, path); err != nil {
		return outputPath, err
	}
	return outputPath, nil
}

// CollectFiles resolves fileOrDir into the list of .jack files to compile:
// itself, if it is a file, or every immediate .jack child, if it is a
// directory (non-recursive).
func CollectFiles(fileOrDir string) ([]string, error) {
	info, err := os.Stat(fileOrDir)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %q: %w", fileOrDir, err)
	}

	if !info.IsDir() {
		if filepath.Ext(fileOrDir) != SourceExtension {
			return nil, fmt.Errorf("%q is not a %s file", fileOrDir, SourceExtension)
		}
		return []string{fileOrDir}, nil
	}

	entries, err := os.ReadDir(fileOrDir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %q: %w", fileOrDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != SourceExtension {
			continue
		}
		files = append(files, filepath.Join(fileOrDir, entry.Name()))
	}
	return files, nil
}

// Result records the outcome of compiling a single file.
type Result struct {
	InputPath  string
	OutputPath string
	Err        error
}

// CompileAll compiles every file returned by CollectFiles(fileOrDir). A
// structural or I/O failure on one file does not prevent the remaining
// siblings from being attempted: in directory mode this tool favors
// best-effort compilation over an all-or-nothing abort, since each file is
// an independent, single-pass translation with nothing to corrupt for its
// neighbors.
func CompileAll(fileOrDir string) ([]Result, error) {
	files, err := CollectFiles(fileOrDir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		outputPath, compileErr := CompileFile(file)
		results = append(results, Result{InputPath: file, OutputPath: outputPath, Err: compileErr})
	}
	return results, nil
}
