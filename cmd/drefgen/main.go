// cmd/drefgen/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// This binary is a code-generation tool.
//
// It reads a spec describing one dual parent-reference binding and generates
// a typed facade over the generic dref core, with constructor and accessor
// names derived from the configured role (what): ForAccount, ForAccountID,
// Account(), AccountID().
//
// Key behaviors:
// - Reads spec JSON or YAML: package, ident, what, parentType, idType, binding var, getter/weak flags
// - Rejects weak-without-getter at generation time, before any output is written
// - Emits the identifier constructor (For<What>ID) only when a getter is configured
// - Locates the "owner" Go file (the file containing the go:generate for cmd/drefgen) in the same directory
// - Reads imports from the owner file and reuses them in the generated file (so generated code matches local style)
// - Ensures the dref package is imported, and an import usable for the id type's package qualifier
// - Writes output atomically (temp file + rename) to avoid partial writes

// Imports defines fallback import paths for the generated code.
//
// ID is used only when the id type is package-qualified (e.g. uuid.UUID) and
// the owner file does not already provide a usable import for the qualifier.
type Imports struct {
	// Optional fallback import path for the id type's package.
	ID string `json:"id" yaml:"id"`
}

// Spec is the full input schema consumed by the generator.
//
// It mirrors the dref.Config fields that affect the generated surface; the
// callbacks themselves (identify, getter, alive) live on the binding
// variable that the owner package defines.
type Spec struct {
	// Package is the package name of the generated file.
	Package string `json:"package" yaml:"package"`

	// Ident is the binding's diagnostic name, kept in a comment on the
	// generated wrapper so error messages are easy to trace back.
	Ident string `json:"ident" yaml:"ident"`

	// What is the role name of the parent reference. It drives every
	// derived name and must be a Go identifier, e.g. "account".
	What string `json:"what" yaml:"what"`

	// Wrapper is the generated facade type name. Defaults to <What>Ref.
	Wrapper string `json:"wrapper" yaml:"wrapper"`

	// ParentType is the parent's Go type within the owner package.
	ParentType string `json:"parentType" yaml:"parentType"`

	// IDType is the identifier's Go type, possibly package-qualified.
	IDType string `json:"idType" yaml:"idType"`

	// Binding is the owner package's binding variable,
	// a *dref.Binding[ParentType, IDType].
	Binding string `json:"binding" yaml:"binding"`

	// Getter reports whether the binding has a getter configured; it gates
	// the For<What>ID constructor.
	Getter bool `json:"getter" yaml:"getter"`

	// Weak is optional:
	// - nil: weak, matching the library default
	// - true/false: explicit override
	Weak *bool `json:"weak" yaml:"weak"`

	Imports Imports `json:"imports" yaml:"imports"`
}

// ImportSpec models one Go import: optional alias and full import path.
type ImportSpec struct {
	Alias string
	Path  string
}

// templateData is the input passed to the Go template.
type templateData struct {
	Spec        Spec
	ImportsList []ImportSpec
	WhatName    string // exported form of Spec.What
	Weak        bool
}

// drefImportPath is always present in generated files.
const drefImportPath = "github.com/sghaida/dref/dref"

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("drefgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	specPath := flags.String("spec", "", "path to *.binding.json or *.binding.yaml")
	outPath := flags.String("out", "", "output .gen.go file path")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*specPath) == "" || strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: drefgen -spec <file.binding.json|yaml> -out <file.gen.go>")
		return 2
	}

	specBytes, err := os.ReadFile(*specPath)
	must(err)

	var spec Spec
	switch strings.ToLower(filepath.Ext(*specPath)) {
	case ".yaml", ".yml":
		must(yaml.Unmarshal(specBytes, &spec))
	default:
		must(json.Unmarshal(specBytes, &spec))
	}

	validateSpec(&spec)

	if strings.TrimSpace(spec.Wrapper) == "" {
		spec.Wrapper = exportName(spec.What) + "Ref"
	}

	generatedFilePath := filepath.Clean(*outPath)
	packageDir := filepath.Dir(generatedFilePath)

	ownerGoFilePath, err := findOwnerGoGenerateFile(packageDir)
	if err != nil {
		// If we can’t find the owner file, we can still generate.
		// resolveImports will fall back to spec.imports.id when needed.
		ownerGoFilePath = ""
	}

	importsList, err := resolveImports(ownerGoFilePath, &spec)
	if err != nil {
		// This is user-actionable: it means we can’t produce valid imports
		// for the id type.
		panic(err)
	}

	data := templateData{
		Spec:        spec,
		ImportsList: importsList,
		WhatName:    exportName(spec.What),
		Weak:        spec.Weak == nil || *spec.Weak,
	}

	var out strings.Builder
	must(genTemplate.Execute(&out, data))

	must(writeFileAtomic(generatedFilePath, []byte(out.String()), 0o644))
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// validateSpec validates semantic correctness of the input specification.
func validateSpec(spec *Spec) {
	var missingFields []string

	requireNonEmpty := func(fieldName, value string) {
		if strings.TrimSpace(value) == "" {
			missingFields = append(missingFields, fieldName)
		}
	}

	requireNonEmpty("package", spec.Package)
	requireNonEmpty("ident", spec.Ident)
	requireNonEmpty("what", spec.What)
	requireNonEmpty("parentType", spec.ParentType)
	requireNonEmpty("idType", spec.IDType)
	requireNonEmpty("binding", spec.Binding)

	if len(missingFields) > 0 {
		panic(fmt.Errorf("spec missing required fields: %v", missingFields))
	}

	if !isIdentifier(spec.What) {
		panic(fmt.Errorf("what must be a Go identifier, got: %q", spec.What))
	}

	// The same rule the library enforces in dref.New: a weak binding with no
	// getter could never resurrect its parent slot. Fail here, before any
	// file is written.
	weak := spec.Weak == nil || *spec.Weak
	if weak && !spec.Getter {
		panic(fmt.Errorf("spec %q: weak binding requires a getter", spec.Ident))
	}
}

// isIdentifier reports whether s is a plain Go identifier.
func isIdentifier(s string) bool {
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return s != ""
}

// exportName upper-cases the first rune of what, yielding the name stem for
// the generated constructors and accessors.
func exportName(what string) string {
	r, size := utf8.DecodeRuneInString(what)
	return string(unicode.ToUpper(r)) + what[size:]
}

// idQualifier returns the package qualifier of a qualified id type
// ("uuid.UUID" -> "uuid"), or "" for unqualified types like "string".
func idQualifier(idType string) string {
	if i := strings.IndexByte(idType, '.'); i > 0 {
		return idType[:i]
	}
	return ""
}

// findOwnerGoGenerateFile finds the Go source file in packageDir that contains a go:generate
// directive invoking cmd/drefgen.
//
// This is used to discover the owner file’s imports so generated code matches local style.
func findOwnerGoGenerateFile(packageDir string) (string, error) {
	dirEntries, err := os.ReadDir(packageDir)
	if err != nil {
		return "", err
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") ||
			strings.HasSuffix(fileName, ".gen.go") {
			continue
		}

		filePath := filepath.Join(packageDir, fileName)
		fileBytes, err := os.ReadFile(filePath)
		if err != nil {
			// Best-effort: unreadable file shouldn’t break generation.
			continue
		}

		if bytes.Contains(fileBytes, []byte("go:generate")) && bytes.Contains(fileBytes, []byte("cmd/drefgen")) {
			return filePath, nil
		}
	}

	return "", fmt.Errorf("could not find owner file with go:generate invoking cmd/drefgen in %s", packageDir)
}

// readImportsFromFile parses imports from a Go file.
func readImportsFromFile(goFilePath string) ([]ImportSpec, error) {
	fileSet := token.NewFileSet()
	parsedFile, err := parser.ParseFile(fileSet, goFilePath, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	var imports []ImportSpec
	for _, importDecl := range parsedFile.Imports {
		importPath := strings.Trim(importDecl.Path.Value, `"`)
		importAlias := ""
		if importDecl.Name != nil {
			importAlias = importDecl.Name.Name
		}
		imports = append(imports, ImportSpec{Alias: importAlias, Path: importPath})
	}

	return imports, nil
}

func ensureImport(imports *[]ImportSpec, required ImportSpec) {
	for _, existing := range *imports {
		if existing.Path == required.Path {
			// Don’t duplicate the path; keep existing alias as-is.
			return
		}
	}
	*imports = append(*imports, required)
}

func containsAlias(imports []ImportSpec, alias string) bool {
	for _, existing := range imports {
		if existing.Alias == alias && alias != "" {
			return true
		}
	}
	return false
}

func importDefaultIdent(importPath string) string {
	// Import paths always use forward slashes, even on Windows.
	return path.Base(strings.TrimSpace(importPath))
}

// hasUsableIdent returns true if generated code can refer to the given
// package qualifier with the imports currently present.
func hasUsableIdent(imports []ImportSpec, qualifier string) bool {
	// Explicit alias <qualifier> "..."
	if containsAlias(imports, qualifier) {
		return true
	}
	// Default identifier is the base of the import path if Alias == "".
	for _, imp := range imports {
		if imp.Alias == "" && importDefaultIdent(imp.Path) == qualifier {
			return true
		}
	}
	return false
}

// resolveImports builds the final imports list for the generated file.
//
// Rules:
// - Always ensure the dref package is present (the wrapper embeds *dref.Ref)
// - Prefer imports from owner file, if available
// - If the id type is unqualified (e.g. string), no further imports are forced
// - If the id type is package-qualified, guarantee a usable identifier:
//   - Explicit alias `<qualifier> "..."`, OR
//   - default import name equals the qualifier (import path base matches), OR
//   - fall back to spec.imports.id and import it as `<qualifier> "..."`.
func resolveImports(ownerFilePath string, spec *Spec) ([]ImportSpec, error) {
	// Start with owner imports, best-effort.
	var importsFromOwner []ImportSpec
	if strings.TrimSpace(ownerFilePath) != "" {
		parsedOwnerImports, err := readImportsFromFile(ownerFilePath)
		if err == nil {
			importsFromOwner = parsedOwnerImports
		}
		// If parsing fails, fall back to empty and rely on spec fallback behavior.
	}

	finalImports := make([]ImportSpec, 0, len(importsFromOwner)+2)
	finalImports = append(finalImports, importsFromOwner...)

	// dref is always required by the generated wrapper.
	ensureImport(&finalImports, ImportSpec{Path: drefImportPath})

	qualifier := idQualifier(spec.IDType)
	if qualifier == "" {
		return finalImports, nil
	}

	// If owner already provides a usable identifier for the qualifier, we’re done.
	if hasUsableIdent(finalImports, qualifier) {
		return finalImports, nil
	}

	// Otherwise we must add a fallback id import from the spec.
	if strings.TrimSpace(spec.Imports.ID) == "" {
		return nil, fmt.Errorf(
			"id type %q needs package %q, but no usable import was found in the owner file and spec.imports.id is empty",
			spec.IDType, qualifier,
		)
	}

	// Add an explicit alias import so generated code can reference the id type.
	ensureImport(&finalImports, ImportSpec{Alias: qualifier, Path: spec.Imports.ID})
	return finalImports, nil
}

// genTemplate is the Go source template used to generate the facade code.
var genTemplate = template.Must(
	template.New("drefgen").Parse(`// Code generated by drefgen; DO NOT EDIT.

package {{.Spec.Package}}

import (
{{range .ImportsList}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}
)

// {{.Spec.Wrapper}} is the dual {{.Spec.What}} reference (binding {{printf "%q" .Spec.Ident}}, {{if .Weak}}weak{{else}}strong{{end}}).
// It always yields both the {{.Spec.What}} object and its identifier,
// regardless of which one it was constructed from.
type {{.Spec.Wrapper}} struct {
	ref *dref.Ref[{{.Spec.ParentType}}, {{.Spec.IDType}}]
}

// For{{.WhatName}} constructs {{.Spec.Wrapper}} from the {{.Spec.What}} object.
func For{{.WhatName}}(parent *{{.Spec.ParentType}}) ({{.Spec.Wrapper}}, error) {
	r, err := {{.Spec.Binding}}.ForParent(parent)
	if err != nil {
		return {{.Spec.Wrapper}}{}, err
	}
	return {{.Spec.Wrapper}}{ref: r}, nil
}

// For{{.WhatName}}WithID constructs {{.Spec.Wrapper}} from the {{.Spec.What}} object
// plus its identifier, enforcing that the two agree.
func For{{.WhatName}}WithID(parent *{{.Spec.ParentType}}, id {{.Spec.IDType}}) ({{.Spec.Wrapper}}, error) {
	r, err := {{.Spec.Binding}}.ForParentWithID(parent, id)
	if err != nil {
		return {{.Spec.Wrapper}}{}, err
	}
	return {{.Spec.Wrapper}}{ref: r}, nil
}
{{- if .Spec.Getter}}

// For{{.WhatName}}ID constructs {{.Spec.Wrapper}} from the {{.Spec.What}} identifier.
func For{{.WhatName}}ID(id {{.Spec.IDType}}) ({{.Spec.Wrapper}}, error) {
	r, err := {{.Spec.Binding}}.ForParentID(id)
	if err != nil {
		return {{.Spec.Wrapper}}{}, err
	}
	return {{.Spec.Wrapper}}{ref: r}, nil
}
{{- end}}

// {{.WhatName}} returns the {{.Spec.What}} object, resolving it as needed.
func (w {{.Spec.Wrapper}}) {{.WhatName}}() (*{{.Spec.ParentType}}, error) {
	return w.ref.Parent()
}

// {{.WhatName}}ID returns the {{.Spec.What}} identifier, deriving it once if needed.
func (w {{.Spec.Wrapper}}) {{.WhatName}}ID() ({{.Spec.IDType}}, error) {
	return w.ref.ParentID()
}

// Liveness reports the state of the stored {{.Spec.What}} reference.
func (w {{.Spec.Wrapper}}) Liveness() dref.Liveness {
	return w.ref.Liveness()
}

// Ref exposes the underlying generic ref, e.g. for dref.Share.
func (w {{.Spec.Wrapper}}) Ref() *dref.Ref[{{.Spec.ParentType}}, {{.Spec.IDType}}] {
	return w.ref
}
`),
)

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return err
	}
	return nil
}

// must panics if err is non-nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
