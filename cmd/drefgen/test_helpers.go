// test_helpers.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// minimalSpecJSON returns a minimal binding spec JSON that passes
// validateSpec and allows run() to generate output.
//
// It includes imports.id as a fallback so generation can still succeed even
// when owner-file import discovery fails (by design in some tests).
func minimalSpecJSON() []byte {
	return []byte(`{
  "package": "billing",
  "ident": "invoice.account",
  "what": "account",
  "parentType": "Account",
  "idType": "uuid.UUID",
  "binding": "accountBinding",
  "getter": true,
  "imports": { "id": "github.com/google/uuid" }
}`)
}

// strongNoGetterSpecJSON returns a spec for an explicit strong binding with
// no getter, which must not emit the identifier constructor.
func strongNoGetterSpecJSON() []byte {
	return []byte(`{
  "package": "billing",
  "ident": "invoice.account",
  "what": "account",
  "parentType": "Account",
  "idType": "string",
  "binding": "accountBinding",
  "getter": false,
  "weak": false
}`)
}

// minimalSpecYAML mirrors minimalSpecJSON in YAML form.
func minimalSpecYAML() []byte {
	return []byte(`package: billing
ident: invoice.account
what: account
parentType: Account
idType: uuid.UUID
binding: accountBinding
getter: true
imports:
  id: github.com/google/uuid
`)
}

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

func boolPtr(v bool) *bool { return &v }

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), perm))
	return p
}

// readFileString reads a file and returns its contents as string (fatal on error).
func readFileString(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

// requirePanicContains asserts fn panics and the panic message contains wantSub.
func requirePanicContains(t *testing.T, wantSub string, fn func()) {
	t.Helper()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		var message string
		switch v := recovered.(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
		require.Contains(t, message, wantSub)
	}()

	fn()
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
// It lets tests force errors on Write and Close without touching real files.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// snapshotWriteFileSeams captures the current global file seams so tests can
// restore them. writeFileAtomic uses these seams for testability.
func snapshotWriteFileSeams(t *testing.T) (
	origCreate func(string, string) (tempFile, error),
	origRemove func(string) error,
	origChmod func(string, os.FileMode) error,
	origRename func(string, string) error,
) {
	t.Helper()
	return createTempFile, removeFile, chmodFile, renameFile
}

// setWriteFileSeams overrides the global seams used by writeFileAtomic.
// Pass nil for any seam you don't want to override.
func setWriteFileSeams(
	t *testing.T,
	createFn func(string, string) (tempFile, error),
	removeFn func(path string) error,
	chmodFn func(path string, mode os.FileMode) error,
	renameFn func(oldpath, newpath string) error,
) {
	t.Helper()

	if createFn != nil {
		createTempFile = createFn
	}
	if removeFn != nil {
		removeFile = removeFn
	}
	if chmodFn != nil {
		chmodFile = chmodFn
	}
	if renameFn != nil {
		renameFile = renameFn
	}
}
