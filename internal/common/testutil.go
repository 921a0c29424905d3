package common

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// CreateTempFile returns a path to a not-yet-created temp file under the
// test's temp dir, plus a cleanup func. Grounded on the teacher's
// internal/utils/tests.go helper.
func CreateTempFile(t *testing.T) (string, func()) {
	t.Helper()
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, fmt.Sprintf("bufferpool-test-%d.dat", rand.Intn(1_000_000)))
	return tempFile, func() {
		os.Remove(tempFile)
	}
}
