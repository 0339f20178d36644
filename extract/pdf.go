package extract

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and returns its stdout.
// Abstracted so tests can inject canned output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckPDFToolAvailable reports whether pdftotext is installed.
func CheckPDFToolAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// extractPDF extracts text from a PDF payload by shelling out to
// pdftotext. The payload is written to a temporary file; "-" sends the
// extracted text to stdout.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "rfpbase-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return "", ErrMalformedDocument
	}
	return strings.TrimSpace(string(out)), nil
}
