package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"herowiki/internal/components/telemetry"
)

// FilesystemOutput writes each HTTP message dump into its own file inside a directory.
type FilesystemOutput struct {
	directory string
}

var _ telemetry.MessageOutput = FilesystemOutput{}

// NewFilesystemOutput clears `dir` and recreates it, so a run only ever
// contains the dumps it produced.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("clear dump dir: %w", err)
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("create dump dir: %w", err)
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".http"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
