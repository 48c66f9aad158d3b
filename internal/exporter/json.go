package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// WriteJSON writes v as indented JSON and returns the full path
func (w *CSVWriter) WriteJSON(filePath string, v interface{}) (string, error) {
	fullPath := w.resolvePath(filePath)
	w.logger.Info("Writing JSON file", slog.String("full_path", fullPath))

	err := writeAtomic(fullPath, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filePath, err)
	}
	return fullPath, nil
}
