package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/iroquiz/internal/dataset"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE.csv...",
	Short: "Convert CSV datasets to JSON",
	Long: "Convert each CSV file to a JSON array of records written beside it\n" +
		"with a .json extension. Missing files are reported and skipped.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		failed := 0
		for _, in := range args {
			dst, err := convertFile(in)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				fmt.Fprintf(errOut, "Skipping %s: file not found\n", in)
			case err != nil:
				failed++
				fmt.Fprintf(errOut, "Failed to convert %s: %v\n", in, err)
			default:
				fmt.Fprintf(out, "Converted %s -> %s\n", in, dst)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to convert", failed, len(args))
		}
		return nil
	},
}

// convertFile writes the JSON rendition of the CSV at path and returns the
// output path.
func convertFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	records, header, err := dataset.ParseCSV(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := dataset.WriteJSON(&buf, records, header); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	dst := jsonPath(path)
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return dst, nil
}

// jsonPath swaps the file extension for .json.
func jsonPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}
