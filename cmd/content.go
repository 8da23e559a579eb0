package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/illarion/lockfs/internal/core"
	"github.com/spf13/cobra"
)

var (
	contentFile string
	contentJSON bool
	encrypt     bool
)

func resetContentFlags() {
	contentFile = ""
	contentJSON = false
	encrypt = false
	overwrite = false
	showDiff = false
}

// addContentFlags registers the flags shared by save and edit.
func addContentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&contentFile, "file", "f", "", "read content from a local file ('-' for stdin)")
	cmd.Flags().BoolVar(&contentJSON, "json", false, "parse content as JSON and store it structured")
	cmd.Flags().BoolVarP(&encrypt, "encrypt", "e", false, "encrypt the stored content")
}

// readContent builds content for name from the inline argument, a local
// file, or stdin. Data that does not look like text is stored as binary.
func readContent(name string, args []string) (core.Content, error) {
	var data []byte
	switch {
	case contentFile == "-" || (contentFile == "" && len(args) == 0):
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return core.Content{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		data = b
	case contentFile != "":
		b, err := os.ReadFile(contentFile)
		if err != nil {
			return core.Content{}, fmt.Errorf("failed to read %s: %w", contentFile, err)
		}
		data = b
	default:
		data = []byte(args[0])
	}

	// JSON-named files take JSON text as structured content
	if contentJSON || strings.HasSuffix(strings.ToLower(name), ".json") {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			return core.Structured(v), nil
		}
		if contentJSON {
			return core.Content{}, fmt.Errorf("invalid JSON content: %w", err)
		}
	}

	if !core.LooksLikeText(data) {
		return core.Binary(data), nil
	}
	return core.Text(string(data)), nil
}

// writeContent prints content to stdout or the given file.
func writeContent(c core.Content, output string) error {
	data := c.Bytes()
	if output != "" {
		if err := os.WriteFile(output, data, core.FilePermSecure); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}
	if c.Kind() != core.KindBinary && (len(data) == 0 || data[len(data)-1] != '\n') {
		fmt.Println()
	}
	return nil
}
