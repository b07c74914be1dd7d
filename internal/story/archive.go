package story

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Project is the full on-disk document of a .cy archive. PlayerData is
// opaque to the authoring tools; it is carried through round-trips so
// player-facing runtimes can stash their own state in the archive.
type Project struct {
	Metadata   Metadata        `json:"metadata"`
	Graph      Graph           `json:"storymap"`
	PlayerData json.RawMessage `json:"playerdata,omitempty"`
}

// SaveArchive writes the project as zstd-compressed JSON to path,
// appending the .cy extension if absent. The parent directory is
// created when missing.
func SaveArchive(path string, project *Project) error {
	if project == nil {
		return fmt.Errorf("saving archive: project is nil")
	}
	if !strings.HasSuffix(path, ".cy") {
		path += ".cy"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("saving archive: %w", err)
		}
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}
	compressed := encoder.EncodeAll(data, nil)
	encoder.Close()

	if err := os.WriteFile(path, compressed, 0o600); err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}
	return nil
}

// LoadArchive reads and decompresses a .cy archive.
func LoadArchive(path string) (*Project, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	defer decoder.Close()

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	if project.Graph == nil {
		project.Graph = Graph{}
	}
	return &project, nil
}
