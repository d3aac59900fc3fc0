package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	annotatorrpc "tasktrail/internal/modules/annotator/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

const model = "window-annotator/sidecar"

type sidecar struct {
	WindowTitle string `json:"window_title"`
	Category    string `json:"category"`
	OCRText     string `json:"ocr_text"`
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *annotatorrpc.Empty) (*annotatorrpc.Metadata, error) {
	return &annotatorrpc.Metadata{
		Name:         "window-annotator",
		Version:      "1.0.0",
		Model:        model,
		Capabilities: []string{"annotate", "ocr"},
	}, nil
}

// Annotate reads <screenshot>.json when the capture tool wrote one and
// otherwise falls back to the file name.
func (s *server) Annotate(_ context.Context, in *annotatorrpc.AnnotateRequest) (*annotatorrpc.AnnotateResponse, error) {
	if in.ScreenshotPath == "" {
		return nil, fmt.Errorf("screenshot path is required")
	}
	out := &annotatorrpc.AnnotateResponse{Model: model}

	raw, err := os.ReadFile(in.ScreenshotPath + ".json")
	switch {
	case err == nil:
		var meta sidecar
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("decode sidecar: %w", err)
		}
		out.WindowTitle = meta.WindowTitle
		out.Category = meta.Category
		out.OCRText = meta.OCRText
	case os.IsNotExist(err):
		out.WindowTitle = titleFromFile(in.ScreenshotPath)
	default:
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	if out.Category == "" {
		out.Category = in.Hints["category"]
	}
	if out.Category == "" {
		out.Category = "Other"
	}
	return out, nil
}

func titleFromFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: annotatorrpc.HandshakeConfig,
		Plugins:         annotatorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
