package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	annotatorrpc "tasktrail/internal/modules/annotator/adapter/out/rpc"
	"tasktrail/internal/modules/annotator/domain"
	annotatorout "tasktrail/internal/modules/annotator/port/out"
)

const (
	defaultStartTimeout    = 3 * time.Second
	defaultCallTimeout     = 5 * time.Second
	defaultAnnotateTimeout = 30 * time.Second
)

type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost launches annotator binaries per call. A nil logger silences plugin output.
func NewGRPCHost(logger hclog.Logger) annotatorout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger.Named("annotator.host")}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Model: meta.Model, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Annotate(ctx context.Context, manifest domain.Manifest, req domain.AnnotateRequest) (domain.Annotation, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Annotation{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultAnnotateTimeout)
	defer cancel()

	var capturedMS int64
	if !req.CapturedAt.IsZero() {
		capturedMS = req.CapturedAt.UnixMilli()
	}
	response, err := client.Annotate(callCtx, &annotatorrpc.AnnotateRequest{
		ScreenshotPath: req.ScreenshotPath,
		CapturedAtMS:   capturedMS,
		Hints:          req.Hints,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.Annotation{}, fmt.Errorf("%w: %s", domain.ErrAnnotatorTimeout, manifest.Name)
		}
		return domain.Annotation{}, fmt.Errorf("annotate: %w", err)
	}
	h.logger.Debug("annotation received", "annotator", manifest.Name, "path", req.ScreenshotPath, "model", response.Model)
	return domain.Annotation{
		WindowTitle: response.WindowTitle,
		Category:    response.Category,
		OCRText:     response.OCRText,
		Model:       response.Model,
	}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (annotatorrpc.AnnotatorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  annotatorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          annotatorrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start annotator client: %w", err)
	}
	raw, err := rpcClient.Dispense(annotatorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense annotator: %w", err)
	}
	typed, ok := raw.(annotatorrpc.AnnotatorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("annotator rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
