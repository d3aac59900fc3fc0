package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasktrail/internal/modules/annotator/domain"
	"tasktrail/internal/modules/annotator/dto"
	annotatorout "tasktrail/internal/modules/annotator/port/out"
	apperrors "tasktrail/internal/platform/errors"
)

type AnnotatorService struct {
	store annotatorout.ManifestStore
	host  annotatorout.Host
}

func NewAnnotatorService(store annotatorout.ManifestStore, host annotatorout.Host) *AnnotatorService {
	return &AnnotatorService{store: store, host: host}
}

func (s *AnnotatorService) List(ctx context.Context) ([]dto.AnnotatorInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnnotatorInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.AnnotatorInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *AnnotatorService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			meta, err := s.host.GetMetadata(ctx, m)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
				result.Model = meta.Model
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AnnotatorService) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.AnnotationOutput, error) {
	req := domain.AnnotateRequest{
		ScreenshotPath: input.ScreenshotPath,
		CapturedAt:     input.CapturedAt,
		Hints:          input.Hints,
	}
	if err := req.Validate(); err != nil {
		return dto.AnnotationOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	manifest, err := s.selectManifest(ctx, strings.TrimSpace(input.Annotator))
	if err != nil {
		return dto.AnnotationOutput{}, err
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return dto.AnnotationOutput{}, err
	}
	if s.host == nil {
		return dto.AnnotationOutput{}, apperrors.ErrNoAnnotator
	}
	annotation, err := s.host.Annotate(ctx, manifest, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dto.AnnotationOutput{}, fmt.Errorf("%w: %s", domain.ErrAnnotatorTimeout, manifest.Name)
		}
		return dto.AnnotationOutput{}, err
	}
	return dto.AnnotationOutput{
		Annotator:   manifest.Name,
		WindowTitle: annotation.WindowTitle,
		Category:    annotation.Category,
		OCRText:     annotation.OCRText,
		Model:       annotation.Model,
	}, nil
}

func (s *AnnotatorService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate annotator name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *AnnotatorService) selectManifest(ctx context.Context, name string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	if name == "" {
		for _, m := range manifests {
			if m.Enabled && m.HasCapability(domain.CapabilityAnnotate) {
				return m, nil
			}
		}
		return domain.Manifest{}, apperrors.ErrNoAnnotator
	}
	for _, m := range manifests {
		if m.Name != name {
			continue
		}
		if !m.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrAnnotatorDisabled, name)
		}
		if !m.HasCapability(domain.CapabilityAnnotate) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, domain.CapabilityAnnotate)
		}
		return m, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: annotator %q", apperrors.ErrNotFound, name)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read annotator binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
