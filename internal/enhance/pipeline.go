package enhance

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
)

const (
	defaultTimeout     = 2 * time.Minute
	stderrCaptureLimit = 2048
)

// Pipeline runs the image enhancement steps: background removal via rembg,
// then optional upscaling via realesrgan. Steps run one at a time under a
// shared deadline.
type Pipeline struct {
	cfg config.EnhanceConfig
	log *logger.Logger
}

// NewPipeline builds the enhancement pipeline. The realesrgan binary is
// optional; upscaling is skipped when it is unconfigured.
func NewPipeline(cfg config.EnhanceConfig, log *logger.Logger) (*Pipeline, error) {
	if strings.TrimSpace(cfg.RembgBin) == "" {
		return nil, fmt.Errorf("rembg binary path required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if strings.TrimSpace(cfg.WorkDir) == "" {
		cfg.WorkDir = os.TempDir()
	}
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &Pipeline{cfg: cfg, log: log}, nil
}

// EnhanceImage runs the pipeline over the raw image bytes and returns the
// result as base64-encoded PNG.
func (p *Pipeline) EnhanceImage(ctx context.Context, image []byte) (string, error) {
	if p == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "image enhancement not configured")
	}
	if len(image) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image data is required")
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	workDir, err := os.MkdirTemp(p.cfg.WorkDir, "enhance-"+uuid.NewString())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pipeline work dir")
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	input := filepath.Join(workDir, "input.png")
	cutout := filepath.Join(workDir, "cutout.png")
	upscaled := filepath.Join(workDir, "upscaled.png")

	if err := os.WriteFile(input, image, 0o600); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write pipeline input")
	}

	if err := p.runStep(ctx, "rembg", p.cfg.RembgBin, "i", input, cutout); err != nil {
		return "", err
	}

	result := cutout
	if strings.TrimSpace(p.cfg.RealesrganBin) != "" {
		if err := p.runStep(ctx, "realesrgan", p.cfg.RealesrganBin, "-i", cutout, "-o", upscaled); err != nil {
			return "", err
		}
		result = upscaled
	}

	output, err := os.ReadFile(result)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read pipeline output")
	}
	if len(output) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "pipeline produced an empty image")
	}

	return base64.StdEncoding.EncodeToString(output), nil
}

func (p *Pipeline) runStep(ctx context.Context, step, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if p.log != nil {
			p.log.Error(p.log.WithField(ctx, "step", step), "enhancement step failed",
				fmt.Errorf("%w: %s", err, truncate(stderr.String(), stderrCaptureLimit)))
		}
		if ctx.Err() != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), fmt.Sprintf("%s step timed out", step))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s step failed", step))
	}
	return nil
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}
