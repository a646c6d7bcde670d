package enhance

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

// writeStubBinary writes a shell script standing in for an external tool. The
// script copies its input argument to its output argument.
func writeStubBinary(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write stub binary: %v", err)
	}
	return path
}

func TestEnhanceImageRembgOnly(t *testing.T) {
	dir := t.TempDir()
	rembg := writeStubBinary(t, dir, "rembg", `cp "$2" "$3"`)

	pipeline, err := NewPipeline(config.EnhanceConfig{
		RembgBin: rembg,
		WorkDir:  dir,
		Timeout:  10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	payload := []byte("fake-png-bytes")
	encoded, err := pipeline.EnhanceImage(context.Background(), payload)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("expected pass-through bytes, got %q", decoded)
	}
}

func TestEnhanceImageWithUpscaler(t *testing.T) {
	dir := t.TempDir()
	rembg := writeStubBinary(t, dir, "rembg", `cp "$2" "$3"`)
	upscaler := writeStubBinary(t, dir, "realesrgan", `cp "$2" "$4"; echo -n "-up" >> "$4"`)

	pipeline, err := NewPipeline(config.EnhanceConfig{
		RembgBin:      rembg,
		RealesrganBin: upscaler,
		WorkDir:       dir,
		Timeout:       10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	encoded, err := pipeline.EnhanceImage(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	decoded, _ := base64.StdEncoding.DecodeString(encoded)
	if string(decoded) != "img-up" {
		t.Fatalf("expected upscaled bytes, got %q", decoded)
	}
}

func TestEnhanceImageStepFailure(t *testing.T) {
	dir := t.TempDir()
	rembg := writeStubBinary(t, dir, "rembg", `echo "model missing" >&2; exit 1`)

	pipeline, err := NewPipeline(config.EnhanceConfig{
		RembgBin: rembg,
		WorkDir:  dir,
		Timeout:  10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	_, err = pipeline.EnhanceImage(context.Background(), []byte("img"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestEnhanceImageRejectsEmptyInput(t *testing.T) {
	dir := t.TempDir()
	rembg := writeStubBinary(t, dir, "rembg", `cp "$2" "$3"`)

	pipeline, err := NewPipeline(config.EnhanceConfig{RembgBin: rembg, WorkDir: dir}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	_, err = pipeline.EnhanceImage(context.Background(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewPipelineRequiresRembg(t *testing.T) {
	if _, err := NewPipeline(config.EnhanceConfig{}, nil); err == nil {
		t.Fatal("expected error for missing rembg binary")
	}
}
