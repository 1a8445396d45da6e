package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/resume-studio/internal/rasterize"
	internalschemas "github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	files "github.com/jonathan/resume-studio/schemas"
)

// readResume validates path against the canonical resume schema and decodes it.
func readResume(path string) (*types.CanonicalResume, error) {
	if err := internalschemas.ValidateFile(files.CanonicalResume, path); err != nil {
		return nil, fmt.Errorf("resume file %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	var resume types.CanonicalResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	return &resume, nil
}

// readPolished validates path against the polished resume schema and decodes it.
func readPolished(path string) (*types.PolishedResume, error) {
	if err := internalschemas.ValidateFile(files.PolishedResume, path); err != nil {
		return nil, fmt.Errorf("polished file %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read polished file: %w", err)
	}
	var polished types.PolishedResume
	if err := json.Unmarshal(data, &polished); err != nil {
		return nil, fmt.Errorf("failed to unmarshal polished JSON: %w", err)
	}
	return &polished, nil
}

// readDocument loads an uploaded CV or a pasted-text file into a rasterizer input.
func readDocument(filePath, textPath string) (rasterize.Input, error) {
	switch {
	case filePath != "" && textPath != "":
		return rasterize.Input{}, fmt.Errorf("--file and --text-file are mutually exclusive; provide only one")
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return rasterize.Input{}, fmt.Errorf("failed to read document: %w", err)
		}
		return rasterize.Input{
			Data:        data,
			FileName:    filepath.Base(filePath),
			ContentType: mimetype.Detect(data).String(),
		}, nil
	case textPath != "":
		data, err := os.ReadFile(textPath)
		if err != nil {
			return rasterize.Input{}, fmt.Errorf("failed to read text file: %w", err)
		}
		return rasterize.Input{Text: string(data)}, nil
	default:
		return rasterize.Input{}, rasterize.ErrNoInput
	}
}

// parseSkills splits a comma-separated list, dropping blanks.
func parseSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
