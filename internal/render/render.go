// Package render invokes the external Graphviz binary to turn DOT text into
// an image artifact.
package render

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	formatFlagPrefix            = "-T"
	outputFlagName              = "-o"
	errorMissingExtensionFormat = "output path %q has no extension to derive a render format from"
	errorRendererFailedFormat   = "renderer %s failed: %v, output: %s"
)

// Renderer runs a Graphviz-compatible binary. The renderer writes the
// artifact itself, so either the subprocess succeeds and the file exists or
// it fails and nothing of ours is left behind.
type Renderer struct {
	BinaryName string
}

// NewRenderer constructs a Renderer for the given binary name.
func NewRenderer(binaryName string) *Renderer {
	return &Renderer{BinaryName: binaryName}
}

// OutputFormat derives the render format from the output path extension. An
// extension-less path is a fatal error, detected before the renderer is ever
// invoked.
func (renderer *Renderer) OutputFormat(outputPath string) (string, error) {
	extension := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	if extension == "" {
		return "", fmt.Errorf(errorMissingExtensionFormat, outputPath)
	}
	return extension, nil
}

// Render feeds the DOT text to the renderer on stdin and has it write the
// artifact at outputPath. A non-zero exit status is fatal; the subprocess
// output is folded into the returned error for diagnostics.
func (renderer *Renderer) Render(ctx context.Context, dotText string, outputPath string) error {
	format, formatError := renderer.OutputFormat(outputPath)
	if formatError != nil {
		return formatError
	}

	// #nosec G204
	command := exec.CommandContext(ctx, renderer.BinaryName, formatFlagPrefix+format, outputFlagName, outputPath)
	command.Stdin = strings.NewReader(dotText)
	outputBytes, runError := command.CombinedOutput()
	if runError != nil {
		return fmt.Errorf(errorRendererFailedFormat, renderer.BinaryName, runError, strings.TrimSpace(string(outputBytes)))
	}
	return nil
}
