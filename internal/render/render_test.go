package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputFormatDerivesFromExtension(t *testing.T) {
	testCases := []struct {
		name         string
		outputPath   string
		expectFormat string
		expectError  bool
	}{
		{name: "svg_extension", outputPath: "callgraph.svg", expectFormat: "svg"},
		{name: "png_in_nested_path", outputPath: "out/dir/paths.png", expectFormat: "png"},
		{name: "missing_extension", outputPath: "callgraph", expectError: true},
		{name: "trailing_dot", outputPath: "callgraph.", expectError: true},
	}

	renderer := NewRenderer("dot")
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			format, formatError := renderer.OutputFormat(testCase.outputPath)
			if testCase.expectError {
				if formatError == nil {
					t.Errorf("expected error for %q", testCase.outputPath)
				}
				return
			}
			if formatError != nil {
				t.Fatalf("unexpected error: %v", formatError)
			}
			if format != testCase.expectFormat {
				t.Errorf("expected format %q, got %q", testCase.expectFormat, format)
			}
		})
	}
}

func TestRenderRejectsExtensionLessPathBeforeInvocation(t *testing.T) {
	renderer := NewRenderer(filepath.Join(t.TempDir(), "never-built"))

	renderError := renderer.Render(context.Background(), "digraph callgraph {\n}\n", "artifact")
	if renderError == nil {
		t.Fatalf("expected error for extension-less output path")
	}
	if strings.Contains(renderError.Error(), "never-built") {
		t.Errorf("renderer must not be invoked for an invalid output path: %v", renderError)
	}
}

func TestRenderSurfacesSubprocessFailureOutput(t *testing.T) {
	scriptPath := filepath.Join(t.TempDir(), "failing-renderer.sh")
	script := "#!/bin/sh\necho 'syntax error near line 1'\nexit 3\n"
	if writeError := os.WriteFile(scriptPath, []byte(script), 0o700); writeError != nil {
		t.Fatalf("write renderer script: %v", writeError)
	}

	renderer := NewRenderer(scriptPath)
	renderError := renderer.Render(context.Background(), "digraph callgraph {\n}\n", filepath.Join(t.TempDir(), "out.svg"))
	if renderError == nil {
		t.Fatalf("expected error for non-zero renderer exit")
	}
	if !strings.Contains(renderError.Error(), "syntax error near line 1") {
		t.Errorf("renderer output missing from error: %v", renderError)
	}
}

func TestRenderWritesArtifactThroughRenderer(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.svg")
	scriptPath := filepath.Join(t.TempDir(), "copying-renderer.sh")
	script := "#!/bin/sh\ncat > \"$3\"\n"
	if writeError := os.WriteFile(scriptPath, []byte(script), 0o700); writeError != nil {
		t.Fatalf("write renderer script: %v", writeError)
	}

	renderer := NewRenderer(scriptPath)
	dotText := "digraph callgraph {\n  \"A\" -> \"B\";\n}\n"
	if renderError := renderer.Render(context.Background(), dotText, outputPath); renderError != nil {
		t.Fatalf("render: %v", renderError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read artifact: %v", readError)
	}
	if string(written) != dotText {
		t.Errorf("artifact does not match stdin payload:\n%s", string(written))
	}
}
