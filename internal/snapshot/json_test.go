package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSnapshotFile(t *testing.T, directory string, name string, content string) string {
	t.Helper()
	filePath := filepath.Join(directory, name)
	if writeError := os.WriteFile(filePath, []byte(content), 0o600); writeError != nil {
		t.Fatalf("write %s: %v", filePath, writeError)
	}
	return filePath
}

func TestLoadFilesMergesListingsInArgumentOrder(t *testing.T) {
	directory := t.TempDir()
	firstFile := writeSnapshotFile(t, directory, "first.json",
		`[{"id":"a.c:a","callees":["b.c:b"]},{"id":"b.c:b","callers":["a.c:a"]}]`)
	secondFile := writeSnapshotFile(t, directory, "second.json",
		`[{"id":"b.c:b","callees":["c.c:c"]},{"id":"c.c:c","callers":["b.c:b"]}]`)

	listing, loadError := LoadFiles(context.Background(), []string{firstFile, secondFile})
	if loadError != nil {
		t.Fatalf("load snapshot files: %v", loadError)
	}

	expected := Snapshot{
		{ID: "a.c:a", Callees: []string{"b.c:b"}},
		{ID: "b.c:b", Callers: []string{"a.c:a"}, Callees: []string{"c.c:c"}},
		{ID: "c.c:c", Callers: []string{"b.c:b"}},
	}
	if !reflect.DeepEqual(listing, expected) {
		t.Errorf("unexpected merged listing: %+v", listing)
	}
}

func TestLoadFilesRejectsMalformedInput(t *testing.T) {
	directory := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "not_json", content: "digraph {}"},
		{name: "entry_without_id", content: `[{"callees":["a.c:a"]}]`},
		{name: "object_instead_of_array", content: `{"id":"a.c:a"}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			filePath := writeSnapshotFile(t, directory, testCase.name+".json", testCase.content)
			if _, loadError := LoadFiles(context.Background(), []string{filePath}); loadError == nil {
				t.Errorf("expected decode error for %s", testCase.name)
			}
		})
	}
}

func TestLoadFilesReportsMissingFile(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "absent.json")
	if _, loadError := LoadFiles(context.Background(), []string{missingPath}); loadError == nil {
		t.Errorf("expected error for missing snapshot file")
	}
}

func TestMergeFoldsDuplicateEntries(t *testing.T) {
	first := Snapshot{{ID: "x", Callees: []string{"y"}}}
	second := Snapshot{{ID: "x", Callees: []string{"y", "z"}}, {ID: "y"}, {ID: "z"}}

	merged := Merge(first, second)

	expected := Snapshot{
		{ID: "x", Callees: []string{"y", "z"}},
		{ID: "y"},
		{ID: "z"},
	}
	if !reflect.DeepEqual(merged, expected) {
		t.Errorf("unexpected merge result: %+v", merged)
	}
}
