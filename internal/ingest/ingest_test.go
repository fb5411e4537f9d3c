package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page1.jpg", []byte("jpg bytes"))
	writeFile(t, root, "page2.PNG", []byte("png bytes"))
	writeFile(t, root, "notes.txt", []byte("not a scan"))
	writeFile(t, root, "nested/page3.webp", []byte("webp bytes"))
	writeFile(t, root, ".hidden/secret.jpg", []byte("hidden"))

	inputs, stats, scanErrs, err := ScanDir(root, true, discard())
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if len(scanErrs) != 0 {
		t.Fatalf("ScanDir() scanErrs = %v", scanErrs)
	}
	if stats.Matched != 3 || stats.Loaded != 3 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 3 matched and loaded", stats)
	}

	bySource := map[string]string{}
	for _, in := range inputs {
		bySource[in.Source] = in.MIMEType
	}
	want := map[string]string{
		"page1.jpg":  "image/jpeg",
		"page2.PNG":  "image/png",
		"page3.webp": "image/webp",
	}
	for source, mime := range want {
		if got, ok := bySource[source]; !ok || got != mime {
			t.Errorf("input %s: mime = %q ok = %v, want %q", source, got, ok, mime)
		}
	}
	if _, ok := bySource["secret.jpg"]; ok {
		t.Errorf("hidden directory must be skipped")
	}
	if _, ok := bySource["notes.txt"]; ok {
		t.Errorf("non-image extension must be skipped")
	}
}

func TestScanDirKeepsHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden/secret.jpg", []byte("hidden"))

	inputs, _, _, err := ScanDir(root, false, discard())
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if len(inputs) != 1 || inputs[0].Source != "secret.jpg" {
		t.Errorf("inputs = %+v, want secret.jpg loaded", inputs)
	}
}

func TestScanDirMissingRoot(t *testing.T) {
	if _, _, _, err := ScanDir("", true, discard()); err == nil {
		t.Errorf("empty root must fail")
	}
	_, stats, scanErrs, err := ScanDir(filepath.Join(t.TempDir(), "absent"), true, discard())
	if err != nil {
		t.Fatalf("ScanDir() error = %v; missing root is reported through scan errors", err)
	}
	if len(scanErrs) != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v scanErrs = %v, want one recorded failure", stats, scanErrs)
	}
}

func TestAllowedExt(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{"JPEG", true},
		{".webp", true},
		{".pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := AllowedExt(tt.ext); got != tt.want {
			t.Errorf("AllowedExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
