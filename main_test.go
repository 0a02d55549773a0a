package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aschmelyun/vnote/internal/notes"
	"github.com/aschmelyun/vnote/internal/vault"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.yaml"), "--vault", dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readDoc(t *testing.T, p string) *notes.Document {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := notes.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return doc
}

func TestNew_WithMedia(t *testing.T) {
	dir := t.TempDir()
	clip := writeFile(t, dir, "talks/clip.mp4", "media")

	out, err := run(t, dir, "new", filepath.Join(dir, "talks"), "--media", clip)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "Created talks/Untitled.vnote") {
		t.Fatalf("expected created line; got %q", out)
	}
	if strings.Contains(out, "not found") {
		t.Fatalf("expected no media warning; got %q", out)
	}
	if got := readDoc(t, filepath.Join(dir, "talks", "Untitled.vnote")).MediaPath; got != "talks/clip.mp4" {
		t.Fatalf("expected media path talks/clip.mp4; got %q", got)
	}
}

func TestNew_MissingMediaWarns(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "new", "--media", filepath.Join(dir, "gone.mp4"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "Media file gone.mp4 not found") {
		t.Fatalf("expected not found warning; got %q", out)
	}
}

func TestNew_PicksNextUntitled(t *testing.T) {
	dir := t.TempDir()
	for range 2 {
		if _, err := run(t, dir, "new"); err != nil {
			t.Fatalf("new: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Untitled 1.vnote")); err != nil {
		t.Fatalf("expected second untitled document; got %v", err)
	}
}

func TestLs(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "No documents") {
		t.Fatalf("expected empty listing; got %q", out)
	}

	writeFile(t, dir, "a.vnote", `{"mediaPath":"a.mp4","notes":[{"time":1,"note":"x"},{"time":2,"note":"y"}]}`)
	writeFile(t, dir, "sub/b.vnote", `{"mediaPath":"","notes":[]}`)
	writeFile(t, dir, "broken.vnote", `{"notes":[{"time":-1}]}`)
	writeFile(t, dir, "a.mp4", "media")

	out, err = run(t, dir, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	for _, want := range []string{"a.vnote", "2 notes", "a.mp4", "sub/b.vnote", "0 notes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in listing; got %q", want, out)
		}
	}
	if strings.Contains(out, "broken.vnote") {
		t.Fatalf("expected malformed document skipped; got %q", out)
	}
}

func TestExportAndImport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.vnote", `{"mediaPath":"","notes":[{"time":1.5,"note":"intro"},{"time":65,"note":"demo"}]}`)

	out, err := run(t, dir, "export", src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 2 notes to src.vtt") {
		t.Fatalf("expected export line; got %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "src.vtt"))
	if err != nil {
		t.Fatalf("expected src.vtt: %v", err)
	}
	if !strings.Contains(string(data), "00:00:01.500 --> 00:01:05.000") {
		t.Fatalf("expected first cue to end at the next note; got %q", data)
	}

	dst := writeFile(t, dir, "dst.vnote", `{"mediaPath":"","notes":[{"time":30,"note":"mine"}]}`)
	out, err = run(t, dir, "import", filepath.Join(dir, "src.vtt"), dst)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 2 notes into dst.vnote") {
		t.Fatalf("expected import line; got %q", out)
	}

	doc := readDoc(t, dst)
	var texts []string
	for _, n := range doc.Notes {
		texts = append(texts, n.Text)
	}
	if got := strings.Join(texts, ","); got != "intro,mine,demo" {
		t.Fatalf("expected merged notes in time order; got %s", got)
	}
}

func TestImport_NotVTT(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.vtt", "not subtitles")
	doc := writeFile(t, dir, "doc.vnote", `{"mediaPath":"","notes":[]}`)

	if _, err := run(t, dir, "import", bad, doc); err == nil {
		t.Fatalf("expected an error for a file without a WEBVTT header")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, VERSION) || !strings.Contains(out, "Requirements:") {
		t.Fatalf("expected version and requirements; got %q", out)
	}
}

func TestRoot_NeedsTerminal(t *testing.T) {
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, err := run(t, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected terminal error; got %v", err)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "player:\n  rate: 9\n")

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "--vault", dir, "ls"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected validation error for rate 9")
	}
}

func TestDocPath(t *testing.T) {
	dir := t.TempDir()
	store, err := vault.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := docPath(store, filepath.Join(dir, "talks", "keynote"))
	if err != nil || got != "talks/keynote.vnote" {
		t.Fatalf("expected talks/keynote.vnote; got %q, %v", got, err)
	}
	got, err = docPath(store, filepath.Join(dir, "notes.vnote"))
	if err != nil || got != "notes.vnote" {
		t.Fatalf("expected notes.vnote; got %q, %v", got, err)
	}
	if _, err := docPath(store, filepath.Dir(dir)); !errors.Is(err, vault.ErrOutsideVault) {
		t.Fatalf("expected ErrOutsideVault; got %v", err)
	}
}

func TestStyleOutput(t *testing.T) {
	out := styleOutput([]string{"one", "two"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines; got %q", out)
	}
	if !strings.Contains(lines[0], "├") || !strings.Contains(lines[1], "└") {
		t.Fatalf("expected tree bullets; got %q", out)
	}
}
