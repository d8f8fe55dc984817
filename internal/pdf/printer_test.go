package pdf

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"resumeSync/internal/page"
	"resumeSync/internal/resume"
)

type memorySink struct {
	saved map[string][]byte
	err   error
}

func (s *memorySink) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[name] = data
	return "mem://" + name, nil
}

func TestDocumentPrinter_PrintsCurrentPreviews(t *testing.T) {
	doc := page.NewDocument()
	doc.SetPreview("preview-name", resume.Plain("Ada Lovelace"))
	doc.SetStylesheet("assets/theme-classic.css")

	var gotHTML string
	sink := &memorySink{}
	p := NewDocumentPrinter(doc, sink,
		WithBaseURL("http://localhost:8080/"),
		WithGenerator(func(_ context.Context, html string) ([]byte, error) {
			gotHTML = html
			return []byte("%PDF-1.7"), nil
		}),
	)

	if err := p.Print(context.Background()); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(gotHTML, "Ada Lovelace") {
		t.Fatal("print html missing preview content")
	}
	if !strings.Contains(gotHTML, "assets/theme-classic.css") {
		t.Fatal("print html missing stylesheet")
	}
	if len(sink.saved) != 1 {
		t.Fatalf("saved %d files, want 1", len(sink.saved))
	}
	if last := doc.View().LastPrint; !strings.HasPrefix(last, "mem://resume-") {
		t.Fatalf("last print = %q", last)
	}
}

func TestDocumentPrinter_GeneratorFailure(t *testing.T) {
	doc := page.NewDocument()
	sink := &memorySink{}
	boom := errors.New("chromium missing")
	p := NewDocumentPrinter(doc, sink, WithGenerator(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}))

	if err := p.Print(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(sink.saved) != 0 || doc.View().LastPrint != "" {
		t.Fatal("failed print must not be recorded")
	}
}

func TestFileSink_WritesIntoDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prints")
	location, err := FileSink{Dir: dir}.Save(context.Background(), "../escape.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(location) != dir {
		t.Fatalf("location %q escaped %q", location, dir)
	}
	data, err := os.ReadFile(location)
	if err != nil || string(data) != "pdf" {
		t.Fatalf("read back = %q, %v", data, err)
	}
}

type fakeUploader struct {
	objects map[string][]byte
}

func (f *fakeUploader) UploadFile(_ context.Context, name string, r io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.objects[name] = data
	return &minio.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (f *fakeUploader) GeneratePresignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.local/" + key + "?ttl=" + ttl.String(), nil
}

func TestObjectSink_UploadsAndPresigns(t *testing.T) {
	up := &fakeUploader{objects: make(map[string][]byte)}
	sink := NewObjectSink(up, "prints/", time.Minute)

	link, err := sink.Save(context.Background(), "a.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if string(up.objects["prints/a.pdf"]) != "pdf" {
		t.Fatal("object not uploaded under prefix")
	}
	if link != "https://objects.local/prints/a.pdf?ttl=1m0s" {
		t.Fatalf("link = %q", link)
	}
}
