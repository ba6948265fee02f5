package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// fakeRemote is an in-memory RemoteStore.
type fakeRemote struct {
	mu       sync.Mutex
	files    map[string][]byte
	listErr  error
	failures map[string]error // per-file download failures
}

func newFakeRemote(files map[string][]byte) *fakeRemote {
	if files == nil {
		files = make(map[string][]byte)
	}
	return &fakeRemote{files: files, failures: make(map[string]error)}
}

func (r *fakeRemote) List(_ context.Context) ([]domain.RemoteFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.RemoteFile, 0, len(r.files))
	for name, data := range r.files {
		out = append(out, domain.RemoteFile{Name: name, Size: int64(len(data))})
	}
	return out, nil
}

func (r *fakeRemote) Download(_ context.Context, name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failures[name]; ok {
		return nil, err
	}
	data, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", name)
	}
	return data, nil
}

func (r *fakeRemote) Upload(_ context.Context, name string, content []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[name] = content
	return nil
}

func (r *fakeRemote) Delete(_ context.Context, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		delete(r.files, name)
	}
	return nil
}

func (r *fakeRemote) PublicURL(name string) string {
	return "https://remote.test/" + name
}

// fakeRebuilder records rebuild invocations.
type fakeRebuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRebuilder) Rebuild(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRebuilder) Busy() bool { return false }

func (f *fakeRebuilder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memIndexStore is an in-memory IndexStore holding one snapshot.
type memIndexStore struct {
	mu       sync.Mutex
	manifest domain.IndexManifest
	chunks   []domain.EmbeddedChunk
	present  bool
	saveErr  error
	loadErr  error
}

func (s *memIndexStore) Save(_ context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.manifest = manifest
	s.chunks = chunks
	s.present = true
	return nil
}

func (s *memIndexStore) Load(_ context.Context) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if !s.present {
		return nil, domain.ErrIndexNotFound
	}
	return &memIndex{manifest: s.manifest, chunks: s.chunks}, nil
}

func (s *memIndexStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.present = false
	s.chunks = nil
	return nil
}

func (s *memIndexStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present
}

// memIndex returns its chunks in stored order with descending scores,
// honouring k. Similarity ordering is the flatfile package's concern;
// service tests only need deterministic retrieval.
type memIndex struct {
	manifest domain.IndexManifest
	chunks   []domain.EmbeddedChunk
}

func (ix *memIndex) Manifest() domain.IndexManifest { return ix.manifest }

func (ix *memIndex) Len() int { return len(ix.chunks) }

func (ix *memIndex) Search(query []float32, k int) ([]domain.SearchResult, error) {
	if len(ix.chunks) > 0 && len(query) != len(ix.chunks[0].Vector) {
		return nil, domain.ErrEmbeddingMismatch
	}
	if k > len(ix.chunks) {
		k = len(ix.chunks)
	}
	results := make([]domain.SearchResult, 0, k)
	for i := 0; i < k; i++ {
		results = append(results, domain.SearchResult{
			Chunk: ix.chunks[i].Chunk,
			Score: 1 - float64(i)*0.1,
		})
	}
	return results, nil
}

// fakeEmbedder produces fixed-dimension vectors derived from text length.
type fakeEmbedder struct {
	dims     int
	provider string
	model    string
	err      error
	batches  int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 3, provider: "ollama", model: "nomic-embed-text"}
}

func (e *fakeEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	v[0] = float32(len(text) % 7)
	v[1] = 1
	return v
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.batches++
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, e.vector(t))
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int              { return e.dims }
func (e *fakeEmbedder) Provider() string             { return e.provider }
func (e *fakeEmbedder) ModelName() string            { return e.model }
func (e *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (e *fakeEmbedder) Close() error                 { return nil }

// fakeLLM returns a canned answer and records the last prompt.
type fakeLLM struct {
	answer     string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (l *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	l.lastPrompt = prompt
	l.lastOpts = opts
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

func (l *fakeLLM) ModelName() string            { return "phi3" }
func (l *fakeLLM) Ping(_ context.Context) error { return nil }
func (l *fakeLLM) Close() error                 { return nil }

// fakeSyncer returns a canned report and counts invocations.
type fakeSyncer struct {
	mu     sync.Mutex
	calls  int
	report *domain.SyncReport
	err    error
}

func (f *fakeSyncer) Sync(_ context.Context) (*domain.SyncReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &domain.SyncReport{}, nil
}

func (f *fakeSyncer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memSchedulerStore is an in-memory SchedulerStore.
type memSchedulerStore struct {
	mu      sync.Mutex
	tasks   map[string]domain.ScheduledTask
	results []domain.TaskResult
}

func newMemSchedulerStore() *memSchedulerStore {
	return &memSchedulerStore{tasks: make(map[string]domain.ScheduledTask)}
}

func (s *memSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *memSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScheduledTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, task)
	}
	return out, nil
}

func (s *memSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *memSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *memSchedulerStore) resultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// memCatalog records sync runs only; the rest is unused by services.
type memCatalog struct {
	mu   sync.Mutex
	runs []domain.SyncReport
}

func (c *memCatalog) RecordSyncRun(_ context.Context, report *domain.SyncReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, *report)
	return nil
}

func (c *memCatalog) RecentSyncRuns(_ context.Context, _ int) ([]domain.SyncRun, error) {
	return nil, nil
}

func (c *memCatalog) RecordUpload(_ context.Context, _ domain.UploadRecord) error { return nil }
func (c *memCatalog) DeleteUpload(_ context.Context, _ string) error              { return nil }
func (c *memCatalog) ListUploads(_ context.Context) ([]domain.UploadRecord, error) {
	return nil, nil
}

// chunkTexts extracts the stored chunk texts for assertions.
func chunkTexts(chunks []domain.EmbeddedChunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Text)
	}
	return out
}

func containsAll(haystack string, needles ...string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}
