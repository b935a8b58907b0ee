package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

type stubGemini struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (s *stubGemini) GenerateJSON(ctx context.Context, prompt string, _ float32) (string, error) {
	return s.GenerateJSONWithRetry(ctx, prompt, 0, 1)
}

func (s *stubGemini) GenerateJSONWithRetry(_ context.Context, prompt string, _ float32, _ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "[]", nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func TestGeminiRecognizerParsesEntities(t *testing.T) {
	stub := &stubGemini{responses: []string{"```json\n[{\"text\": \" Jane Doe \", \"label\": \"person\"}, {\"text\": \"Acme\", \"label\": \"ORG\"}]\n```"}}
	recognizer := NewGeminiRecognizer(stub, 1, zap.NewNop())

	entities, err := recognizer.Recognize(context.Background(), "Senior engineer Jane Doe worked at Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0] != (Entity{Text: "Jane Doe", Label: LabelPerson}) {
		t.Fatalf("unexpected first entity: %+v", entities[0])
	}
	if len(stub.prompts) != 1 || !strings.Contains(stub.prompts[0], "Senior engineer Jane Doe worked at Acme") {
		t.Fatalf("expected prompt to carry the text, got %v", stub.prompts)
	}
}

func TestGeminiRecognizerStopsAtFirstPersonChunk(t *testing.T) {
	stub := &stubGemini{responses: []string{
		`[{"text": "Acme", "label": "ORG"}]`,
		`{"entities": [{"text": "John Smith", "label": "PERSON"}]}`,
		`[{"text": "Never Asked", "label": "PERSON"}]`,
	}}
	r := NewGeminiRecognizer(stub, 1, zap.NewNop()).(*geminiRecognizer)
	r.chunkSize = 10

	text := "first part\n\nJohn Smith\n\nthird one"
	entities, err := r.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.prompts) != 2 {
		t.Fatalf("expected 2 chunks to be sent, got %d", len(stub.prompts))
	}
	if len(entities) != 2 || entities[1].Text != "John Smith" {
		t.Fatalf("unexpected entities: %+v", entities)
	}
}

func TestGeminiRecognizerErrors(t *testing.T) {
	t.Run("generation error", func(t *testing.T) {
		stub := &stubGemini{err: errors.New("quota")}
		if _, err := NewGeminiRecognizer(stub, 1, zap.NewNop()).Recognize(context.Background(), "text"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		stub := &stubGemini{responses: []string{"not json at all"}}
		if _, err := NewGeminiRecognizer(stub, 1, zap.NewNop()).Recognize(context.Background(), "text"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestSharedRecognizerBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	shared := NewSharedRecognizer(func() (EntityRecognizer, error) {
		builds.Add(1)
		return &stubRecognizer{entities: []Entity{{Text: "Ann Lee", Label: LabelPerson}}}, nil
	})

	if builds.Load() != 0 {
		t.Fatal("expected lazy construction")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := shared.Recognize(context.Background(), "text"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("expected a single build, got %d", builds.Load())
	}
}

func TestSharedRecognizerKeepsConstructionError(t *testing.T) {
	var builds atomic.Int32
	shared := NewSharedRecognizer(func() (EntityRecognizer, error) {
		builds.Add(1)
		return nil, errors.New("no api key")
	})

	for i := 0; i < 2; i++ {
		if _, err := shared.Recognize(context.Background(), "text"); err == nil {
			t.Fatal("expected construction error")
		}
	}
	if builds.Load() != 1 {
		t.Fatalf("expected a single build attempt, got %d", builds.Load())
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "```json\n[1, 2]\n```", want: "[1, 2]"},
		{input: "Here you go: {\"entities\": []} thanks", want: "{\"entities\": []}"},
		{input: "[{\"text\": \"a\"}]", want: "[{\"text\": \"a\"}]"},
		{input: "nothing", want: "nothing"},
	}

	for _, tt := range tests {
		if got := extractJSON(tt.input); got != tt.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestChunkText(t *testing.T) {
	t.Parallel()

	chunker := NewTextChunker()

	if got := chunker.ChunkText("  \n\n  ", 10); len(got) != 0 {
		t.Fatalf("expected no chunks, got %q", got)
	}

	got := chunker.ChunkText("aaa\n\nbbb\n\ncccccccccccc", 8)
	want := []string{"aaa\n\nbbb", "cccccccc", "cccc"}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
