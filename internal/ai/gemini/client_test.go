package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCall struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	queue   []fakeCall
	prompts []string
	models  []string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.models = append(f.models, model)
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}

	call := f.queue[0]
	f.queue = f.queue[1:]
	return call.resp, call.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(models *fakeModels, maxRetries int) *Generator {
	return &Generator{
		models:     models,
		model:      "gemini-pro",
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLength,
		logger:     zap.NewNop(),
	}
}

func withoutBackoff(t *testing.T) {
	t.Helper()
	original := retryBaseDelay
	retryBaseDelay = 0
	t.Cleanup(func() { retryBaseDelay = original })
}

func TestGenerateContent(t *testing.T) {
	models := &fakeModels{queue: []fakeCall{{resp: textResponse("hello")}}}
	g := newTestGenerator(models, 1)

	output, err := g.GenerateContent(context.Background(), "  prompt  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "hello" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.prompts) != 1 || models.prompts[0] != "prompt" {
		t.Fatalf("unexpected prompts sent: %+v", models.prompts)
	}

	if models.models[0] != "gemini-pro" {
		t.Fatalf("unexpected model: %q", models.models[0])
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	g := newTestGenerator(&fakeModels{}, 1)

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGenerateContentRetriesOnTemporaryError(t *testing.T) {
	withoutBackoff(t)

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{queue: []fakeCall{
		{err: tempErr},
		{resp: textResponse("retry ok")},
	}}

	g := newTestGenerator(models, 2)

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.models) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.models))
	}
}

func TestGenerateContentStopsAfterRetriesExhausted(t *testing.T) {
	withoutBackoff(t)

	tempErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	models := &fakeModels{queue: []fakeCall{
		{err: tempErr},
		{err: tempErr},
	}}

	g := newTestGenerator(models, 2)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(models.models) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.models))
	}
}

func TestGenerateContentDoesNotRetryPermanentErrors(t *testing.T) {
	withoutBackoff(t)

	permErr := genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}
	models := &fakeModels{queue: []fakeCall{{err: permErr}}}

	g := newTestGenerator(models, 3)

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for permanent failure")
	}

	if len(models.models) != 1 {
		t.Fatalf("expected single call, got %d", len(models.models))
	}
}

func TestGenerateContentEmptyResponse(t *testing.T) {
	models := &fakeModels{queue: []fakeCall{{resp: &genai.GenerateContentResponse{}}}}
	g := newTestGenerator(models, 1)

	_, err := g.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerateContentJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: " first "},
				{Text: ""},
				{Text: "second"},
			}},
		}},
	}

	models := &fakeModels{queue: []fakeCall{{resp: resp}}}
	g := newTestGenerator(models, 1)

	output, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "first\nsecond" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestGenerateContentHonorsContextDuringBackoff(t *testing.T) {
	original := retryBaseDelay
	retryBaseDelay = time.Minute
	t.Cleanup(func() { retryBaseDelay = original })

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{queue: []fakeCall{{err: tempErr}, {resp: textResponse("never")}}}

	g := newTestGenerator(models, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.GenerateContent(ctx, "prompt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
