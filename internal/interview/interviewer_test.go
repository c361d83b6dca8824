package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/llm"
	"github.com/bfortuner/prompt-playground/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// fakeCompleter records the last request and replies with a canned
// completion.
type fakeCompleter struct {
	lastRequest llm.CompletionRequest
	content     string
	err         error
}

func (f *fakeCompleter) Complete(_ context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastRequest = request
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

func (f *fakeCompleter) CompleteWithRetry(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return f.Complete(ctx, request)
}

func testSession() models.Session {
	return models.Session{
		ID:       "abc123",
		Resume:   "10 years of distributed systems",
		Question: "RESUME:\n{{resume}}\n\nBEGIN!\n\n{{transcript}}",
		Params: models.ModelParams{
			Model:       "gpt-3.5-turbo-instruct",
			MaxTokens:   64,
			Temperature: 0.7,
		},
		Transcript: []models.Turn{
			{Role: models.RoleInterviewer, Text: "Hi, how are you doing today?"},
			{Role: models.RoleCandidate, Text: "Doing well, thanks!"},
		},
	}
}

func TestNext_BuildsPromptFromSession(t *testing.T) {
	fake := &fakeCompleter{content: "  Great! Tell me about a system you've built.  "}
	iv := NewInterviewer(fake, newTestLogger())

	reply, err := iv.Next(context.Background(), testSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply != "Great! Tell me about a system you've built." {
		t.Errorf("reply = %q", reply)
	}

	promptText := fake.lastRequest.Prompt
	if !strings.Contains(promptText, "10 years of distributed systems") {
		t.Error("prompt missing resume")
	}
	if !strings.Contains(promptText, "Interviewer: Hi, how are you doing today?") {
		t.Error("prompt missing interviewer turn")
	}
	if !strings.Contains(promptText, "Candidate: Doing well, thanks!") {
		t.Error("prompt missing candidate turn")
	}
	if !strings.HasSuffix(promptText, "\nInterviewer:") {
		t.Errorf("prompt should end with interviewer cue, got %q", promptText[len(promptText)-20:])
	}

	// The model must not speak for either side
	wantStop := []string{"Candidate:", "Interviewer:"}
	if len(fake.lastRequest.Stop) != 2 ||
		fake.lastRequest.Stop[0] != wantStop[0] ||
		fake.lastRequest.Stop[1] != wantStop[1] {
		t.Errorf("stop = %v, want %v", fake.lastRequest.Stop, wantStop)
	}
}

func TestNext_PropagatesModelError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("model unavailable")}
	iv := NewInterviewer(fake, newTestLogger())

	_, err := iv.Next(context.Background(), testSession())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFeedback_UsesLargerBudget(t *testing.T) {
	fake := &fakeCompleter{content: "Strengths: communicates clearly."}
	iv := NewInterviewer(fake, newTestLogger())

	feedback, err := iv.Feedback(context.Background(), testSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feedback != "Strengths: communicates clearly." {
		t.Errorf("feedback = %q", feedback)
	}

	if fake.lastRequest.MaxTokens != 400 {
		t.Errorf("max tokens = %d, want 400", fake.lastRequest.MaxTokens)
	}
	if fake.lastRequest.BestOf != 3 {
		t.Errorf("best of = %d, want 3", fake.lastRequest.BestOf)
	}
	if !strings.Contains(fake.lastRequest.Prompt, "(End of interview)") {
		t.Error("prompt missing feedback instructions")
	}
	if !strings.Contains(fake.lastRequest.Prompt, "Hire / No-Hire") {
		t.Error("prompt missing recommendation format")
	}
}

func TestFormatTranscript(t *testing.T) {
	turns := []models.Turn{
		{Role: models.RoleInterviewer, Text: "Hello"},
		{Role: models.RoleCandidate, Text: "Hi"},
	}

	got := FormatTranscript(turns)
	want := "Interviewer: Hello\nCandidate: Hi"
	if got != want {
		t.Errorf("FormatTranscript() = %q, want %q", got, want)
	}
}
