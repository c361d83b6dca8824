package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/llm"
	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/prompt"
)

const (
	feedbackMaxTokens = 400
	feedbackBestOf    = 3
)

// interviewStop keeps the model from speaking for both sides of the
// conversation.
var interviewStop = []string{"Candidate:", "Interviewer:"}

const feedbackPrompt = `(End of interview)

Please provide feedback on the candidate's performance in the interview. Even if their resume is great
it's important to focus on their interview performance. If the chat is short and you don't have enough
information to provide feedback, please provide feedback on the resume instead. And explain that you
would like to see more of the candidate in the interview.

Please include the following information:
* Candidates strengths
* Candidates weaknesses
* Overall conclusion
* Hire / No-Hire recommendation

Your feedback should be in the following format:

Strengths:

<list strengths here>

Weaknesses:

<list weaknesses here>

Conclusion:

<conclusion here>

Recommendation: <Hire / No-Hire>

YOUR FEEDBACK:`

// Interviewer produces the next interviewer reply or the closing
// feedback for a session. It is stateless: transcript bookkeeping
// belongs to the Store.
type Interviewer struct {
	client llm.Completer
	logger *zerolog.Logger
}

func NewInterviewer(client llm.Completer, logger *zerolog.Logger) *Interviewer {
	return &Interviewer{
		client: client,
		logger: logger,
	}
}

// Next generates the interviewer's reply to the transcript as it
// stands. The session's question template is rendered with the resume
// and transcript, then the model completes the next interviewer line.
func (iv *Interviewer) Next(ctx context.Context, session models.Session) (string, error) {
	promptText := iv.renderQuestion(session) + "\nInterviewer:"

	response, err := iv.client.CompleteWithRetry(ctx, llm.CompletionRequest{
		Prompt:      promptText,
		Model:       session.Params.Model,
		MaxTokens:   session.Params.MaxTokens,
		Temperature: session.Params.Temperature,
		Stop:        interviewStop,
	})
	if err != nil {
		return "", fmt.Errorf("generate interviewer reply: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	iv.logger.Debug().
		Str("sessionID", session.ID).
		Int("turns", len(session.Transcript)).
		Msg("interviewer reply generated")
	return reply, nil
}

// Feedback writes up hiring feedback for the interview so far. It uses
// a larger completion budget and samples several candidates server-side.
func (iv *Interviewer) Feedback(ctx context.Context, session models.Session) (string, error) {
	promptText := iv.renderQuestion(session) + "\n\n" + feedbackPrompt

	response, err := iv.client.CompleteWithRetry(ctx, llm.CompletionRequest{
		Prompt:      promptText,
		Model:       session.Params.Model,
		MaxTokens:   feedbackMaxTokens,
		Temperature: session.Params.Temperature,
		Stop:        interviewStop,
		BestOf:      feedbackBestOf,
	})
	if err != nil {
		return "", fmt.Errorf("generate feedback: %w", err)
	}

	return strings.TrimSpace(response.Content), nil
}

func (iv *Interviewer) renderQuestion(session models.Session) string {
	return prompt.Render(session.Question, map[string]string{
		"resume":     session.Resume,
		"transcript": FormatTranscript(session.Transcript),
	})
}

// FormatTranscript renders turns as "Role: text" lines.
func FormatTranscript(turns []models.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		var speaker string
		switch turn.Role {
		case models.RoleCandidate:
			speaker = "Candidate"
		default:
			speaker = "Interviewer"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, turn.Text))
	}
	return strings.Join(lines, "\n")
}
