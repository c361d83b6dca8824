package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/api/middleware"
	"github.com/bfortuner/prompt-playground/internal/config"
	"github.com/bfortuner/prompt-playground/internal/interview"
	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/runner"
)

type Handler struct {
	runner      *runner.Runner
	interviewer *interview.Interviewer
	store       *interview.Store
	presets     *config.PresetsConfig
	logger      *zerolog.Logger
}

func NewHandler(
	promptRunner *runner.Runner,
	interviewer *interview.Interviewer,
	store *interview.Store,
	presets *config.PresetsConfig,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		runner:      promptRunner,
		interviewer: interviewer,
		store:       store,
		presets:     presets,
		logger:      logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// CompleteRequest resolves to a single prompt request. Either a preset
// name or an inline template must be given; params fall back to the
// preset's model, then to the configured default.
type CompleteRequest struct {
	Preset   string              `json:"preset,omitempty"`
	Template string              `json:"template,omitempty"`
	Inputs   map[string]string   `json:"inputs,omitempty"`
	Input    string              `json:"input,omitempty"`
	Params   *models.ModelParams `json:"params,omitempty"`
}

type BatchRequest struct {
	Preset   string              `json:"preset,omitempty"`
	Template string              `json:"template,omitempty"`
	Params   *models.ModelParams `json:"params,omitempty"`
	Inputs   []string            `json:"inputs"`
}

type BatchResponse struct {
	Results []models.CompletionResult `json:"results"`
	Summary models.BatchSummary       `json:"summary"`
}

type PresetInfo struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Placeholders []string           `json:"placeholders,omitempty"`
	Model        models.ModelParams `json:"model"`
}

type PresetsResponse struct {
	Presets []PresetInfo `json:"presets"`
}

type CreateSessionRequest struct {
	Resume   string              `json:"resume"`
	Question string              `json:"question,omitempty"`
	Params   *models.ModelParams `json:"params,omitempty"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Reply   string         `json:"reply"`
	Session models.Session `json:"session"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

// ListPresets handler GET /api/v1/presets
func (h *Handler) ListPresets(req *restful.Request, resp *restful.Response) {
	infos := make([]PresetInfo, 0, len(h.presets.Presets.Entries))
	for i := range h.presets.Presets.Entries {
		preset := &h.presets.Presets.Entries[i]
		infos = append(infos, PresetInfo{
			Name:         preset.Name,
			Description:  preset.Description,
			Placeholders: preset.Placeholders(),
			Model:        preset.Model.Params(),
		})
	}

	resp.WriteHeaderAndEntity(http.StatusOK, PresetsResponse{Presets: infos})
}

// Complete handler POST /api/v1/complete
func (h *Handler) Complete(req *restful.Request, resp *restful.Response) {
	var completeRequest CompleteRequest
	if err := req.ReadEntity(&completeRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	promptRequest, err := h.resolve(completeRequest.Preset, completeRequest.Template, completeRequest.Params)
	if err != nil {
		h.writeResolveError(resp, err)
		return
	}
	promptRequest.Inputs = completeRequest.Inputs
	promptRequest.Input = completeRequest.Input

	h.logger.Info().
		Str("preset", completeRequest.Preset).
		Str("model", promptRequest.Params.Model).
		Msg("Start completion")

	ctx := req.Request.Context()
	result := h.runner.Complete(ctx, promptRequest)

	// Single-request failures are surfaced as a provider error, unlike
	// batch items where failures stay per-item
	if result.Failed() {
		h.logger.Error().Str("error", result.Error).Msg("Completion failed")
		middleware.HandleError(resp, errors.New(result.Error), http.StatusBadGateway)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// RunBatch handler POST /api/v1/batch
func (h *Handler) RunBatch(req *restful.Request, resp *restful.Response) {
	var batchRequest BatchRequest
	if err := req.ReadEntity(&batchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	promptRequest, err := h.resolve(batchRequest.Preset, batchRequest.Template, batchRequest.Params)
	if err != nil {
		h.writeResolveError(resp, err)
		return
	}

	h.logger.Info().
		Str("preset", batchRequest.Preset).
		Int("inputs", len(batchRequest.Inputs)).
		Msg("Start batch")

	ctx := req.Request.Context()
	results, summary := h.runner.RunInputs(ctx, promptRequest.Template, promptRequest.Params, batchRequest.Inputs)

	resp.WriteHeaderAndEntity(http.StatusOK, BatchResponse{
		Results: results,
		Summary: summary,
	})
}

// CreateSession handler POST /api/v1/interview/sessions
func (h *Handler) CreateSession(req *restful.Request, resp *restful.Response) {
	var createRequest CreateSessionRequest
	if err := req.ReadEntity(&createRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	question := createRequest.Question
	params := createRequest.Params

	if question == "" {
		preset, err := h.presets.Find("interview")
		if err != nil {
			middleware.HandleError(resp, errors.New("question is required"), http.StatusBadRequest)
			return
		}
		question = preset.Template
		if params == nil {
			presetParams := preset.Model.Params()
			params = &presetParams
		}
	}
	if params == nil {
		defaultParams := h.presets.Presets.DefaultModel.Params()
		params = &defaultParams
	}

	session := h.store.Create(createRequest.Resume, question, *params)

	resp.WriteHeaderAndEntity(http.StatusCreated, session)
}

// GetSession handler GET /api/v1/interview/sessions/{session_id}
func (h *Handler) GetSession(req *restful.Request, resp *restful.Response) {
	session, err := h.store.Get(req.PathParameter("session_id"))
	if err != nil {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, session)
}

// DeleteSession handler DELETE /api/v1/interview/sessions/{session_id}
func (h *Handler) DeleteSession(req *restful.Request, resp *restful.Response) {
	if err := h.store.Delete(req.PathParameter("session_id")); err != nil {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	resp.WriteHeader(http.StatusNoContent)
}

// PostMessage handler POST /api/v1/interview/sessions/{session_id}/messages
func (h *Handler) PostMessage(req *restful.Request, resp *restful.Response) {
	sessionID := req.PathParameter("session_id")

	var messageRequest MessageRequest
	if err := req.ReadEntity(&messageRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if messageRequest.Text == "" {
		middleware.HandleError(resp, errors.New("text is required"), http.StatusBadRequest)
		return
	}

	session, err := h.store.AppendTurn(sessionID, models.Turn{
		Role: models.RoleCandidate,
		Text: messageRequest.Text,
	})
	if err != nil {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	ctx := req.Request.Context()
	reply, err := h.interviewer.Next(ctx, session)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Interviewer reply failed")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	session, err = h.store.AppendTurn(sessionID, models.Turn{
		Role: models.RoleInterviewer,
		Text: reply,
	})
	if err != nil {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, MessageResponse{
		Reply:   reply,
		Session: session,
	})
}

// Feedback handler POST /api/v1/interview/sessions/{session_id}/feedback
func (h *Handler) Feedback(req *restful.Request, resp *restful.Response) {
	session, err := h.store.Get(req.PathParameter("session_id"))
	if err != nil {
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	ctx := req.Request.Context()
	feedback, err := h.interviewer.Feedback(ctx, session)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionID", session.ID).Msg("Feedback generation failed")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, FeedbackResponse{Feedback: feedback})
}

func (h *Handler) resolve(presetName, template string, params *models.ModelParams) (models.PromptRequest, error) {
	request := models.PromptRequest{Template: template}

	if presetName != "" {
		preset, err := h.presets.Find(presetName)
		if err != nil {
			return models.PromptRequest{}, err
		}
		if request.Template == "" {
			request.Template = preset.Template
		}
		if params == nil {
			presetParams := preset.Model.Params()
			params = &presetParams
		}
	}

	if request.Template == "" {
		return models.PromptRequest{}, errors.New("template or preset is required")
	}

	if params == nil {
		defaultParams := h.presets.Presets.DefaultModel.Params()
		params = &defaultParams
	}
	request.Params = *params

	return request, nil
}

func (h *Handler) writeResolveError(resp *restful.Response, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, config.ErrPresetNotFound) {
		status = http.StatusNotFound
	}
	middleware.HandleError(resp, err, status)
}
