package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/bfortuner/prompt-playground/internal/api/middleware"
	"github.com/bfortuner/prompt-playground/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/presets").
			To(handler.ListPresets).
			Doc("List available prompt presets").
			Metadata(restfulspec.KeyOpenAPITags, []string{"presets"}).
			Writes(PresetsResponse{}).
			Returns(200, "OK", PresetsResponse{}))

	ws.
		Route(ws.POST("/complete").
			To(handler.Complete).
			Doc("Run a single prompt completion").
			Metadata(restfulspec.KeyOpenAPITags, []string{"playground"}).
			Reads(CompleteRequest{}).
			Writes(models.CompletionResult{}).
			Returns(200, "OK", models.CompletionResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Preset Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
			Returns(502, "Model Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/batch").
			To(handler.RunBatch).
			Doc("Run the same prompt template over a list of inputs").
			Metadata(restfulspec.KeyOpenAPITags, []string{"playground"}).
			Reads(BatchRequest{}).
			Writes(BatchResponse{}).
			Returns(200, "OK", BatchResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Preset Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/interview/sessions").
			To(handler.CreateSession).
			Doc("Start an interview session").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interview"}).
			Reads(CreateSessionRequest{}).
			Writes(models.Session{}).
			Returns(201, "Created", models.Session{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/interview/sessions/{session_id}").
			To(handler.GetSession).
			Doc("Fetch an interview session").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interview"}).
			Param(ws.PathParameter("session_id", "Session identifier").DataType("string")).
			Writes(models.Session{}).
			Returns(200, "OK", models.Session{}).
			Returns(404, "Session Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.DELETE("/interview/sessions/{session_id}").
			To(handler.DeleteSession).
			Doc("End an interview session").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interview"}).
			Param(ws.PathParameter("session_id", "Session identifier").DataType("string")).
			Returns(204, "No Content", nil).
			Returns(404, "Session Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/interview/sessions/{session_id}/messages").
			To(handler.PostMessage).
			Doc("Send a candidate message and get the interviewer's reply").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interview"}).
			Param(ws.PathParameter("session_id", "Session identifier").DataType("string")).
			Reads(MessageRequest{}).
			Writes(MessageResponse{}).
			Returns(200, "OK", MessageResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Session Not Found", middleware.ErrorResponse{}).
			Returns(502, "Model Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/interview/sessions/{session_id}/feedback").
			To(handler.Feedback).
			Doc("Generate hiring feedback for the interview so far").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interview"}).
			Param(ws.PathParameter("session_id", "Session identifier").DataType("string")).
			Writes(FeedbackResponse{}).
			Returns(200, "OK", FeedbackResponse{}).
			Returns(404, "Session Not Found", middleware.ErrorResponse{}).
			Returns(502, "Model Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
