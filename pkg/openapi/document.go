package openapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// DocumentOptions configures the generated API description.
type DocumentOptions struct {
	Title   string
	Version string
	Servers []string
}

// NewDocument builds the OpenAPI description of the survey HTTP surface and
// validates it before returning.
func NewDocument(ctx context.Context, opts DocumentOptions) (*openapi3.T, error) {
	title := opts.Title
	if title == "" {
		title = "Survey Form"
	}
	version := opts.Version
	if version == "" {
		version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
	}
	for _, url := range opts.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}

	sessionID := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithDescription("Session identifier").
			WithSchema(openapi3.NewStringSchema()),
	}

	doc.Paths.Set("/sessions", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "createSession",
			Summary:     "Start a new survey session",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusCreated, jsonResponse("Session created", ViewSchema())),
			),
		},
	})

	doc.Paths.Set("/sessions/{id}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{sessionID},
		Get: &openapi3.Operation{
			OperationID: "renderSession",
			Summary:     "Render the survey form and, once submitted, the summary",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, htmlResponse("Rendered form")),
				openapi3.WithStatus(http.StatusNotFound, textResponse("Unknown session")),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "postSessionForm",
			Summary:     "Apply a full form post; the submit intent also validates it",
			RequestBody: &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithRequired(true).
					WithContent(openapi3.NewContentWithFormDataSchema(AnswersSchema())),
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusSeeOther, textResponse("Redirect back to the form")),
				openapi3.WithStatus(http.StatusBadRequest, textResponse("Malformed form post")),
				openapi3.WithStatus(http.StatusConflict, textResponse("Form drawn at a stale revision")),
			),
		},
		Delete: &openapi3.Operation{
			OperationID: "closeSession",
			Summary:     "Discard the session and cancel its pending fetches",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusNoContent, textResponse("Session closed")),
				openapi3.WithStatus(http.StatusNotFound, textResponse("Unknown session")),
			),
		},
	})

	doc.Paths.Set("/sessions/{id}/view", &openapi3.PathItem{
		Parameters: openapi3.Parameters{sessionID},
		Get: &openapi3.Operation{
			OperationID: "getSessionView",
			Summary:     "Current form state as JSON",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Session view", ViewSchema())),
			),
		},
	})

	doc.Paths.Set("/sessions/{id}/fields", &openapi3.PathItem{
		Parameters: openapi3.Parameters{sessionID},
		Patch: &openapi3.Operation{
			OperationID: "updateField",
			Summary:     "Apply one field edit",
			RequestBody: &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithRequired(true).
					WithJSONSchema(FieldChangeSchema()),
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Updated view", ViewSchema())),
				openapi3.WithStatus(http.StatusBadRequest, textResponse("Unknown field or invalid topic")),
			),
		},
	})

	doc.Paths.Set("/sessions/{id}/submit", &openapi3.PathItem{
		Parameters: openapi3.Parameters{sessionID},
		Post: &openapi3.Operation{
			OperationID: "submitSession",
			Summary:     "Validate the answers and reveal the summary when valid",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Validation result", ValidationResultSchema())),
			),
		},
	})

	doc.Paths.Set("/sessions/{id}/edit", &openapi3.PathItem{
		Parameters: openapi3.Parameters{sessionID},
		Post: &openapi3.Operation{
			OperationID: "editSession",
			Summary:     "Hide the summary and return to editing",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, jsonResponse("Updated view", ViewSchema())),
			),
		},
	})

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchema(schema),
	}
}

func htmlResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})),
	}
}

func textResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description),
	}
}
