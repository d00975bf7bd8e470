package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

// Handler dispatches raw Lambda events.
type Handler struct {
	translator   domain.Translator
	logger       *observability.Logger
	functionName string
	invoker      func(ctx context.Context) (Invoker, error)
	sleep        func(time.Duration)
}

// NewHandler creates a handler that self-invokes through the AWS SDK.
func NewHandler(translator domain.Translator, logger *observability.Logger) *Handler {
	return &Handler{
		translator:   translator,
		logger:       logger.WithOperation("lambda"),
		functionName: functionNameFromEnv(),
		invoker:      defaultInvoker,
		sleep:        time.Sleep,
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handle accepts three event shapes, checked in order: a warmup event, an API
// Gateway proxy request whose body is a translation request, and a bare
// {originalText, mode} request.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	if warmup, ok := IsWarmupEvent(event); ok {
		return h.HandleWarmup(ctx, warmup)
	}

	if proxy, ok := asProxyRequest(event); ok {
		return h.handleProxy(ctx, proxy), nil
	}

	var req domain.TranslationRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, domain.ValidationError("event is not a translation request", err)
	}
	return h.translator.Translate(ctx, req)
}

func asProxyRequest(event json.RawMessage) (events.APIGatewayProxyRequest, bool) {
	var proxy events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &proxy); err != nil || proxy.HTTPMethod == "" {
		return proxy, false
	}
	return proxy, true
}

func (h *Handler) handleProxy(ctx context.Context, proxy events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if proxy.HTTPMethod != http.MethodPost {
		return proxyJSON(http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed", Message: "use POST"})
	}

	var req domain.TranslationRequest
	if err := json.Unmarshal([]byte(proxy.Body), &req); err != nil {
		return proxyJSON(http.StatusBadRequest, errorBody{Error: "invalid_body", Message: "request body must be JSON {originalText, mode}"})
	}

	result, err := h.translator.Translate(ctx, req)
	if err != nil {
		if domain.IsClientError(err) {
			return proxyJSON(http.StatusBadRequest, errorBody{Error: string(domain.TypeOf(err)), Message: err.Error()})
		}
		h.logger.Error().Err(err).Msg("Translation failed")
		return proxyJSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "request could not be processed"})
	}

	return proxyJSON(http.StatusOK, result)
}

func proxyJSON(status int, v interface{}) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
