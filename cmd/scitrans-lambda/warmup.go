package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"golang.org/x/sync/errgroup"
)

const (
	// WarmupSource identifies scheduled warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the self-invocations
	// to land on other instances.
	WarmupDelay = 75 * time.Millisecond

	maxWarmupConcurrency = 50
)

// WarmupEvent is the scheduled event payload.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup events.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the subset of the Lambda client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, in *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// IsWarmupEvent reports whether event is {"source":"warmup", ...}.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var probe struct {
		Source      string  `json:"source"`
		Concurrency float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &probe); err != nil || probe.Source != WarmupSource {
		return nil, false
	}

	n := int(probe.Concurrency)
	if n < 0 {
		n = 0
	}
	if n > maxWarmupConcurrency {
		n = maxWarmupConcurrency
	}
	return &WarmupEvent{Source: WarmupSource, Concurrency: n}, true
}

// HandleWarmup counts this instance and asynchronously invokes the function
// Concurrency more times. Child events carry Concurrency 0 so they do not fan out.
func (h *Handler) HandleWarmup(ctx context.Context, warmup *WarmupEvent) (WarmupResponse, error) {
	warmed := 1

	if warmup.Concurrency > 0 {
		if err := h.selfInvoke(ctx, warmup.Concurrency); err != nil {
			h.logger.Warn().Err(err).Int("concurrency", warmup.Concurrency).Msg("Warmup self-invoke failed")
		} else {
			warmed += warmup.Concurrency
		}
	}

	h.sleep(WarmupDelay)

	return WarmupResponse{Status: "warm", InstancesWarmed: warmed}, nil
}

func (h *Handler) selfInvoke(ctx context.Context, count int) error {
	client, err := h.invoker(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := client.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(h.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}

// defaultInvoker builds a Lambda client from the execution role's credentials.
func defaultInvoker(ctx context.Context) (Invoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

func functionNameFromEnv() string {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
}
