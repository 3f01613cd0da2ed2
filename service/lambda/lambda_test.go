package lambda_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/cloudkit/async"
	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/resilience"
	"github.com/kbukum/cloudkit/service/lambda"
	"github.com/kbukum/cloudkit/testutil"
	"github.com/kbukum/cloudkit/util"
)

const (
	queueArn    = "arn:aws:sqs:us-east-1:123456789012:orders"
	streamArn   = "arn:aws:kinesis:us-east-1:123456789012:stream/clicks"
	functionArn = "arn:aws:lambda:us-east-1:123456789012:function:process-orders"
)

func newControlPlaneClient(t *testing.T) (*lambda.Client, *testutil.ControlPlane) {
	t.Helper()
	cp := testutil.NewControlPlane()
	cp.RequireSignature = true
	// Routes must exist before the server starts.
	registerRoutes(t, cp)
	testutil.T(t).Setup(cp)

	cfg := client.Config{Endpoint: cp.URL()}
	cfg.Region = "eu-west-1"
	cfg.Transport.Retry = &resilience.RetryConfig{MaxAttempts: 1}
	c, err := lambda.New(cfg,
		client.WithCredentialSource(credentials.NewChain(credentials.Static("AKIDEXAMPLE", "secret", "").Provider())),
		client.WithLogger(logger.NewNop()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, cp
}

// registerRoutes serves an in-memory mapping store.
func registerRoutes(t *testing.T, cp *testutil.ControlPlane) {
	store := map[string]lambda.EventSourceMappingConfiguration{}
	const base = "/2015-03-31/event-source-mappings/"

	cp.Route(http.MethodPost, base, func(ctx *gin.Context) {
		var in struct {
			EventSourceArn string
			FunctionName   string
			BatchSize      int
			Enabled        *bool
		}
		body, _ := ctx.GetRawData()
		if err := json.Unmarshal(body, &in); err != nil {
			t.Errorf("invalid body %q: %v", body, err)
		}
		state := "Enabled"
		if in.Enabled != nil && !*in.Enabled {
			state = "Disabled"
		}
		m := lambda.EventSourceMappingConfiguration{
			UUID:           uuid.NewString(),
			BatchSize:      in.BatchSize,
			EventSourceArn: in.EventSourceArn,
			FunctionArn:    functionArn,
			LastModified:   1714557600.5,
			State:          state,
		}
		store[m.UUID] = m
		ctx.JSON(http.StatusAccepted, m)
	})
	cp.Route(http.MethodGet, base, func(ctx *gin.Context) {
		out := lambda.ListEventSourceMappingsOutput{}
		for _, m := range store {
			if arn := ctx.Query("EventSourceArn"); arn == "" || arn == m.EventSourceArn {
				out.EventSourceMappings = append(out.EventSourceMappings, m)
			}
		}
		ctx.JSON(http.StatusOK, out)
	})
	cp.Route(http.MethodGet, base+":UUID", func(ctx *gin.Context) {
		m, ok := store[ctx.Param("UUID")]
		if !ok {
			testutil.RESTError(ctx, http.StatusNotFound, lambda.ErrCodeResourceNotFoundException,
				"The resource you requested does not exist.")
			return
		}
		ctx.JSON(http.StatusOK, m)
	})
	cp.Route(http.MethodPut, base+":UUID", func(ctx *gin.Context) {
		m, ok := store[ctx.Param("UUID")]
		if !ok {
			testutil.RESTError(ctx, http.StatusNotFound, lambda.ErrCodeResourceNotFoundException, "not found")
			return
		}
		var in struct{ BatchSize int }
		body, _ := ctx.GetRawData()
		_ = json.Unmarshal(body, &in)
		if in.BatchSize > 0 {
			m.BatchSize = in.BatchSize
		}
		store[m.UUID] = m
		ctx.JSON(http.StatusAccepted, m)
	})
	cp.Route(http.MethodDelete, base+":UUID", func(ctx *gin.Context) {
		m, ok := store[ctx.Param("UUID")]
		if !ok {
			testutil.RESTError(ctx, http.StatusNotFound, lambda.ErrCodeResourceNotFoundException, "not found")
			return
		}
		if m.State == "Disabled" {
			testutil.RESTError(ctx, http.StatusConflict, lambda.ErrCodeResourceInUseException, "mapping is being updated")
			return
		}
		delete(store, m.UUID)
		m.State = "Deleting"
		ctx.JSON(http.StatusAccepted, m)
	})
}

func TestClient_MappingLifecycle(t *testing.T) {
	c, cp := newControlPlaneClient(t)
	ctx := context.Background()

	created, err := c.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
		EventSourceArn: queueArn,
		FunctionName:   "process-orders",
		BatchSize:      10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.State != "Enabled" || created.BatchSize != 10 {
		t.Fatalf("unexpected mapping %+v", created.EventSourceMappingConfiguration)
	}
	if _, err := uuid.Parse(created.UUID); err != nil {
		t.Fatalf("expected a UUID, got %q", created.UUID)
	}
	if got := created.LastModifiedTime(); !got.Equal(time.Unix(1714557600, 500_000_000).UTC()) {
		t.Errorf("unexpected last modified %v", got)
	}

	updated, err := c.UpdateEventSourceMapping(ctx, &lambda.UpdateEventSourceMappingInput{UUID: created.UUID, BatchSize: 50})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", updated.BatchSize)
	}

	got, err := c.GetEventSourceMapping(ctx, &lambda.GetEventSourceMappingInput{UUID: created.UUID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EventSourceArn != queueArn {
		t.Errorf("unexpected event source %q", got.EventSourceArn)
	}

	list, err := c.ListEventSourceMappings(ctx, &lambda.ListEventSourceMappingsInput{EventSourceArn: queueArn})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.EventSourceMappings) != 1 {
		t.Errorf("expected 1 mapping, got %d", len(list.EventSourceMappings))
	}

	deleted, err := c.DeleteEventSourceMapping(ctx, &lambda.DeleteEventSourceMappingInput{UUID: created.UUID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.State != "Deleting" {
		t.Errorf("expected Deleting, got %q", deleted.State)
	}

	_, err = c.GetEventSourceMapping(ctx, &lambda.GetEventSourceMappingInput{UUID: created.UUID})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}

	reqs := cp.Requests()
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/2015-03-31/event-source-mappings/" {
		t.Errorf("unexpected create request %s %s", reqs[0].Method, reqs[0].Path)
	}
	if reqs[1].Method != http.MethodPut || reqs[1].Path != "/2015-03-31/event-source-mappings/"+created.UUID {
		t.Errorf("unexpected update request %s %s", reqs[1].Method, reqs[1].Path)
	}
	var sent map[string]any
	if err := json.Unmarshal(reqs[1].Body, &sent); err != nil {
		t.Fatalf("invalid update body: %v", err)
	}
	if _, ok := sent["UUID"]; ok {
		t.Error("path parameter must not be sent in the body")
	}
	if reqs[3].Query.Get("EventSourceArn") != queueArn {
		t.Errorf("expected EventSourceArn query, got %v", reqs[3].Query)
	}
	if len(reqs[2].Body) != 0 {
		t.Errorf("expected no body on GET, got %q", reqs[2].Body)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	c, _ := newControlPlaneClient(t)
	ctx := context.Background()

	m, err := c.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
		EventSourceArn: queueArn,
		FunctionName:   "process-orders",
		Enabled:        util.Ptr(false),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = c.DeleteEventSourceMapping(ctx, &lambda.DeleteEventSourceMappingInput{UUID: m.UUID})
	e, ok := errors.As(err)
	if !ok || e.Kind != errors.KindConflict || e.Code != lambda.ErrCodeResourceInUseException {
		t.Fatalf("expected ResourceInUse conflict, got %v", err)
	}
	if e.StatusCode != http.StatusConflict || e.Message != "mapping is being updated" {
		t.Errorf("unexpected error details %d %q", e.StatusCode, e.Message)
	}

	_, err = c.GetEventSourceMapping(ctx, &lambda.GetEventSourceMappingInput{UUID: uuid.NewString()})
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindNotFound || e.RequestID == "" {
		t.Errorf("expected NotFound with request id, got %v", err)
	}
}

func TestClient_ErrorCodes(t *testing.T) {
	tests := []struct {
		code string
		kind errors.Kind
	}{
		{lambda.ErrCodeResourceNotFoundException, errors.KindNotFound},
		{lambda.ErrCodeResourceConflictException, errors.KindConflict},
		{lambda.ErrCodeResourceInUseException, errors.KindConflict},
		{lambda.ErrCodeTooManyRequestsException, errors.KindThrottling},
		{lambda.ErrCodeInvalidParameterValueException, errors.KindMalformedInput},
		{lambda.ErrCodeServiceException, errors.KindServiceFailure},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			spy := testutil.NewSpyTransport().RespondError(http.StatusBadRequest,
				http.Header{"X-Amzn-Errortype": {tt.code + ":http://internal.amazon.com/coral/"}},
				`{"Type":"User","Message":"boom"}`)
			c := newSpyClient(t, spy)
			_, err := c.ListEventSourceMappings(context.Background(), nil)
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("expected %s, got %s (%v)", tt.kind, got, err)
			}
		})
	}
}

func newSpyClient(t *testing.T, spy *testutil.SpyTransport) *lambda.Client {
	t.Helper()
	c, err := lambda.New(client.Config{},
		client.WithDispatcher(spy),
		client.WithCredentialSource(credentials.NewChain(credentials.Static("AKID", "secret", "").Provider())),
		client.WithLogger(logger.NewNop()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestClient_InvalidInputNeverDispatches(t *testing.T) {
	tests := []struct {
		name string
		call func(*lambda.Client) error
	}{
		{"get without uuid", func(c *lambda.Client) error {
			_, err := c.GetEventSourceMapping(context.Background(), nil)
			return err
		}},
		{"delete with bad uuid", func(c *lambda.Client) error {
			_, err := c.DeleteEventSourceMapping(context.Background(), &lambda.DeleteEventSourceMappingInput{UUID: "not-a-uuid"})
			return err
		}},
		{"create without function", func(c *lambda.Client) error {
			_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{EventSourceArn: queueArn})
			return err
		}},
		{"create with bad arn", func(c *lambda.Client) error {
			_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{EventSourceArn: "orders", FunctionName: "f"})
			return err
		}},
		{"bad starting position", func(c *lambda.Client) error {
			_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{
				EventSourceArn: queueArn, FunctionName: "f", StartingPosition: "OLDEST"})
			return err
		}},
		{"batch size too large", func(c *lambda.Client) error {
			_, err := c.UpdateEventSourceMapping(context.Background(), &lambda.UpdateEventSourceMappingInput{
				UUID: uuid.NewString(), BatchSize: 10001})
			return err
		}},
		{"update without changes", func(c *lambda.Client) error {
			_, err := c.UpdateEventSourceMapping(context.Background(), &lambda.UpdateEventSourceMappingInput{UUID: uuid.NewString()})
			return err
		}},
		{"stream without starting position", func(c *lambda.Client) error {
			_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{
				EventSourceArn: streamArn, FunctionName: "f"})
			return err
		}},
		{"queue with starting position", func(c *lambda.Client) error {
			_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{
				EventSourceArn: queueArn, FunctionName: "f", StartingPosition: lambda.StartingPositionLatest})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := testutil.NewSpyTransport()
			if err := tt.call(newSpyClient(t, spy)); !errors.IsMarshalling(err) {
				t.Errorf("expected marshalling error, got %v", err)
			}
			if spy.CallCount() != 0 {
				t.Errorf("expected no dispatch, got %d", spy.CallCount())
			}
		})
	}
}

func TestClient_CreateStreamMappingWithStartingPosition(t *testing.T) {
	spy := testutil.NewSpyTransport().RespondBody(`{"UUID":"` + uuid.NewString() + `","State":"Creating"}`)
	c := newSpyClient(t, spy)

	_, err := c.CreateEventSourceMapping(context.Background(), &lambda.CreateEventSourceMappingInput{
		EventSourceArn:   streamArn,
		FunctionName:     "process-clicks",
		StartingPosition: lambda.StartingPositionTrimHorizon,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := spy.LastCall()
	if !ok {
		t.Fatal("expected a dispatched call")
	}
	if body := string(call.Request.Body); !strings.Contains(body, `"StartingPosition":"TRIM_HORIZON"`) {
		t.Errorf("expected starting position in body, got %s", body)
	}
}

func TestClient_SignsForRegion(t *testing.T) {
	c, cp := newControlPlaneClient(t)
	if _, err := c.ListEventSourceMappings(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	auth := cp.Requests()[0].Headers.Get("Authorization")
	if want := "/eu-west-1/lambda/aws4_request"; !strings.Contains(auth, want) {
		t.Errorf("expected %s in %q", want, auth)
	}
}

func TestAsyncClient_ListEventSourceMappings(t *testing.T) {
	spy := testutil.NewSpyTransport().RespondBody(`{"EventSourceMappings":[{"UUID":"a"},{"UUID":"b"}],"NextMarker":"m2"}`)
	ex, err := async.NewExecutor(async.Config{PoolSize: 1}, async.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ex.Shutdown()
	ac := lambda.NewAsyncClient(newSpyClient(t, spy), ex)

	var seen atomic.Int32
	f := ac.ListEventSourceMappingsAsync(context.Background(), nil,
		async.HandlerFuncs[*lambda.ListEventSourceMappingsInput, *lambda.ListEventSourceMappingsOutput]{
			Success: func(_ *lambda.ListEventSourceMappingsInput, res *lambda.ListEventSourceMappingsOutput) {
				seen.Store(int32(len(res.EventSourceMappings)))
			},
		})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := f.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Load() != 2 || out.NextMarker != "m2" {
		t.Errorf("unexpected result %d %q", seen.Load(), out.NextMarker)
	}
}
