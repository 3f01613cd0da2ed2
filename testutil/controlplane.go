package testutil

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/cloudkit/component"
)

// HeaderTarget names the operation of JSON 1.1 requests.
const HeaderTarget = "X-Amz-Target"

// RecordedRequest is one request received by the ControlPlane.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Target  string
	Action  string
	Form    url.Values
	Headers http.Header
	Body    []byte
}

// ControlPlane is a fake service endpoint built on gin. JSON 1.1 requests
// are routed by X-Amz-Target, query requests by their Action parameter, and
// everything else by REST method and path.
type ControlPlane struct {
	mu       sync.Mutex
	engine   *gin.Engine
	server   *httptest.Server
	targets  map[string]gin.HandlerFunc
	actions  map[string]gin.HandlerFunc
	requests []RecordedRequest

	// RequireSignature rejects requests without an Authorization header.
	RequireSignature bool
}

var _ TestComponent = (*ControlPlane)(nil)

// NewControlPlane creates an unstarted control plane.
func NewControlPlane() *ControlPlane {
	gin.SetMode(gin.TestMode)
	cp := &ControlPlane{
		engine:  gin.New(),
		targets: make(map[string]gin.HandlerFunc),
		actions: make(map[string]gin.HandlerFunc),
	}
	cp.engine.RedirectTrailingSlash = false
	cp.engine.Use(gin.Recovery(), cp.record, cp.checkSignature)
	cp.engine.POST("/", cp.dispatchRPC)
	return cp
}

// Target registers the handler for a JSON 1.1 target, e.g.
// "AmazonEC2ContainerServiceV20141113.CreateCluster".
func (cp *ControlPlane) Target(target string, h gin.HandlerFunc) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.targets[target] = h
}

// Action registers the handler for a query Action.
func (cp *ControlPlane) Action(action string, h gin.HandlerFunc) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.actions[action] = h
}

// Route registers a REST handler. path uses gin syntax, e.g.
// "/2015-03-31/event-source-mappings/:UUID". Register routes before Start.
func (cp *ControlPlane) Route(method, path string, h gin.HandlerFunc) {
	cp.engine.Handle(method, path, h)
}

// URL returns the endpoint to configure on a client.
func (cp *ControlPlane) URL() string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.server == nil {
		return ""
	}
	return cp.server.URL
}

// Requests returns every request received so far.
func (cp *ControlPlane) Requests() []RecordedRequest {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return append([]RecordedRequest(nil), cp.requests...)
}

func (cp *ControlPlane) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	rec := RecordedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Target:  c.GetHeader(HeaderTarget),
		Headers: c.Request.Header.Clone(),
		Body:    body,
	}
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
		if form, err := url.ParseQuery(string(body)); err == nil {
			rec.Form = form
			rec.Action = form.Get("Action")
		}
	}

	cp.mu.Lock()
	cp.requests = append(cp.requests, rec)
	cp.mu.Unlock()
	c.Next()
}

func (cp *ControlPlane) checkSignature(c *gin.Context) {
	cp.mu.Lock()
	require := cp.RequireSignature
	cp.mu.Unlock()
	if require && !strings.HasPrefix(c.GetHeader("Authorization"), "AWS4-HMAC-SHA256 ") {
		RESTError(c, http.StatusForbidden, "MissingAuthenticationTokenException", "Missing Authentication Token")
		c.Abort()
		return
	}
	c.Next()
}

func (cp *ControlPlane) dispatchRPC(c *gin.Context) {
	if target := c.GetHeader(HeaderTarget); target != "" {
		cp.mu.Lock()
		h, ok := cp.targets[target]
		cp.mu.Unlock()
		if !ok {
			JSONError(c, http.StatusBadRequest, "UnknownOperationException", "unknown target "+target)
			return
		}
		h(c)
		return
	}

	action := c.PostForm("Action")
	cp.mu.Lock()
	h, ok := cp.actions[action]
	cp.mu.Unlock()
	if !ok {
		XMLError(c, http.StatusBadRequest, "InvalidAction", "unknown action "+action)
		return
	}
	h(c)
}

// JSONError writes a JSON 1.1 error body.
func JSONError(c *gin.Context, status int, code, message string) {
	c.Header("X-Amzn-Requestid", uuid.NewString())
	c.Data(status, "application/x-amz-json-1.1",
		[]byte(fmt.Sprintf(`{"__type":%q,"message":%q}`, code, message)))
}

// RESTError writes a REST-JSON error with the code in the X-Amzn-ErrorType header.
func RESTError(c *gin.Context, status int, code, message string) {
	c.Header("X-Amzn-Requestid", uuid.NewString())
	c.Header("X-Amzn-Errortype", code)
	c.JSON(status, gin.H{"Type": "User", "Message": message})
}

type xmlErrorResponse struct {
	XMLName   xml.Name `xml:"ErrorResponse"`
	Type      string   `xml:"Error>Type"`
	Code      string   `xml:"Error>Code"`
	Message   string   `xml:"Error>Message"`
	RequestID string   `xml:"RequestId"`
}

// XMLError writes a query protocol error body.
func XMLError(c *gin.Context, status int, code, message string) {
	fault := "Sender"
	if status >= http.StatusInternalServerError {
		fault = "Receiver"
	}
	c.XML(status, xmlErrorResponse{Type: fault, Code: code, Message: message, RequestID: uuid.NewString()})
}

// Name implements component.Component.
func (cp *ControlPlane) Name() string { return "control-plane" }

// Start starts the HTTP server.
func (cp *ControlPlane) Start(context.Context) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.server != nil {
		return fmt.Errorf("testutil: control plane already started")
	}
	cp.server = httptest.NewServer(cp.engine)
	return nil
}

// Stop shuts the HTTP server down.
func (cp *ControlPlane) Stop(context.Context) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.server != nil {
		cp.server.Close()
		cp.server = nil
	}
	return nil
}

// Health implements component.Component.
func (cp *ControlPlane) Health(context.Context) component.Health {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	status := component.StatusUnhealthy
	if cp.server != nil {
		status = component.StatusHealthy
	}
	return component.Health{Name: cp.Name(), Status: status}
}

// Reset clears the recorded requests and the RPC handlers.
func (cp *ControlPlane) Reset(context.Context) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.requests = nil
	cp.targets = make(map[string]gin.HandlerFunc)
	cp.actions = make(map[string]gin.HandlerFunc)
	return nil
}

// Snapshot captures the recorded requests.
func (cp *ControlPlane) Snapshot(context.Context) (interface{}, error) {
	return cp.Requests(), nil
}

// Restore replaces the recorded requests with a Snapshot.
func (cp *ControlPlane) Restore(_ context.Context, snapshot interface{}) error {
	reqs, ok := snapshot.([]RecordedRequest)
	if !ok {
		return fmt.Errorf("testutil: unexpected control plane snapshot %T", snapshot)
	}
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.requests = reqs
	return nil
}
