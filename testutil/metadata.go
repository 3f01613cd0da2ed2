package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/credentials"
)

// Instance metadata paths and headers.
const (
	MetadataTokenPath      = "/latest/api/token"
	MetadataCredentialPath = "/latest/meta-data/iam/security-credentials/"
	MetadataTokenHeader    = "X-Aws-Ec2-Metadata-Token"
	MetadataTokenTTLHeader = "X-Aws-Ec2-Metadata-Token-Ttl-Seconds"
	DefaultMetadataRole    = "cloudkit-test-role"
)

// MetadataServer stubs the instance metadata service.
type MetadataServer struct {
	mu      sync.Mutex
	server  *httptest.Server
	engine  *gin.Engine
	role    string
	creds   *credentials.Credentials
	token   string
	lookups atomic.Int32

	// RequireToken rejects credential reads without a session token (IMDSv2 only).
	RequireToken bool
}

var _ TestComponent = (*MetadataServer)(nil)

// NewMetadataServer creates a stub serving default role credentials that
// expire in one hour.
func NewMetadataServer() *MetadataServer {
	gin.SetMode(gin.TestMode)
	m := &MetadataServer{engine: gin.New()}
	m.resetLocked()

	m.engine.PUT(MetadataTokenPath, m.issueToken)
	m.engine.GET(MetadataCredentialPath, m.listRoles)
	m.engine.GET(MetadataCredentialPath+":role", m.roleCredentials)
	return m
}

// SetCredentials changes the credentials served for the role.
func (m *MetadataServer) SetCredentials(c *credentials.Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
}

// Credentials returns the credentials currently served.
func (m *MetadataServer) Credentials() *credentials.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds
}

// Lookups returns how many times role credentials were read.
func (m *MetadataServer) Lookups() int {
	return int(m.lookups.Load())
}

// URL returns the endpoint to configure as credentials.Config.MetadataEndpoint.
func (m *MetadataServer) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server == nil {
		return ""
	}
	return m.server.URL
}

// issueToken answers the IMDSv2 token request. The TTL is echoed back; the
// SDK client rejects a token response without it.
func (m *MetadataServer) issueToken(c *gin.Context) {
	ttl := c.GetHeader(MetadataTokenTTLHeader)
	if ttl == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	c.Header(MetadataTokenTTLHeader, ttl)
	c.String(http.StatusOK, token)
}

func (m *MetadataServer) authorized(c *gin.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.RequireToken {
		return true
	}
	return c.GetHeader(MetadataTokenHeader) == m.token
}

func (m *MetadataServer) listRoles(c *gin.Context) {
	if !m.authorized(c) {
		c.Status(http.StatusUnauthorized)
		return
	}
	m.mu.Lock()
	role := m.role
	m.mu.Unlock()
	c.String(http.StatusOK, role+"\n")
}

func (m *MetadataServer) roleCredentials(c *gin.Context) {
	if !m.authorized(c) {
		c.Status(http.StatusUnauthorized)
		return
	}
	m.mu.Lock()
	role, creds := m.role, m.creds
	m.mu.Unlock()

	if strings.TrimSuffix(c.Param("role"), "/") != role || creds == nil {
		c.Status(http.StatusNotFound)
		return
	}
	m.lookups.Add(1)
	c.JSON(http.StatusOK, gin.H{
		"Code":            "Success",
		"LastUpdated":     time.Now().UTC().Format(time.RFC3339),
		"Type":            "AWS-HMAC",
		"AccessKeyId":     creds.AccessKeyID,
		"SecretAccessKey": creds.SecretAccessKey,
		"Token":           creds.SessionToken,
		"Expiration":      creds.Expires.UTC().Format(time.RFC3339),
	})
}

// Name implements component.Component.
func (m *MetadataServer) Name() string { return "instance-metadata" }

// Start starts the HTTP server.
func (m *MetadataServer) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		return fmt.Errorf("testutil: metadata server already started")
	}
	m.server = httptest.NewServer(m.engine)
	return nil
}

// Stop shuts the HTTP server down.
func (m *MetadataServer) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		m.server.Close()
		m.server = nil
	}
	return nil
}

// Health implements component.Component.
func (m *MetadataServer) Health(context.Context) component.Health {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := component.StatusUnhealthy
	if m.server != nil {
		status = component.StatusHealthy
	}
	return component.Health{Name: m.Name(), Status: status}
}

// Reset restores the default role and credentials and clears the lookup count.
func (m *MetadataServer) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *MetadataServer) resetLocked() {
	m.role = DefaultMetadataRole
	m.token = uuid.NewString()
	m.creds = &credentials.Credentials{
		AccessKeyID:     "ASIAMETADATA",
		SecretAccessKey: "metadata-secret",
		SessionToken:    "metadata-token",
		Expires:         time.Now().Add(time.Hour).Truncate(time.Second),
	}
	m.lookups.Store(0)
}

type metadataSnapshot struct {
	role  string
	creds *credentials.Credentials
}

// Snapshot captures the served role and credentials.
func (m *MetadataServer) Snapshot(context.Context) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var creds *credentials.Credentials
	if m.creds != nil {
		c := *m.creds
		creds = &c
	}
	return metadataSnapshot{role: m.role, creds: creds}, nil
}

// Restore returns to a state captured by Snapshot.
func (m *MetadataServer) Restore(_ context.Context, snapshot interface{}) error {
	snap, ok := snapshot.(metadataSnapshot)
	if !ok {
		return fmt.Errorf("testutil: unexpected metadata snapshot %T", snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.role = snap.role
	m.creds = snap.creds
	return nil
}
