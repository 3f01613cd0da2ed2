package transport

import (
	stderrors "errors"
	"io"
	"net/http"
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"

	"github.com/kbukum/cloudkit/credentials"
)

// ErrNoSigningCredentials is returned when a request reaches the signer
// without credentials.
var ErrNoSigningCredentials = stderrors.New("transport: no credentials to sign with")

// Signer adds authentication to an outbound request.
type Signer interface {
	Sign(req *http.Request, body io.ReadSeeker, creds *credentials.Credentials, signTime time.Time) error
}

// V4Signer signs requests with AWS Signature Version 4.
type V4Signer struct {
	Service string
	Region  string
}

// NewV4Signer creates a SigV4 signer for the given signing name and region.
func NewV4Signer(service, region string) *V4Signer {
	return &V4Signer{Service: service, Region: region}
}

// Sign signs req with creds.
func (s *V4Signer) Sign(req *http.Request, body io.ReadSeeker, creds *credentials.Credentials, signTime time.Time) error {
	if !creds.HasKeys() {
		return ErrNoSigningCredentials
	}
	signer := v4.NewSigner(awscreds.NewCredentials(creds.Provider()))
	_, err := signer.Sign(req, body, s.Service, s.Region, signTime)
	return err
}

// NopSigner leaves requests unsigned.
type NopSigner struct{}

// Sign does nothing.
func (NopSigner) Sign(*http.Request, io.ReadSeeker, *credentials.Credentials, time.Time) error {
	return nil
}
