package credentials

import (
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/kbukum/cloudkit/config"
)

// Property keys read by PropertiesProvider.
const (
	PropertyAccessKeyID  = "aws.accessKeyId"
	PropertySecretKey    = "aws.secretKey"
	PropertySessionToken = "aws.sessionToken"
)

// PropertiesProviderName is the Source of credentials read from properties.
const PropertiesProviderName = "PropertiesProvider"

// NewEnvProvider returns a provider reading AWS_ACCESS_KEY_ID (or
// AWS_ACCESS_KEY), AWS_SECRET_ACCESS_KEY (or AWS_SECRET_KEY) and
// AWS_SESSION_TOKEN.
func NewEnvProvider() awscreds.Provider {
	return &awscreds.EnvProvider{}
}

// PropertiesProvider reads keys from a config.Properties set.
type PropertiesProvider struct {
	Props     *config.Properties
	retrieved bool
}

// NewPropertiesProvider returns a provider over props, or over the process
// system properties when props is nil.
func NewPropertiesProvider(props *config.Properties) *PropertiesProvider {
	if props == nil {
		props = config.System()
	}
	return &PropertiesProvider{Props: props}
}

// Retrieve returns the keys stored under the aws.* properties.
func (p *PropertiesProvider) Retrieve() (awscreds.Value, error) {
	p.retrieved = false
	id := p.Props.Get(PropertyAccessKeyID)
	if id == "" {
		return awscreds.Value{ProviderName: PropertiesProviderName},
			fmt.Errorf("%s: property %s not set", PropertiesProviderName, PropertyAccessKeyID)
	}
	secret := p.Props.Get(PropertySecretKey)
	if secret == "" {
		return awscreds.Value{ProviderName: PropertiesProviderName},
			fmt.Errorf("%s: property %s not set", PropertiesProviderName, PropertySecretKey)
	}
	p.retrieved = true
	return awscreds.Value{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    p.Props.Get(PropertySessionToken),
		ProviderName:    PropertiesProviderName,
	}, nil
}

// IsExpired returns true until keys have been retrieved.
func (p *PropertiesProvider) IsExpired() bool {
	return !p.retrieved
}

// NewInstanceMetadataProvider returns a provider that reads the instance role
// credentials from the metadata service at cfg.MetadataEndpoint.
func NewInstanceMetadataProvider(cfg Config) (*ec2rolecreds.EC2RoleProvider, error) {
	cfg.ApplyDefaults()
	sess, err := session.NewSession(&aws.Config{
		Credentials: awscreds.AnonymousCredentials,
	})
	if err != nil {
		return nil, fmt.Errorf("credentials: metadata session: %w", err)
	}
	client := ec2metadata.New(sess, &aws.Config{
		Endpoint:   aws.String(cfg.MetadataEndpoint),
		HTTPClient: &http.Client{Timeout: cfg.MetadataTimeout},
		MaxRetries: aws.Int(0),
	})
	return &ec2rolecreds.EC2RoleProvider{
		Client:       client,
		ExpiryWindow: cfg.ExpiryWindow,
	}, nil
}
