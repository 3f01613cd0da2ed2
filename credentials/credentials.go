package credentials

import (
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
)

// Credentials is a resolved set of access keys.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Source names the provider that supplied the keys.
	Source string
	// Expires is zero for keys that do not expire.
	Expires time.Time
}

// Static returns long-lived credentials, typically used as a per-request override.
func Static(accessKeyID, secretAccessKey, sessionToken string) *Credentials {
	return &Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
		Source:          awscreds.StaticProviderName,
	}
}

// HasKeys reports whether both the access key id and secret are set.
func (c *Credentials) HasKeys() bool {
	return c != nil && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Expired reports whether the credentials are past their expiry at now.
func (c *Credentials) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// Value converts the credentials to the form the request signer consumes.
func (c *Credentials) Value() awscreds.Value {
	return awscreds.Value{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		ProviderName:    c.Source,
	}
}

// Provider returns a static provider over c so it can be handed to the signer.
func (c *Credentials) Provider() awscreds.Provider {
	return &awscreds.StaticProvider{Value: c.Value()}
}

func fromValue(v awscreds.Value, expires time.Time) *Credentials {
	return &Credentials{
		AccessKeyID:     v.AccessKeyID,
		SecretAccessKey: v.SecretAccessKey,
		SessionToken:    v.SessionToken,
		Source:          v.ProviderName,
		Expires:         expires,
	}
}
