// Package credentials resolves the access keys used to sign requests.
//
// A request may carry its own credentials, which always win. Otherwise the
// process-wide Chain is consulted in a fixed order:
//
//  1. environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN)
//  2. system properties (aws.accessKeyId, aws.secretKey, aws.sessionToken)
//  3. the instance metadata service
//
// The first provider that yields keys wins. Results are cached until they
// expire, and concurrent lookups share one provider walk.
package credentials
