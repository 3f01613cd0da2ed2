// Package iam is the client for the identity and access management API. It
// speaks the query protocol (form-encoded requests, XML responses) at API
// version 2010-05-08.
package iam
