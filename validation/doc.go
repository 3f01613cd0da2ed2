// Package validation checks request structs before they are marshalled.
//
// Every failure is reported as a client-side marshalling error, so an invalid
// request never reaches the transport.
//
// # Struct Tag Validation
//
//	type CreateClusterInput struct {
//	    ClusterName string `json:"clusterName" validate:"max=255"`
//	}
//	err := validation.Validate(in)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(in.BatchSize == 0 || in.BatchSize <= 10000, "BatchSize", "must be 10000 or less")
//	err := v.Err()
package validation
