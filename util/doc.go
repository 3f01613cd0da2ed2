// Package util holds small generic helpers: Ptr for optional model fields,
// Coalesce for config defaults, and MaskSecret for logging access key ids.
package util
