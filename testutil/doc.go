// Package testutil provides test doubles for the SDK pipeline.
//
//   - SpyTransport replaces the HTTP transport, returns scripted results and
//     records every dispatch.
//   - MetadataServer stubs the instance metadata service (IMDSv2 token plus
//     role credentials) for the credential chain.
//   - ControlPlane is a gin-based fake service endpoint that routes by
//     X-Amz-Target, query Action or REST path.
//
// Each double implements TestComponent, so it can be driven by T(t).Setup or
// grouped in a Manager:
//
//	func TestCreateUser(t *testing.T) {
//	    cp := testutil.NewControlPlane()
//	    testutil.T(t).Setup(cp)
//	    cp.Action("CreateUser", func(c *gin.Context) { ... })
//	    // point the client's endpoint at cp.URL()
//	}
package testutil
