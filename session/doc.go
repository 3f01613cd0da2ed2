// Package session holds the process-wide parts shared by service clients:
// the credential chain, the async executor, call metrics and a component
// registry that starts and stops them together.
//
//	sess, err := session.New(session.Config{})
//	if err != nil { ... }
//	defer sess.Shutdown(ctx)
//
//	c, err := ecs.New(sess.ClientConfig(ecs.ServiceName), sess.ClientOptions()...)
//	_ = sess.Track(c.Core())
//	ac := ecs.NewAsyncClient(c, sess.Executor())
package session
