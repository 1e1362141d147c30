// Package types holds request-scoped values shared between the protocol
// layer and the engine.
package types

// QueryContext carries the identity and origin of one query execution request.
type QueryContext struct {
	UserID     int64
	Query      string
	ClientAddr string
}
