package repo

import "context"

type ConnHandler func(context.Context, Conn) error

// Pool is a database connections pool. Conn acquires a connection,
// passes it to the handler, and releases it when handler returns.
// The connection may not be used after the handler returns.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
