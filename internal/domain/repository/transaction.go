package repository

import "context"

// TxManager runs fn inside one storage transaction. Repositories called with the
// context passed to fn take part in that transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
