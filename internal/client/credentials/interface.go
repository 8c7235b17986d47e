package credentials

import "context"

// Kind selects one of the two stored tokens.
type Kind string

const (
	KindAccess  Kind = "access_token"
	KindRefresh Kind = "refresh_token"
)

// Store is durable client-side storage for the current credential pair.
// It holds no network or validation logic.
//
// Contract:
//   - Get returns "" (and no error) when the token is absent.
//   - Set overwrites a single token, allowing partial rotation.
//   - SetPair writes both tokens atomically (login, full rotation).
//   - Clear removes both tokens together (logout).
type Store interface {
	Get(ctx context.Context, kind Kind) (string, error)
	Set(ctx context.Context, kind Kind, value string) error
	SetPair(ctx context.Context, access, refresh string) error
	Delete(ctx context.Context, kind Kind) error
	Clear(ctx context.Context) error
}
