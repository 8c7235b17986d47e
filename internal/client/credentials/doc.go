// Package credentials provides durable client-side storage for the
// access/refresh token pair, backed by a local SQLite database.
//
// The two tokens are stored as independent keyed rows so the backend may
// rotate only one of them, but they are always cleared together on logout.
// Only the session and API layers write tokens; nothing else should.
package credentials
