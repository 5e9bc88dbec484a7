package localstore

// TokenStore is the durable holder of the bearer credential. It performs no
// validation; the session layer owns the token's meaning.
type TokenStore struct {
	store *Store
}

// NewTokenStore wraps store with the token contract.
func NewTokenStore(store *Store) *TokenStore {
	return &TokenStore{store: store}
}

// Set persists the bearer token.
func (t *TokenStore) Set(token string) error {
	return t.store.Set(KeyToken, token)
}

// Get returns the stored token, or "" when none exists.
func (t *TokenStore) Get() string {
	return t.store.Get(KeyToken)
}

// Clear removes the stored token. Idempotent.
func (t *TokenStore) Clear() error {
	return t.store.Delete(KeyToken)
}
