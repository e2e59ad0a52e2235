package entity

// User is the account document persisted in the users collection. EntityID is
// the only identifier ever exposed to clients; it is assigned on create and
// never changes. Password always holds a bcrypt hash and is excluded from the
// projection on every read, so entities materialized by lookups carry an
// empty Password.
type User struct {
	EntityID string `json:"entityId,omitempty"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
