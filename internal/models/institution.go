package models

import "time"

// Institution is a partner school that receives tutor visits. Identity is the
// sole basis of equality: two values with the same ID denote the same
// institution, which matters when deduplicating grouped report sections.
type Institution struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Locality  string    `db:"locality" json:"locality"`
	Address   string    `db:"address" json:"address"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Equal compares institutions by identity.
func (i Institution) Equal(other Institution) bool {
	return i.ID == other.ID
}
