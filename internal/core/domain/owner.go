package domain

// OwnerRecord is the supplemental profile attached to a user promoted to
// owner. It exists only while the user holds the owner role: promoting the
// same email to admin removes the record (best-effort, keyed by email).
type OwnerRecord struct {
	ID      string            `json:"id,omitempty" bson:"_id,omitempty"`
	Email   string            `json:"email" bson:"email"`
	Profile map[string]string `json:"profile,omitempty" bson:"profile,omitempty"`
}
