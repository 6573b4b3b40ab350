// Package domain defines authentication and authorization domain models.
// Implements credential-based access control with per-scope permission grants
// and HMAC-signed capabilities for pre-signed URL access.
package domain

// OperationLevel defines the tiers of operations that can be performed on a
// resource scope. Levels form a nominal ordering (read < write < delete < admin)
// but a grant never implies lower levels: each level must be granted explicitly.
// A credential can hold delete without write.
type OperationLevel string

const (
	// LevelRead allows reading objects or querying databases.
	LevelRead OperationLevel = "read"

	// LevelWrite allows writing objects or executing statements.
	LevelWrite OperationLevel = "write"

	// LevelDelete allows removing objects or tables.
	LevelDelete OperationLevel = "delete"

	// LevelAdmin allows administrative operations such as issuing pre-signed URLs.
	LevelAdmin OperationLevel = "admin"
)

// Levels lists all valid operation levels in ascending order.
var Levels = []OperationLevel{LevelRead, LevelWrite, LevelDelete, LevelAdmin}

// Valid reports whether the level is one of the defined tiers.
func (l OperationLevel) Valid() bool {
	switch l {
	case LevelRead, LevelWrite, LevelDelete, LevelAdmin:
		return true
	}
	return false
}

// ResourceFamily separates the two backend namespaces a grant can apply to.
// A grant on bucket "data" does not authorize database "data".
type ResourceFamily string

const (
	// FamilyBucket scopes a grant to a named object store bucket.
	FamilyBucket ResourceFamily = "bucket"

	// FamilyDatabase scopes a grant to a named relational database.
	FamilyDatabase ResourceFamily = "database"
)

// Valid reports whether the family is one of the defined namespaces.
func (f ResourceFamily) Valid() bool {
	return f == FamilyBucket || f == FamilyDatabase
}

// WildcardScope matches every resource scope within a grant's family.
const WildcardScope = "*"
