package domain

type User struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	HashedPassword string  `db:"hashed_password"`
	RoleID         string  `db:"role_id"`
	CreatedAt      int64   `db:"created_at"`
	UpdatedAt      int64   `db:"updated_at"`
	DeletedAt      *int64  `db:"deleted_at"`
	RoleName       *string `db:"role_name"`
}
