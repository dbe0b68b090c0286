package domain

const (
	BookStatusAvailable    = "available"
	BookStatusNotAvailable = "unavailable"
)

type Book struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Slug         string  `db:"slug"`
	Details      string  `db:"details"`
	Status       string  `db:"status"`
	BorrowUserID *string `db:"borrow_user_id"`
	CreatedAt    int64   `db:"created_at"`
	UpdatedAt    int64   `db:"updated_at"`
	DeletedAt    *int64  `db:"deleted_at"`

	// borrower columns joined onto list reads
	BorrowerName  *string `db:"borrower_name"`
	BorrowerEmail *string `db:"borrower_email"`
}
