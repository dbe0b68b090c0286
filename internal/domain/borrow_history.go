package domain

const (
	BorrowStatusBorrowed = "borrowed"
	BorrowStatusReturned = "returned"
)

type BorrowHistory struct {
	ID           string `db:"id"`
	BookID       string `db:"book_id"`
	BorrowUserID string `db:"borrow_user_id"`
	BorrowDate   int64  `db:"borrow_date"`
	ReturnDate   *int64 `db:"return_date"`
	Status       string `db:"status"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`

	// book columns joined onto the caller's borrow listing
	BookName    *string `db:"book_name"`
	BookDetails *string `db:"book_details"`
	BookStatus  *string `db:"book_status"`

	// user columns joined onto the bookwise borrow listing
	UserName  *string `db:"user_name"`
	UserEmail *string `db:"user_email"`
}
