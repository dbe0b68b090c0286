package dto

type BookRequest struct {
	ID      string
	Name    string `json:"name" validate:"required,max=255"`
	Details string `json:"details" validate:"required"`
}

type BorrowRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

type ReturnRequest struct {
	BorrowID string `json:"borrow_id" validate:"required"`
	BookID   string `json:"book_id" validate:"required"`
}
