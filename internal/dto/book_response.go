package dto

type BorrowerDetails struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Details         string           `json:"details"`
	Status          string           `json:"status"`
	BorrowerDetails *BorrowerDetails `json:"borrower_details,omitempty"`
}

type BookListResponse struct {
	Books []BookResponse `json:"books"`
	Total int64          `json:"total"`
}

type BorrowedBookSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
	Status  string `json:"status"`
}

type BorrowHistoryResponse struct {
	ID         string              `json:"id"`
	BorrowDate int64               `json:"borrow_date"`
	ReturnDate *int64              `json:"return_date"`
	Status     string              `json:"status"`
	UserID     string              `json:"user_id"`
	Book       BorrowedBookSummary `json:"book"`
}

type BorrowHistoryListResponse struct {
	BorrowingHistory []BorrowHistoryResponse `json:"borrowing_history"`
	Total            int64                   `json:"total"`
}

type BookwiseBorrowResponse struct {
	ID          string          `json:"id"`
	BookID      string          `json:"book_id"`
	BorrowDate  int64           `json:"borrow_date"`
	ReturnDate  *int64          `json:"return_date"`
	Status      string          `json:"status"`
	UserDetails BorrowerDetails `json:"user_details"`
}

type BookwiseBorrowListResponse struct {
	BorrowingHistory []BookwiseBorrowResponse `json:"borrowing_history"`
	Total            int64                    `json:"total"`
}
