package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fathoor/library-service/internal/domain"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type BookRepository interface {
	GetBookByID(ctx context.Context, id string) (data domain.Book, err error)
	GetBookByName(ctx context.Context, name string, excludeID string) (data domain.Book, err error)
	GetBooks(ctx context.Context, filter pkgdto.Filter) (data []domain.Book, err error)
	CountBooks(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
	AddBook(ctx context.Context, data domain.Book) (err error)
	UpdateBook(ctx context.Context, data domain.Book) (err error)
	DeleteBook(ctx context.Context, id string) (err error)
	BorrowBook(ctx context.Context, bookID string, userID string) (err error)
	ReturnBook(ctx context.Context, borrowID string, bookID string, userID string) (err error)
}

type BookRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewBookRepository(db *sqlx.DB) BookRepository {
	return &BookRepositoryImpl{db: db}
}

func (r *BookRepositoryImpl) GetBookByID(ctx context.Context, id string) (data domain.Book, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT books.*, users.name AS borrower_name, users.email AS borrower_email FROM books LEFT JOIN users ON users.id = books.borrow_user_id WHERE books.id = $1 AND books.deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetBookByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

// GetBookByName looks up an active book by exact name. An empty excludeID
// keeps the exclusion out of the query; the id column is uuid and an empty
// string would fail the bind.
func (r *BookRepositoryImpl) GetBookByName(ctx context.Context, name string, excludeID string) (data domain.Book, err error) {
	query := "SELECT * FROM books WHERE name = $1 AND deleted_at IS NULL"
	args := []interface{}{name}

	if excludeID != "" {
		query = "SELECT * FROM books WHERE name = $1 AND id != $2 AND deleted_at IS NULL"
		args = append(args, excludeID)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetBookByName").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *BookRepositoryImpl) GetBooks(ctx context.Context, filter pkgdto.Filter) (data []domain.Book, err error) {
	query := "SELECT books.*, users.name AS borrower_name, users.email AS borrower_email FROM books LEFT JOIN users ON users.id = books.borrow_user_id WHERE books.deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.SearchTerm != "" {
		query += " AND (books.name ILIKE :search_term OR books.details ILIKE :search_term)"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	query += " ORDER BY books.created_at"

	if filter.Limit != 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBooks").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBooks").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *BookRepositoryImpl) CountBooks(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(id) FROM books WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.SearchTerm != "" {
		query += " AND (name ILIKE :search_term OR details ILIKE :search_term)"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBooks").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBooks").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *BookRepositoryImpl) AddBook(ctx context.Context, data domain.Book) (err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp
	data.Status = domain.BookStatusAvailable

	_, err = r.db.NamedExecContext(ctx, "INSERT INTO books(id, name, slug, details, status, created_at, updated_at) VALUES (:id, :name, :slug, :details, :status, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddBook").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *BookRepositoryImpl) UpdateBook(ctx context.Context, data domain.Book) (err error) {
	data.UpdatedAt = time.Now().UnixMilli()

	_, err = r.db.NamedExecContext(ctx, "UPDATE books SET name=:name, slug=:slug, details=:details, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateBook").Msg("")
		return errs.ErrInternalServer
	}

	return
}

// DeleteBook soft-deletes the book. The condition on borrow_user_id guards
// against a borrow that lands between the service's check and this update.
func (r *BookRepositoryImpl) DeleteBook(ctx context.Context, id string) (err error) {
	timestamp := time.Now().UnixMilli()

	res, err := r.db.ExecContext(ctx, "UPDATE books SET deleted_at=$1, updated_at=$1 WHERE id=$2 AND borrow_user_id IS NULL AND deleted_at IS NULL", timestamp, id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteBook").Msg("")
		return errs.ErrInternalServer
	}

	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteBook").Msg("")
		return errs.ErrInternalServer
	}

	if rows == 0 {
		return errs.ErrBookIsBorrowed
	}

	return
}

// BorrowBook marks the book unavailable and opens a borrow history row in one
// transaction. The update is conditional on no current borrower; zero affected
// rows means a concurrent request won the book.
func (r *BookRepositoryImpl) BorrowBook(ctx context.Context, bookID string, userID string) (err error) {
	timestamp := time.Now().UnixMilli()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
		return errs.ErrInternalServer
	}

	res, err := tx.ExecContext(ctx, "UPDATE books SET borrow_user_id=$1, status=$2, updated_at=$3 WHERE id=$4 AND borrow_user_id IS NULL AND deleted_at IS NULL", userID, domain.BookStatusNotAvailable, timestamp, bookID)
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	if rows == 0 {
		tx.Rollback()
		return errs.ErrBookBorrowedByAnother
	}

	history := domain.BorrowHistory{
		ID:           uuid.NewString(),
		BookID:       bookID,
		BorrowUserID: userID,
		BorrowDate:   timestamp,
		Status:       domain.BorrowStatusBorrowed,
		CreatedAt:    timestamp,
		UpdatedAt:    timestamp,
	}

	_, err = tx.NamedExecContext(ctx, "INSERT INTO borrow_histories(id, book_id, borrow_user_id, borrow_date, status, created_at, updated_at) VALUES (:id, :book_id, :borrow_user_id, :borrow_date, :status, :created_at, :updated_at)", history)
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	err = tx.Commit()
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
		return errs.ErrInternalServer
	}

	return
}

// ReturnBook clears the borrower and closes the matching history row in one
// transaction. Both updates are conditional so a concurrent return of the same
// record resolves to a domain error instead of a double write.
func (r *BookRepositoryImpl) ReturnBook(ctx context.Context, borrowID string, bookID string, userID string) (err error) {
	timestamp := time.Now().UnixMilli()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		return errs.ErrInternalServer
	}

	res, err := tx.ExecContext(ctx, "UPDATE books SET borrow_user_id=NULL, status=$1, updated_at=$2 WHERE id=$3 AND borrow_user_id=$4 AND deleted_at IS NULL", domain.BookStatusAvailable, timestamp, bookID, userID)
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	if rows == 0 {
		tx.Rollback()
		return errs.ErrNotTheBorrower
	}

	res, err = tx.ExecContext(ctx, "UPDATE borrow_histories SET return_date=$1, status=$2, updated_at=$1 WHERE id=$3 AND book_id=$4 AND borrow_user_id=$5 AND status=$6", timestamp, domain.BorrowStatusReturned, borrowID, bookID, userID, domain.BorrowStatusBorrowed)
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	rows, err = res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		tx.Rollback()
		return errs.ErrInternalServer
	}

	if rows == 0 {
		tx.Rollback()
		return errs.ErrBorrowAlreadyReturned
	}

	err = tx.Commit()
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
		return errs.ErrInternalServer
	}

	return
}
