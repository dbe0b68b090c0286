package repository

import (
	"context"
	"database/sql"

	"github.com/fathoor/library-service/internal/domain"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type BorrowRepository interface {
	GetBorrowHistory(ctx context.Context, borrowID string, bookID string) (data domain.BorrowHistory, err error)
	GetBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error)
	CountBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (count int64, err error)
	GetBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error)
	CountBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (count int64, err error)
}

type BorrowRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewBorrowRepository(db *sqlx.DB) BorrowRepository {
	return &BorrowRepositoryImpl{db: db}
}

func (r *BorrowRepositoryImpl) GetBorrowHistory(ctx context.Context, borrowID string, bookID string) (data domain.BorrowHistory, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM borrow_histories WHERE id = $1 AND book_id = $2", borrowID, bookID)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetBorrowHistory").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *BorrowRepositoryImpl) GetBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error) {
	query := "SELECT borrow_histories.*, books.name AS book_name, books.details AS book_details, books.status AS book_status FROM borrow_histories JOIN books ON books.id = borrow_histories.book_id WHERE borrow_histories.borrow_user_id = :user_id"

	args := map[string]interface{}{"user_id": userID}

	if filter.SearchTerm != "" {
		query += " AND books.name ILIKE :search_term"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	query += " ORDER BY borrow_histories.borrow_date DESC"

	if filter.Limit != 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBorrowedListByUser").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBorrowedListByUser").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *BorrowRepositoryImpl) CountBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(borrow_histories.id) FROM borrow_histories JOIN books ON books.id = borrow_histories.book_id WHERE borrow_histories.borrow_user_id = :user_id"

	args := map[string]interface{}{"user_id": userID}

	if filter.SearchTerm != "" {
		query += " AND books.name ILIKE :search_term"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBorrowedListByUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBorrowedListByUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *BorrowRepositoryImpl) GetBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error) {
	query := "SELECT borrow_histories.*, users.name AS user_name, users.email AS user_email FROM borrow_histories JOIN users ON users.id = borrow_histories.borrow_user_id WHERE borrow_histories.book_id = :book_id"

	args := map[string]interface{}{"book_id": bookID}

	if filter.SearchTerm != "" {
		query += " AND (users.name ILIKE :search_term OR users.email ILIKE :search_term)"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	query += " ORDER BY borrow_histories.borrow_date DESC"

	if filter.Limit != 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBorrowersByBook").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBorrowersByBook").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *BorrowRepositoryImpl) CountBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(borrow_histories.id) FROM borrow_histories JOIN users ON users.id = borrow_histories.borrow_user_id WHERE borrow_histories.book_id = :book_id"

	args := map[string]interface{}{"book_id": bookID}

	if filter.SearchTerm != "" {
		query += " AND (users.name ILIKE :search_term OR users.email ILIKE :search_term)"
		args["search_term"] = "%" + filter.SearchTerm + "%"
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBorrowersByBook").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountBorrowersByBook").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}
