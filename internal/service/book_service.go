package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/infrastructure/cache"
	"github.com/fathoor/library-service/internal/repository"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/validation"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

const bookCacheNamespace = "books"

type BookService interface {
	GetBooks(ctx context.Context, filter pkgdto.Filter) (resp dto.BookListResponse, err error)
	GetBook(ctx context.Context, id string) (resp dto.BookResponse, err error)
	AddBook(ctx context.Context, payload dto.BookRequest) (resp dto.BookResponse, err error)
	UpdateBook(ctx context.Context, payload dto.BookRequest) (resp dto.BookResponse, err error)
	DeleteBook(ctx context.Context, id string) (err error)
	BorrowBook(ctx context.Context, user domain.User, payload dto.BorrowRequest) (err error)
	ReturnBook(ctx context.Context, user domain.User, payload dto.ReturnRequest) (err error)
	GetBorrowedList(ctx context.Context, userID string, filter pkgdto.Filter) (resp dto.BorrowHistoryListResponse, err error)
	GetBookwiseBorrowList(ctx context.Context, bookID string, filter pkgdto.Filter) (resp dto.BookwiseBorrowListResponse, err error)
}

type BookServiceImpl struct {
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
	listCache  *cache.Cache
	publisher  EventPublisher
}

func CreateNewBookService(bookRepo repository.BookRepository, borrowRepo repository.BorrowRepository, listCache *cache.Cache, publisher EventPublisher) BookService {
	return &BookServiceImpl{bookRepo: bookRepo, borrowRepo: borrowRepo, listCache: listCache, publisher: publisher}
}

// GetBooks serves the list view from the cache; entries live for the cache's
// fixed expiry and are dropped wholesale by every catalog write.
func (s *BookServiceImpl) GetBooks(ctx context.Context, filter pkgdto.Filter) (resp dto.BookListResponse, err error) {
	cacheKey := fmt.Sprintf("%d_%d_%x", filter.Page, filter.Limit, md5.Sum([]byte(filter.SearchTerm)))

	cached, err := s.listCache.Remember(bookCacheNamespace, cacheKey, func() (interface{}, error) {
		books, err := s.bookRepo.GetBooks(ctx, filter)
		if err != nil {
			return nil, err
		}

		total, err := s.bookRepo.CountBooks(ctx, filter)
		if err != nil {
			return nil, err
		}

		listResp := dto.BookListResponse{
			Books: make([]dto.BookResponse, 0, len(books)),
			Total: total,
		}
		for _, book := range books {
			listResp.Books = append(listResp.Books, toBookResponse(book))
		}

		return listResp, nil
	})
	if err != nil {
		return
	}

	resp, ok := cached.(dto.BookListResponse)
	if !ok {
		log.Error().Str("component", "GetBooks").Msg("unexpected cache entry type")
		return resp, errs.ErrInternalServer
	}

	return
}

func (s *BookServiceImpl) GetBook(ctx context.Context, id string) (resp dto.BookResponse, err error) {
	if uuid.Validate(id) != nil {
		return resp, errs.ErrBookNotFound
	}

	book, err := s.bookRepo.GetBookByID(ctx, id)
	if err != nil {
		return
	}

	if book.ID == "" {
		return resp, errs.ErrBookNotFound
	}

	return toBookResponse(book), nil
}

func (s *BookServiceImpl) AddBook(ctx context.Context, payload dto.BookRequest) (resp dto.BookResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	existing, err := s.bookRepo.GetBookByName(ctx, payload.Name, "")
	if err != nil {
		return
	}

	if existing.ID != "" {
		return resp, errs.ErrBookNameTaken
	}

	book := domain.Book{
		ID:      uuid.NewString(),
		Name:    payload.Name,
		Slug:    slug.Make(payload.Name),
		Details: payload.Details,
		Status:  domain.BookStatusAvailable,
	}

	if err = s.bookRepo.AddBook(ctx, book); err != nil {
		return
	}

	s.listCache.Forget(bookCacheNamespace)

	return toBookResponse(book), nil
}

func (s *BookServiceImpl) UpdateBook(ctx context.Context, payload dto.BookRequest) (resp dto.BookResponse, err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	if uuid.Validate(payload.ID) != nil {
		return resp, errs.ErrBookNotFound
	}

	book, err := s.bookRepo.GetBookByID(ctx, payload.ID)
	if err != nil {
		return
	}

	if book.ID == "" {
		return resp, errs.ErrBookNotFound
	}

	existing, err := s.bookRepo.GetBookByName(ctx, payload.Name, payload.ID)
	if err != nil {
		return
	}

	if existing.ID != "" {
		return resp, errs.ErrBookNameTaken
	}

	book.Name = payload.Name
	book.Slug = slug.Make(payload.Name)
	book.Details = payload.Details

	if err = s.bookRepo.UpdateBook(ctx, book); err != nil {
		return
	}

	s.listCache.Forget(bookCacheNamespace)

	return toBookResponse(book), nil
}

// DeleteBook soft-deletes; a book with a current borrower is refused.
func (s *BookServiceImpl) DeleteBook(ctx context.Context, id string) (err error) {
	if uuid.Validate(id) != nil {
		return errs.ErrBookNotFound
	}

	book, err := s.bookRepo.GetBookByID(ctx, id)
	if err != nil {
		return
	}

	if book.ID == "" {
		return errs.ErrBookNotFound
	}

	if book.BorrowUserID != nil {
		return errs.ErrBookIsBorrowed
	}

	if err = s.bookRepo.DeleteBook(ctx, id); err != nil {
		return
	}

	s.listCache.Forget(bookCacheNamespace)

	return
}

// BorrowBook runs the available -> borrowed transition. The repository update
// is conditional on the book having no borrower, so when two requests race the
// loser comes back with zero affected rows and the outcome is re-derived from
// the current borrower.
func (s *BookServiceImpl) BorrowBook(ctx context.Context, user domain.User, payload dto.BorrowRequest) (err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	if uuid.Validate(payload.BookID) != nil {
		return errs.ErrBookNotFound
	}

	book, err := s.bookRepo.GetBookByID(ctx, payload.BookID)
	if err != nil {
		return
	}

	if book.ID == "" {
		return errs.ErrBookNotFound
	}

	if book.BorrowUserID != nil {
		if *book.BorrowUserID == user.ID {
			return errs.ErrBookAlreadyBorrowedByYou
		}
		return errs.ErrBookBorrowedByAnother
	}

	err = s.bookRepo.BorrowBook(ctx, book.ID, user.ID)
	if err == errs.ErrBookBorrowedByAnother {
		current, checkErr := s.bookRepo.GetBookByID(ctx, payload.BookID)
		if checkErr == nil && current.BorrowUserID != nil && *current.BorrowUserID == user.ID {
			return errs.ErrBookAlreadyBorrowedByYou
		}
		return err
	}
	if err != nil {
		return
	}

	go s.publishBookBorrowedEvent(user, book)

	return
}

// publishBookBorrowedEvent runs out of band; a failed publish is logged and
// never surfaces to the borrow caller.
func (s *BookServiceImpl) publishBookBorrowedEvent(user domain.User, book domain.Book) {
	kafkaMsg := dto.KafkaMessage{
		EventType: "book_borrowed",
		Data: dto.BookBorrowedEvent{
			UserID:    user.ID,
			UserName:  user.Name,
			UserEmail: user.Email,
			BookID:    book.ID,
			BookName:  book.Name,
		},
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishBookBorrowedEvent").Msg("")
		return
	}

	if err := s.publisher.Publish(context.Background(), jsonMsg); err != nil {
		log.Error().Err(err).Str("component", "publishBookBorrowedEvent").Msg("")
	}
}

// ReturnBook runs the borrowed -> available transition against the borrow
// record named by the caller's (borrowID, bookID) pair.
func (s *BookServiceImpl) ReturnBook(ctx context.Context, user domain.User, payload dto.ReturnRequest) (err error) {
	if err = validation.ValidateStruct(payload); err != nil {
		return
	}

	if uuid.Validate(payload.BookID) != nil {
		return errs.ErrBookNotFound
	}

	if uuid.Validate(payload.BorrowID) != nil {
		return errs.ErrInvalidBorrowRecord
	}

	book, err := s.bookRepo.GetBookByID(ctx, payload.BookID)
	if err != nil {
		return
	}

	if book.ID == "" {
		return errs.ErrBookNotFound
	}

	if book.BorrowUserID == nil {
		return errs.ErrBookNotBorrowed
	}

	history, err := s.borrowRepo.GetBorrowHistory(ctx, payload.BorrowID, payload.BookID)
	if err != nil {
		return
	}

	if history.ID == "" {
		return errs.ErrInvalidBorrowRecord
	}

	if history.Status == domain.BorrowStatusReturned && history.ReturnDate != nil {
		return errs.ErrBorrowAlreadyReturned
	}

	if *book.BorrowUserID != user.ID {
		return errs.ErrNotTheBorrower
	}

	return s.bookRepo.ReturnBook(ctx, payload.BorrowID, payload.BookID, user.ID)
}

func (s *BookServiceImpl) GetBorrowedList(ctx context.Context, userID string, filter pkgdto.Filter) (resp dto.BorrowHistoryListResponse, err error) {
	histories, err := s.borrowRepo.GetBorrowedListByUser(ctx, userID, filter)
	if err != nil {
		return
	}

	total, err := s.borrowRepo.CountBorrowedListByUser(ctx, userID, filter)
	if err != nil {
		return
	}

	resp.BorrowingHistory = make([]dto.BorrowHistoryResponse, 0, len(histories))
	for _, history := range histories {
		entry := dto.BorrowHistoryResponse{
			ID:         history.ID,
			BorrowDate: history.BorrowDate,
			ReturnDate: history.ReturnDate,
			Status:     history.Status,
			UserID:     history.BorrowUserID,
			Book: dto.BorrowedBookSummary{
				ID: history.BookID,
			},
		}
		if history.BookName != nil {
			entry.Book.Title = *history.BookName
		}
		if history.BookDetails != nil {
			entry.Book.Details = *history.BookDetails
		}
		if history.BookStatus != nil {
			entry.Book.Status = *history.BookStatus
		}
		resp.BorrowingHistory = append(resp.BorrowingHistory, entry)
	}
	resp.Total = total

	return
}

func (s *BookServiceImpl) GetBookwiseBorrowList(ctx context.Context, bookID string, filter pkgdto.Filter) (resp dto.BookwiseBorrowListResponse, err error) {
	if uuid.Validate(bookID) != nil {
		return resp, errs.ErrBookNotFound
	}

	book, err := s.bookRepo.GetBookByID(ctx, bookID)
	if err != nil {
		return
	}

	if book.ID == "" {
		return resp, errs.ErrBookNotFound
	}

	histories, err := s.borrowRepo.GetBorrowersByBook(ctx, bookID, filter)
	if err != nil {
		return
	}

	total, err := s.borrowRepo.CountBorrowersByBook(ctx, bookID, filter)
	if err != nil {
		return
	}

	resp.BorrowingHistory = make([]dto.BookwiseBorrowResponse, 0, len(histories))
	for _, history := range histories {
		entry := dto.BookwiseBorrowResponse{
			ID:         history.ID,
			BookID:     history.BookID,
			BorrowDate: history.BorrowDate,
			ReturnDate: history.ReturnDate,
			Status:     history.Status,
			UserDetails: dto.BorrowerDetails{
				ID: history.BorrowUserID,
			},
		}
		if history.UserName != nil {
			entry.UserDetails.Name = *history.UserName
		}
		if history.UserEmail != nil {
			entry.UserDetails.Email = *history.UserEmail
		}
		resp.BorrowingHistory = append(resp.BorrowingHistory, entry)
	}
	resp.Total = total

	return
}

func toBookResponse(book domain.Book) dto.BookResponse {
	resp := dto.BookResponse{
		ID:      book.ID,
		Name:    book.Name,
		Slug:    book.Slug,
		Details: book.Details,
		Status:  book.Status,
	}

	if book.BorrowUserID != nil {
		borrower := &dto.BorrowerDetails{ID: *book.BorrowUserID}
		if book.BorrowerName != nil {
			borrower.Name = *book.BorrowerName
		}
		if book.BorrowerEmail != nil {
			borrower.Email = *book.BorrowerEmail
		}
		resp.BorrowerDetails = borrower
	}

	return resp
}
