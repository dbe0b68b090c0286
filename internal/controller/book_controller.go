package controller

import (
	"github.com/fathoor/library-service/internal/domain"
	"github.com/fathoor/library-service/internal/dto"
	"github.com/fathoor/library-service/internal/middleware"
	"github.com/fathoor/library-service/internal/service"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type BookController struct {
	service service.BookService
}

func CreateBookController(e *echo.Group, service service.BookService, authorizer service.Authorizer, isLoggedIn echo.MiddlewareFunc) {
	bc := BookController{
		service: service,
	}
	e.GET("/books", bc.GetBooks, isLoggedIn, middleware.RequirePermission(authorizer, "view-book"))
	e.GET("/books/:id", bc.GetBook, isLoggedIn, middleware.RequirePermission(authorizer, "view-book"))
	e.POST("/books", bc.AddBook, isLoggedIn, middleware.RequirePermission(authorizer, "create-book"))
	e.PUT("/books/:id", bc.UpdateBook, isLoggedIn, middleware.RequirePermission(authorizer, "edit-book"))
	e.DELETE("/books/:id", bc.DeleteBook, isLoggedIn, middleware.RequirePermission(authorizer, "delete-book"))

	e.POST("/borrow-book", bc.BorrowBook, isLoggedIn, middleware.RequirePermission(authorizer, "borrow-book"))
	e.POST("/return-book", bc.ReturnBook, isLoggedIn, middleware.RequirePermission(authorizer, "return-book"))
	e.GET("/get-borrowed-list", bc.GetBorrowedList, isLoggedIn, middleware.RequirePermission(authorizer, "borrow-book"))
	e.GET("/get-bookwise-borrow-list/:bookId", bc.GetBookwiseBorrowList, isLoggedIn, middleware.RequirePermission(authorizer, "create-book"))
}

func (bc *BookController) GetBooks(e echo.Context) error {
	filter := pkgdto.ParseFilter(e)

	resp, err := bc.service.GetBooks(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Books retrieved successfully", resp)
}

func (bc *BookController) GetBook(e echo.Context) error {
	resp, err := bc.service.GetBook(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book details fetched successfully", resp)
}

func (bc *BookController) AddBook(e echo.Context) error {
	payload := dto.BookRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddBook").Msg("")
	}

	resp, err := bc.service.AddBook(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book added successfully", resp)
}

func (bc *BookController) UpdateBook(e echo.Context) error {
	payload := dto.BookRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateBook").Msg("")
	}

	payload.ID = e.Param("id")
	resp, err := bc.service.UpdateBook(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book details updated successfully", resp)
}

func (bc *BookController) DeleteBook(e echo.Context) error {
	err := bc.service.DeleteBook(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book deleted successfully", nil)
}

func (bc *BookController) BorrowBook(e echo.Context) error {
	user, ok := e.Get(middleware.ContextKeyUser).(domain.User)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	payload := dto.BorrowRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "BorrowBook").Msg("")
	}

	err = bc.service.BorrowBook(e.Request().Context(), user, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book borrowed successfully", nil)
}

func (bc *BookController) ReturnBook(e echo.Context) error {
	user, ok := e.Get(middleware.ContextKeyUser).(domain.User)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	payload := dto.ReturnRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ReturnBook").Msg("")
	}

	err = bc.service.ReturnBook(e.Request().Context(), user, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Book returned successfully", nil)
}

func (bc *BookController) GetBorrowedList(e echo.Context) error {
	user, ok := e.Get(middleware.ContextKeyUser).(domain.User)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrInvalidToken)
	}

	filter := pkgdto.ParseFilter(e)

	resp, err := bc.service.GetBorrowedList(e.Request().Context(), user.ID, filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Borrowed books retrieved successfully", resp)
}

func (bc *BookController) GetBookwiseBorrowList(e echo.Context) error {
	filter := pkgdto.ParseFilter(e)

	resp, err := bc.service.GetBookwiseBorrowList(e.Request().Context(), e.Param("bookId"), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "Borrow details retrieved successfully", resp)
}
