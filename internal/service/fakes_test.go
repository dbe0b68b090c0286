package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fathoor/library-service/internal/domain"
	pkgdto "github.com/fathoor/library-service/pkg/dto"
	"github.com/fathoor/library-service/pkg/errs"
	"github.com/google/uuid"
)

// memoryStore backs the service tests with an in-memory copy of the lending
// state. Mutating methods take the same conditional-update shape as the SQL
// layer so racing callers observe the same zero-rows outcomes.
type memoryStore struct {
	mu        sync.Mutex
	books     map[string]domain.Book
	histories map[string]domain.BorrowHistory
	users     map[string]domain.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		books:     map[string]domain.Book{},
		histories: map[string]domain.BorrowHistory{},
		users:     map[string]domain.User{},
	}
}

func (s *memoryStore) addUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user
}

// matchesTerm mirrors the ILIKE '%term%' comparison over any of the columns.
func matchesTerm(term string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), strings.ToLower(term)) {
			return true
		}
	}

	return false
}

func (s *memoryStore) GetBookByID(ctx context.Context, id string) (data domain.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok || book.DeletedAt != nil {
		return data, nil
	}

	return book, nil
}

func (s *memoryStore) GetBookByName(ctx context.Context, name string, excludeID string) (data domain.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.DeletedAt == nil && book.Name == name && book.ID != excludeID {
			return book, nil
		}
	}

	return data, nil
}

func (s *memoryStore) GetBooks(ctx context.Context, filter pkgdto.Filter) (data []domain.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.DeletedAt != nil {
			continue
		}
		if filter.SearchTerm != "" && !matchesTerm(filter.SearchTerm, book.Name, book.Details) {
			continue
		}
		data = append(data, book)
	}

	sort.Slice(data, func(i, j int) bool { return data[i].Name < data[j].Name })

	if filter.Limit == 0 {
		return data, nil
	}

	offset := filter.Offset()
	if offset >= len(data) {
		return nil, nil
	}
	end := offset + filter.Limit
	if end > len(data) {
		end = len(data)
	}

	return data[offset:end], nil
}

func (s *memoryStore) CountBooks(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.DeletedAt != nil {
			continue
		}
		if filter.SearchTerm != "" && !matchesTerm(filter.SearchTerm, book.Name, book.Details) {
			continue
		}
		count++
	}

	return count, nil
}

func (s *memoryStore) AddBook(ctx context.Context, data domain.Book) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[data.ID] = data

	return nil
}

func (s *memoryStore) UpdateBook(ctx context.Context, data domain.Book) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.books[data.ID]; ok && existing.DeletedAt == nil {
		existing.Name = data.Name
		existing.Slug = data.Slug
		existing.Details = data.Details
		s.books[data.ID] = existing
	}

	return nil
}

func (s *memoryStore) DeleteBook(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok || book.DeletedAt != nil {
		return nil
	}
	if book.BorrowUserID != nil {
		return errs.ErrBookIsBorrowed
	}

	now := time.Now().UnixMilli()
	book.DeletedAt = &now
	s.books[id] = book

	return nil
}

func (s *memoryStore) BorrowBook(ctx context.Context, bookID string, userID string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]
	if !ok || book.DeletedAt != nil {
		return errs.ErrBookNotFound
	}
	if book.BorrowUserID != nil {
		return errs.ErrBookBorrowedByAnother
	}

	borrower := userID
	book.BorrowUserID = &borrower
	book.Status = domain.BookStatusNotAvailable
	s.books[bookID] = book

	history := domain.BorrowHistory{
		ID:           uuid.NewString(),
		BookID:       bookID,
		BorrowUserID: userID,
		BorrowDate:   time.Now().UnixMilli(),
		Status:       domain.BorrowStatusBorrowed,
	}
	s.histories[history.ID] = history

	return nil
}

func (s *memoryStore) ReturnBook(ctx context.Context, borrowID string, bookID string, userID string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]
	if !ok || book.BorrowUserID == nil || *book.BorrowUserID != userID {
		return errs.ErrNotTheBorrower
	}

	history, ok := s.histories[borrowID]
	if !ok || history.BookID != bookID || history.Status != domain.BorrowStatusBorrowed {
		return errs.ErrBorrowAlreadyReturned
	}

	book.BorrowUserID = nil
	book.Status = domain.BookStatusAvailable
	s.books[bookID] = book

	now := time.Now().UnixMilli()
	history.ReturnDate = &now
	history.Status = domain.BorrowStatusReturned
	s.histories[borrowID] = history

	return nil
}

func (s *memoryStore) GetBorrowHistory(ctx context.Context, borrowID string, bookID string) (data domain.BorrowHistory, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[borrowID]
	if !ok || history.BookID != bookID {
		return data, nil
	}

	return history, nil
}

func (s *memoryStore) GetBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, history := range s.histories {
		if history.BorrowUserID != userID {
			continue
		}
		book, ok := s.books[history.BookID]
		if !ok {
			continue
		}
		if filter.SearchTerm != "" && !matchesTerm(filter.SearchTerm, book.Name) {
			continue
		}
		name, details, status := book.Name, book.Details, book.Status
		history.BookName = &name
		history.BookDetails = &details
		history.BookStatus = &status
		data = append(data, history)
	}

	sort.Slice(data, func(i, j int) bool { return data[i].BorrowDate > data[j].BorrowDate })

	return data, nil
}

func (s *memoryStore) CountBorrowedListByUser(ctx context.Context, userID string, filter pkgdto.Filter) (count int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, history := range s.histories {
		if history.BorrowUserID != userID {
			continue
		}
		book, ok := s.books[history.BookID]
		if !ok {
			continue
		}
		if filter.SearchTerm != "" && !matchesTerm(filter.SearchTerm, book.Name) {
			continue
		}
		count++
	}

	return count, nil
}

func (s *memoryStore) GetBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (data []domain.BorrowHistory, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, history := range s.histories {
		if history.BookID != bookID {
			continue
		}
		user, ok := s.users[history.BorrowUserID]
		if filter.SearchTerm != "" && (!ok || !matchesTerm(filter.SearchTerm, user.Name, user.Email)) {
			continue
		}
		if ok {
			name, email := user.Name, user.Email
			history.UserName = &name
			history.UserEmail = &email
		}
		data = append(data, history)
	}

	sort.Slice(data, func(i, j int) bool { return data[i].BorrowDate > data[j].BorrowDate })

	return data, nil
}

func (s *memoryStore) CountBorrowersByBook(ctx context.Context, bookID string, filter pkgdto.Filter) (count int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, history := range s.histories {
		if history.BookID != bookID {
			continue
		}
		user, ok := s.users[history.BorrowUserID]
		if filter.SearchTerm != "" && (!ok || !matchesTerm(filter.SearchTerm, user.Name, user.Email)) {
			continue
		}
		count++
	}

	return count, nil
}

type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]domain.User{}}
}

func (r *memoryUserRepository) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && user.DeletedAt == nil {
			return user, nil
		}
	}

	return res, nil
}

func (r *memoryUserRepository) GetUserByID(ctx context.Context, id string) (data domain.User, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return data, nil
	}

	return user, nil
}

func (r *memoryUserRepository) AddUser(ctx context.Context, data domain.User) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[data.ID] = data

	return nil
}

func (r *memoryUserRepository) CountUsersByRoleID(ctx context.Context, roleID string) (count int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.RoleID == roleID && user.DeletedAt == nil {
			count++
		}
	}

	return count, nil
}

type memoryRoleRepository struct {
	mu          sync.Mutex
	roles       map[string]domain.Role
	permissions map[string][]string
}

func newMemoryRoleRepository() *memoryRoleRepository {
	return &memoryRoleRepository{
		roles:       map[string]domain.Role{},
		permissions: map[string][]string{},
	}
}

func (r *memoryRoleRepository) addRole(name string, slug string, permissionSlugs ...string) domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	role := domain.Role{ID: uuid.NewString(), Name: name, Slug: slug}
	r.roles[role.ID] = role
	r.permissions[role.ID] = permissionSlugs

	return role
}

func (r *memoryRoleRepository) GetRoleByID(ctx context.Context, id string) (data domain.Role, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.roles[id], nil
}

func (r *memoryRoleRepository) GetRoleBySlug(ctx context.Context, slug string) (data domain.Role, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range r.roles {
		if role.Slug == slug {
			return role, nil
		}
	}

	return data, nil
}

func (r *memoryRoleRepository) GetRoleByName(ctx context.Context, name string, excludeID string) (data domain.Role, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range r.roles {
		if role.Name == name && role.ID != excludeID {
			return role, nil
		}
	}

	return data, nil
}

func (r *memoryRoleRepository) GetRoles(ctx context.Context, filter pkgdto.Filter) (data []domain.Role, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range r.roles {
		data = append(data, role)
	}

	sort.Slice(data, func(i, j int) bool { return data[i].Name < data[j].Name })

	return data, nil
}

func (r *memoryRoleRepository) CountRoles(ctx context.Context) (count int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.roles)), nil
}

func (r *memoryRoleRepository) AddRole(ctx context.Context, data domain.Role) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roles[data.ID] = data

	return nil
}

func (r *memoryRoleRepository) UpdateRole(ctx context.Context, data domain.Role) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[data.ID]; ok {
		r.roles[data.ID] = data
	}

	return nil
}

func (r *memoryRoleRepository) DeleteRole(ctx context.Context, id string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roles, id)
	delete(r.permissions, id)

	return nil
}

func (r *memoryRoleRepository) RoleHasPermission(ctx context.Context, roleID string, permissionSlug string) (allowed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slug := range r.permissions[roleID] {
		if slug == permissionSlug {
			return true, nil
		}
	}

	return false, nil
}

type memoryTokenRepository struct {
	mu      sync.Mutex
	revoked map[string]int64
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{revoked: map[string]int64{}}
}

func (r *memoryTokenRepository) RevokeToken(ctx context.Context, tokenID string, expiresAt int64) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.revoked[tokenID]; !ok {
		r.revoked[tokenID] = expiresAt
	}

	return nil
}

func (r *memoryTokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (revoked bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, revoked = r.revoked[tokenID]

	return revoked, nil
}

func (r *memoryTokenRepository) DeleteExpiredTokens(ctx context.Context, now int64) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for tokenID, expiresAt := range r.revoked {
		if expiresAt < now {
			delete(r.revoked, tokenID)
		}
	}

	return nil
}

// capturingPublisher records published payloads and signals each one so tests
// can wait for the out-of-band borrow event.
type capturingPublisher struct {
	mu        sync.Mutex
	published [][]byte
	signal    chan struct{}
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{signal: make(chan struct{}, 16)}
}

func (p *capturingPublisher) Publish(ctx context.Context, msg []byte) error {
	p.mu.Lock()
	p.published = append(p.published, msg)
	p.mu.Unlock()

	p.signal <- struct{}{}

	return nil
}

func (p *capturingPublisher) wait(timeout time.Duration) bool {
	select {
	case <-p.signal:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *capturingPublisher) messages() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([][]byte{}, p.published...)
}
