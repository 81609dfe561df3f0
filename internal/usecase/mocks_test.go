package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// MockItemCollection is a mock implementation of domain.ItemCollection
type MockItemCollection struct {
	mutex sync.Mutex
	items []domain.Item

	listError     error
	createError   error
	updateError   error
	deleteError   error
	favoriteError error

	// favoriteGates, when set, holds each SetFavorite call for the requested
	// value until an error (or nil) is sent on the matching channel
	favoriteGates map[bool]chan error

	listCalls     int
	created       []domain.CreateItemRequest
	favoriteCalls []bool
}

func NewMockItemCollection(items ...domain.Item) *MockItemCollection {
	return &MockItemCollection{items: items}
}

func (m *MockItemCollection) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	items := make([]domain.Item, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *MockItemCollection) CreateItem(ctx context.Context, req domain.CreateItemRequest) (*domain.Item, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.created = append(m.created, req)
	if m.createError != nil {
		return nil, m.createError
	}
	item := domain.Item{
		ID:         "item-" + req.Name,
		Name:       req.Name,
		Storage:    req.Storage,
		ExpiryDate: req.ExpiryDate,
	}
	m.items = append(m.items, item)
	return &item, nil
}

func (m *MockItemCollection) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) (*domain.Item, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.updateError != nil {
		return nil, m.updateError
	}
	for i := range m.items {
		if m.items[i].ID == id {
			if req.Name != nil {
				m.items[i].Name = *req.Name
			}
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *MockItemCollection) DeleteItem(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.deleteError != nil {
		return m.deleteError
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *MockItemCollection) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Item, error) {
	m.mutex.Lock()
	m.favoriteCalls = append(m.favoriteCalls, favorite)
	gate := m.favoriteGates[favorite]
	m.mutex.Unlock()

	if gate != nil {
		if err := <-gate; err != nil {
			return nil, err
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.favoriteError != nil {
		return nil, m.favoriteError
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Favorite = favorite
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *MockItemCollection) FavoriteCalls() []bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]bool(nil), m.favoriteCalls...)
}

// MockOCRClient is a mock implementation of domain.OCRClient
type MockOCRClient struct {
	scan  *domain.OCRScan
	err   error
	calls int

	// started and release, when set, hold the upload until the test lets it finish
	started chan struct{}
	release chan struct{}
}

func (m *MockOCRClient) UploadImage(ctx context.Context, filename string, image []byte) (*domain.OCRScan, error) {
	m.calls++
	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	scan := *m.scan
	scan.Filename = filename
	return &scan, nil
}

// MockRecognizer is a mock implementation of domain.TextRecognizer
type MockRecognizer struct {
	text  string
	err   error
	calls int
}

func (m *MockRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockScanCache is a mock implementation of domain.ScanCache
type MockScanCache struct {
	data      map[string]*domain.OCRScan
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockScanCache() *MockScanCache {
	return &MockScanCache{
		data: make(map[string]*domain.OCRScan),
	}
}

func (m *MockScanCache) Get(ctx context.Context, key string) (*domain.OCRScan, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if scan, ok := m.data[key]; ok {
		return scan, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockScanCache) Set(ctx context.Context, key string, scan *domain.OCRScan, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = scan
	return nil
}

func (m *MockScanCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockScanCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	users       map[string]*domain.User
	createError error
	lookupError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	for _, user := range m.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	if user, ok := m.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTokenIssuer is a mock implementation of domain.TokenIssuer.
// Tokens are "token:" followed by the user id.
type MockTokenIssuer struct {
	issueError error
}

func (m *MockTokenIssuer) Issue(userID string) (string, error) {
	if m.issueError != nil {
		return "", m.issueError
	}
	return "token:" + userID, nil
}

func (m *MockTokenIssuer) Verify(token string) (string, error) {
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", domain.ErrInvalidToken
	}
	return token[len(prefix):], nil
}

// MockItemRepository is a mock implementation of domain.ItemRepository
type MockItemRepository struct {
	items       []*domain.StoredItem
	createError error
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{}
}

func (m *MockItemRepository) ListByUser(ctx context.Context, userID string) ([]domain.StoredItem, error) {
	items := []domain.StoredItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *MockItemRepository) GetByID(ctx context.Context, userID, id string) (*domain.StoredItem, error) {
	for _, item := range m.items {
		if item.ID == id && item.UserID == userID {
			found := *item
			return &found, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *MockItemRepository) Create(ctx context.Context, item *domain.StoredItem) error {
	if m.createError != nil {
		return m.createError
	}
	stored := *item
	m.items = append(m.items, &stored)
	return nil
}

func (m *MockItemRepository) Update(ctx context.Context, item *domain.StoredItem) error {
	for i, existing := range m.items {
		if existing.ID == item.ID && existing.UserID == item.UserID {
			updated := *item
			m.items[i] = &updated
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *MockItemRepository) Delete(ctx context.Context, userID, id string) error {
	for i, existing := range m.items {
		if existing.ID == id && existing.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}
