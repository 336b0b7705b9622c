package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PICKUP REPOSITORY
// ──────────────────────────────────────────────

// MockPickupRepository is a mock implementation of PickupRepository.
type MockPickupRepository struct {
	mu      sync.RWMutex
	pickups map[string]*domain.Pickup

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockPickupRepository creates a new mock pickup repository.
func NewMockPickupRepository() *MockPickupRepository {
	return &MockPickupRepository{
		pickups: make(map[string]*domain.Pickup),
	}
}

// AddPickup adds a pickup to the mock repository.
func (m *MockPickupRepository) AddPickup(pickup *domain.Pickup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pickups[pickup.ID] = pickup
}

func (m *MockPickupRepository) Create(ctx context.Context, pickup *domain.Pickup) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pickups[pickup.ID] = pickup
	return nil
}

func (m *MockPickupRepository) GetByID(ctx context.Context, id string) (*domain.Pickup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pickup, ok := m.pickups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *pickup
	return &copy, nil
}

func (m *MockPickupRepository) GetAll(ctx context.Context) ([]*domain.Pickup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Pickup, 0, len(m.pickups))
	for _, p := range m.pickups {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPickupRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Pickup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Pickup
	for _, p := range m.pickups {
		if p.CustomerID == customerID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPickupRepository) Update(ctx context.Context, pickup *domain.Pickup) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pickups[pickup.ID]; !ok {
		return repository.ErrNotFound
	}
	m.pickups[pickup.ID] = pickup
	return nil
}

// GetPickup returns the pickup by ID (for test assertions).
func (m *MockPickupRepository) GetPickup(id string) *domain.Pickup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pickups[id]
}

// CountPickups returns the number of pickups.
func (m *MockPickupRepository) CountPickups() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pickups)
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *customer
	return &copy, nil
}

func (m *MockCustomerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK PAYOUT REPOSITORY
// ──────────────────────────────────────────────

// MockPayoutRepository is a mock implementation of PayoutRepository.
type MockPayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]*domain.Payout

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error

	// AfterIdempotencyRead runs after a key lookup result is captured but
	// before it is returned. Tests use it to interleave a competing
	// settlement into the read window.
	AfterIdempotencyRead func()
}

// NewMockPayoutRepository creates a new mock payout repository.
func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{
		payouts: make(map[string]*domain.Payout),
	}
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Mirrors the unique index on idempotency_key.
	for _, p := range m.payouts {
		if p.IdempotencyKey == payout.IdempotencyKey {
			return repository.ErrDuplicate
		}
	}
	m.payouts[payout.ID] = payout
	return nil
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payout, ok := m.payouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payout
	return &copy, nil
}

func (m *MockPayoutRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payout, error) {
	m.mu.RLock()
	var found *domain.Payout
	for _, p := range m.payouts {
		if p.IdempotencyKey == key {
			copy := *p
			found = &copy
			break
		}
	}
	m.mu.RUnlock()
	if m.AfterIdempotencyRead != nil {
		m.AfterIdempotencyRead()
	}
	return found, nil // Nil result is not an error for the idempotency check.
}

func (m *MockPayoutRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payout
	for _, p := range m.payouts {
		if p.DriverID == driverID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPayoutRepository) UpdateStatus(ctx context.Context, id string, status domain.PayoutStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payout, ok := m.payouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	payout.Status = status
	return nil
}

// CountPayouts returns the number of payouts.
func (m *MockPayoutRepository) CountPayouts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payouts)
}

// GetPayoutByPickupID returns the payout for a pickup.
func (m *MockPayoutRepository) GetPayoutByPickupID(pickupID string) *domain.Payout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payouts {
		if p.PickupID == pickupID {
			return p
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK QUOTE STORE
// ──────────────────────────────────────────────

// MockQuoteStore is an in-memory implementation of QuoteStoreInterface.
type MockQuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote

	// Counters
	PutCallCount        int32
	InvalidateCallCount int32

	// Error injection
	PutError error
	GetError error
}

// NewMockQuoteStore creates a new mock quote store.
func NewMockQuoteStore() *MockQuoteStore {
	return &MockQuoteStore{
		quotes: make(map[string]*domain.Quote),
	}
}

func (m *MockQuoteStore) Put(ctx context.Context, quote *domain.Quote) error {
	atomic.AddInt32(&m.PutCallCount, 1)
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.ID] = quote
	return nil
}

func (m *MockQuoteStore) Get(ctx context.Context, quoteID string) (*domain.Quote, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	quote, ok := m.quotes[quoteID]
	if !ok {
		return nil, nil // Expired or never existed.
	}
	copy := *quote
	return &copy, nil
}

func (m *MockQuoteStore) Invalidate(ctx context.Context, quoteID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.quotes, quoteID)
	return nil
}

// HasQuote checks whether a quote is still cached.
func (m *MockQuoteStore) HasQuote(quoteID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.quotes[quoteID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquirePayoutLock(ctx context.Context, pickupID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:payout:" + pickupID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleasePayoutLock(ctx context.Context, pickupID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:payout:"+pickupID)
	return nil
}

// IsLocked checks if a pickup settlement is locked (for test assertions).
func (m *MockLockStore) IsLocked(pickupID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:payout:"+pickupID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK PAYOUT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payout gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	ShouldFail bool
	FailError  error

	// Counters
	TransferCallCount int32
}

// NewMockGateway creates a new mock payout gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Transfer(ctx context.Context, driverID string, amount float64) (bool, error) {
	atomic.AddInt32(&m.TransferCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailError != nil {
		return false, m.FailError
	}
	if m.ShouldFail {
		return false, nil
	}
	return true, nil
}

// SetFailure configures the gateway to fail.
func (m *MockGateway) SetFailure(shouldFail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldFail = shouldFail
	m.FailError = err
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
