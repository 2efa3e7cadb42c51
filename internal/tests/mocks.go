package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"rentndrive/internal/domain"
	"rentndrive/internal/gateway"
	"rentndrive/internal/redis"
	"rentndrive/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockCarRepository creates a new mock car repository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{
		cars: make(map[string]*domain.Car),
	}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car *domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
}

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Car
	for _, c := range m.cars {
		if c.OwnerID == ownerID {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockCarRepository) GetAll(ctx context.Context) ([]*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Car, 0, len(m.cars))
	for _, c := range m.cars {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockCarRepository) Update(ctx context.Context, car *domain.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cars[car.ID]; !ok {
		return repository.ErrNotFound
	}
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return repository.ErrNotFound
	}
	car.Status = status
	return nil
}

func (m *MockCarRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return repository.ErrNotFound
	}
	car.Approved = approved
	return nil
}

// GetCar returns the car by ID (for test assertions).
func (m *MockCarRepository) GetCar(id string) *domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cars[id]
}

func (m *MockCarRepository) snapshot() map[string]*domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Car, len(m.cars))
	for id, c := range m.cars {
		cp := *c
		snap[id] = &cp
	}
	return snap
}

func (m *MockCarRepository) restore(snap map[string]*domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars = snap
}

// ──────────────────────────────────────────────
// MOCK RESERVATION REPOSITORY
// ──────────────────────────────────────────────

// MockReservationRepository is a mock implementation of ReservationRepository.
type MockReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*domain.Reservation

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError           error
	UpdateError           error
	CountOverlappingError error

	// CarOwnerLookup resolves a car's owner for HasCompletedBetweenUsers.
	CarOwnerLookup func(carID string) (string, bool)
}

// NewMockReservationRepository creates a new mock reservation repository.
func NewMockReservationRepository() *MockReservationRepository {
	return &MockReservationRepository{
		reservations: make(map[string]*domain.Reservation),
	}
}

// AddReservation adds a reservation to the mock repository.
func (m *MockReservationRepository) AddReservation(r *domain.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
}

func (m *MockReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
	return nil
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockReservationRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockReservationRepository) GetByCar(ctx context.Context, carID string) ([]*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Reservation
	for _, r := range m.reservations {
		if r.CarID == carID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockReservationRepository) GetAll(ctx context.Context) ([]*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockReservationRepository) Update(ctx context.Context, r *domain.Reservation) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[r.ID]; !ok {
		return repository.ErrNotFound
	}
	m.reservations[r.ID] = r
	return nil
}

func (m *MockReservationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *MockReservationRepository) CountOverlapping(ctx context.Context, carID string, start, end time.Time, excludeID string) (int, error) {
	if m.CountOverlappingError != nil {
		return 0, m.CountOverlappingError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.reservations {
		if r.CarID != carID || r.ID == excludeID || r.Terminal() {
			continue
		}
		if r.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (m *MockReservationRepository) HasCompletedForUserAndCar(ctx context.Context, userID, carID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.UserID == userID && r.CarID == carID && r.Status == domain.ReservationStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReservationRepository) HasCompletedBetweenUsers(ctx context.Context, userA, userB string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.Status != domain.ReservationStatusCompleted || m.CarOwnerLookup == nil {
			continue
		}
		owner, ok := m.CarOwnerLookup(r.CarID)
		if !ok {
			continue
		}
		if (r.UserID == userA && owner == userB) || (r.UserID == userB && owner == userA) {
			return true, nil
		}
	}
	return false, nil
}

// GetReservation returns the reservation by ID (for test assertions).
func (m *MockReservationRepository) GetReservation(id string) *domain.Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reservations[id]
}

// CountReservations returns the number of reservations.
func (m *MockReservationRepository) CountReservations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reservations)
}

func (m *MockReservationRepository) snapshot() map[string]*domain.Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Reservation, len(m.reservations))
	for id, r := range m.reservations {
		cp := *r
		snap[id] = &cp
	}
	return snap
}

func (m *MockReservationRepository) restore(snap map[string]*domain.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = snap
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) GetByOrderRef(ctx context.Context, orderRef string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.OrderRef == orderRef {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetByCar(ctx context.Context, carID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.CarID == carID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) GetAll(ctx context.Context) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) MarkSuccess(ctx context.Context, orderRef, transactionID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.OrderRef == orderRef {
			p.Status = domain.PaymentStatusSuccess
			p.TransactionID = transactionID
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) HasSuccessful(ctx context.Context, reservationID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ReservationID == reservationID && p.Status == domain.PaymentStatusSuccess {
			return true, nil
		}
	}
	return false, nil
}

// GetPayment returns the payment by ID (for test assertions).
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockPaymentRepository) snapshot() map[string]*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Payment, len(m.payments))
	for id, p := range m.payments {
		cp := *p
		snap[id] = &cp
	}
	return snap
}

func (m *MockPaymentRepository) restore(snap map[string]*domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = snap
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]*domain.Review),
	}
}

func (m *MockReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[r.ID] = r
	return nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockReviewRepository) GetByReviewer(ctx context.Context, reviewerID string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Review
	for _, r := range m.reviews {
		if r.ReviewerID == reviewerID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockReviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// CountReviews returns the number of reviews.
func (m *MockReviewRepository) CountReviews() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reviews)
}

// ──────────────────────────────────────────────
// MOCK UNIT OF WORK
// ──────────────────────────────────────────────

// MockUnitOfWork runs the transactional closure against the shared mock
// repositories. When the closure fails, the repositories are restored to a
// snapshot taken before it ran, so partial writes never survive a failed
// transaction.
type MockUnitOfWork struct {
	Reservations *MockReservationRepository
	Cars         *MockCarRepository
	Payments     *MockPaymentRepository

	// Error injection
	DoError error

	// Counters
	DoCallCount int32
}

// NewMockUnitOfWork creates a unit of work over the given mock repositories.
func NewMockUnitOfWork(r *MockReservationRepository, c *MockCarRepository, p *MockPaymentRepository) *MockUnitOfWork {
	return &MockUnitOfWork{Reservations: r, Cars: c, Payments: p}
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	atomic.AddInt32(&m.DoCallCount, 1)
	if m.DoError != nil {
		return m.DoError
	}

	reservationSnap := m.Reservations.snapshot()
	carSnap := m.Cars.snapshot()
	paymentSnap := m.Payments.snapshot()

	err := fn(repository.TxRepos{
		Reservations: m.Reservations,
		Cars:         m.Cars,
		Payments:     m.Payments,
	})
	if err != nil {
		m.Reservations.restore(reservationSnap)
		m.Cars.restore(carSnap)
		m.Payments.restore(paymentSnap)
	}
	return err
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStore.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations []redis.CarLocation

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	UpdateLocationError error
	FindNearbyCarsError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make([]redis.CarLocation, 0),
	}
}

// AddCarLocation adds a car location to the mock store.
func (m *MockLocationStore) AddCarLocation(loc redis.CarLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, carID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.CarID == carID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.CarLocation{
		CarID: carID,
		Lat:   lat,
		Lng:   lng,
	})
	return nil
}

func (m *MockLocationStore) FindNearbyCars(ctx context.Context, lat, lng, radiusKm float64) ([]redis.CarLocation, error) {
	if m.FindNearbyCarsError != nil {
		return nil, m.FindNearbyCarsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return all locations (mock doesn't do real geo filtering).
	result := make([]redis.CarLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.CarID == carID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation checks if a car location exists.
func (m *MockLocationStore) HasLocation(carID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.CarID == carID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
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

func (m *MockLockStore) AcquireCarLock(ctx context.Context, carID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:car:" + carID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseCarLock(ctx context.Context, carID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:car:"+carID)
	return nil
}

// IsLocked checks if a car is locked (for test assertions).
func (m *MockLockStore) IsLocked(carID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:car:"+carID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu          sync.RWMutex
	cars        map[string]*redis.CachedCar
	suggestions map[string][]string

	// Counters
	InvalidateCarCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		cars:        make(map[string]*redis.CachedCar),
		suggestions: make(map[string][]string),
	}
}

func (m *MockCacheStore) GetCar(ctx context.Context, carID string) (*redis.CachedCar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[carID]
	if !ok {
		return nil, nil // Cache miss
	}
	copy := *car
	return &copy, nil
}

func (m *MockCacheStore) SetCar(ctx context.Context, car *redis.CachedCar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCacheStore) InvalidateCar(ctx context.Context, carID string) error {
	atomic.AddInt32(&m.InvalidateCarCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, carID)
	return nil
}

func (m *MockCacheStore) GetSuggestions(ctx context.Context, query string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.suggestions[query]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (m *MockCacheStore) SetSuggestions(ctx context.Context, query string, suggestions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[query] = suggestions
	return nil
}

// HasCachedCar checks if a car is cached (for test assertions).
func (m *MockCacheStore) HasCachedCar(carID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cars[carID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu       sync.Mutex
	payments map[string]*gateway.GatewayPayment

	// Counters
	CreateOrderCallCount  int32
	FetchPaymentCallCount int32

	// Error injection
	CreateOrderError error
	FetchError       error

	// FetchFailures makes the first N fetches fail before succeeding.
	FetchFailures int
}

// NewMockGateway creates a new mock payment gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		payments: make(map[string]*gateway.GatewayPayment),
	}
}

// AddPayment registers a gateway payment for FetchPayment.
func (m *MockGateway) AddPayment(p *gateway.GatewayPayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*gateway.Order, error) {
	atomic.AddInt32(&m.CreateOrderCallCount, 1)
	if m.CreateOrderError != nil {
		return nil, m.CreateOrderError
	}
	n := atomic.LoadInt32(&m.CreateOrderCallCount)
	return &gateway.Order{
		ID:       "order_mock_" + receipt + "_" + string(rune('0'+n%10)),
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (m *MockGateway) FetchPayment(ctx context.Context, paymentID string) (*gateway.GatewayPayment, error) {
	atomic.AddInt32(&m.FetchPaymentCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchFailures > 0 {
		m.FetchFailures--
		return nil, ErrMockTimeout
	}
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, ErrMockTimeout
	}
	copy := *p
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// MockMailer records sent mail for assertions.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail

	// Error injection
	SendError error
}

// SentMail captures one delivered email.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns all delivered mail.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]SentMail, len(m.sent))
	copy(result, m.sent)
	return result
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
