package services_test

import (
	"sync"
	"testing"
	"time"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ratingFixture wires a RatingService onto in-memory repositories with one
// seeded store, so tests exercise the real upsert and recompute paths.
type ratingFixture struct {
	service    *services.RatingService
	ratingRepo *repositories.MockRatingRepository
	storeRepo  *repositories.MockStoreRepository
	storeID    string
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()

	userRepo := repositories.NewMockUserRepository()
	storeRepo := repositories.NewMockStoreRepository(userRepo)
	ratingRepo := repositories.NewMockRatingRepository()

	store := &models.Store{
		Name:    "Fixture Store",
		Email:   "store@example.com",
		Address: "1 Fixture Street",
	}
	require.NoError(t, storeRepo.Create(store))

	return &ratingFixture{
		service:    services.NewRatingService(ratingRepo, storeRepo, nil),
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		storeID:    store.ID,
	}
}

func TestRatingService_Submit_InvalidValue(t *testing.T) {
	f := newRatingFixture(t)

	for _, value := range []int{0, 6, -1, 100} {
		_, _, err := f.service.Submit("user-1", f.storeID, value)
		assert.ErrorIs(t, err, services.ErrInvalidRatingValue, "value %d", value)
	}

	// Nothing must have touched the ledger or the cache.
	count, _ := f.ratingRepo.Count()
	assert.Zero(t, count)
}

func TestRatingService_Submit_StoreNotFound(t *testing.T) {
	f := newRatingFixture(t)

	_, _, err := f.service.Submit("user-1", "no-such-store", 3)
	assert.ErrorIs(t, err, services.ErrStoreNotFound)
}

func TestRatingService_Submit_UpsertSequence(t *testing.T) {
	f := newRatingFixture(t)

	// N sequential submissions for the same (user, store) pair leave exactly
	// one row holding the last value.
	values := []int{3, 5, 1}
	for i, value := range values {
		rating, isUpdate, err := f.service.Submit("user-1", f.storeID, value)
		require.NoError(t, err)
		assert.Equal(t, value, rating.Value)
		assert.Equal(t, i > 0, isUpdate)
	}

	rows, err := f.ratingRepo.ListByStore(f.storeID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Value)

	store, err := f.storeRepo.GetByID(f.storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.TotalRatings)
	assert.Equal(t, 1.0, store.AverageRating)
}

func TestRatingService_AggregateExactness(t *testing.T) {
	f := newRatingFixture(t)

	for user, value := range map[string]int{"user-1": 5, "user-2": 4, "user-3": 3} {
		_, _, err := f.service.Submit(user, f.storeID, value)
		require.NoError(t, err)
	}

	store, err := f.storeRepo.GetByID(f.storeID)
	require.NoError(t, err)
	assert.Equal(t, 3, store.TotalRatings)
	assert.Equal(t, 4.0, store.AverageRating)
}

func TestRatingService_ConcurrentSubmits_DistinctUsers(t *testing.T) {
	f := newRatingFixture(t)

	// M concurrent submissions from M distinct users must converge to
	// totalRatings == M and the exact mean, with no lost updates.
	const m = 32
	var wg sync.WaitGroup
	for i := 0; i < m; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.service.Submit(uuid.New().String(), f.storeID, i%5+1)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := f.ratingRepo.ListByStore(f.storeID)
	require.NoError(t, err)
	require.Len(t, rows, m)

	sum := 0
	for _, row := range rows {
		sum += row.Value
	}

	store, err := f.storeRepo.GetByID(f.storeID)
	require.NoError(t, err)
	assert.Equal(t, m, store.TotalRatings)
	assert.InDelta(t, float64(sum)/float64(m), store.AverageRating, 1e-9)
}

func TestRatingService_ConcurrentSubmits_SameUser(t *testing.T) {
	f := newRatingFixture(t)

	// Concurrent submissions from one user must converge to a single row;
	// whichever write lands last wins on value.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.service.Submit("user-1", f.storeID, i%5+1)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := f.ratingRepo.ListByStore(f.storeID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	store, err := f.storeRepo.GetByID(f.storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.TotalRatings)
	assert.Equal(t, float64(rows[0].Value), store.AverageRating)
}

func TestRatingService_ListForUser(t *testing.T) {
	f := newRatingFixture(t)

	second := &models.Store{
		Name:    "Second Store",
		Email:   "second@example.com",
		Address: "2 Fixture Street",
	}
	require.NoError(t, f.storeRepo.Create(second))

	_, _, err := f.service.Submit("user-1", f.storeID, 4)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond) // distinct UpdatedAt ordering
	_, _, err = f.service.Submit("user-1", second.ID, 2)
	require.NoError(t, err)

	entries, err := f.service.ListForUser("user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recently updated first, each carrying a store summary.
	assert.Equal(t, second.ID, entries[0].Store.ID)
	assert.Equal(t, 2, entries[0].Rating.Value)
	assert.Equal(t, f.storeID, entries[1].Store.ID)
	assert.Equal(t, "Fixture Store", entries[1].Store.Name)

	// Re-submitting the oldest rating moves it to the front.
	time.Sleep(5 * time.Millisecond)
	_, _, err = f.service.Submit("user-1", f.storeID, 5)
	require.NoError(t, err)

	entries, err = f.service.ListForUser("user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, f.storeID, entries[0].Store.ID)
	assert.Equal(t, 5, entries[0].Rating.Value)
}
