package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/logger"
	"planner/internal/models/task"
	"planner/internal/repository"
	"planner/internal/repository/task/sqlite"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner-test.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	deadline := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	created := &task.Task{
		Title:       "Write quarterly summary",
		Description: "for the March review",
		Date:        strPtr("2024-03-10"),
		TimeHours:   2.5,
		Priority:    task.PriorityHigh,
		Category:    "#9B84EE",
		Deadline:    &deadline,
	}
	err := store.Create(ctx, created)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write quarterly summary", got.Title)
	assert.Equal(t, "for the March review", got.Description)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-03-10", *got.Date)
	assert.Equal(t, 2.5, got.TimeHours)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "#9B84EE", got.Category)
	require.NotNil(t, got.Deadline)
	assert.True(t, got.Deadline.Equal(deadline))
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestStorage_IDsAreUniqueAndStable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		created := &task.Task{Title: "task", Priority: task.PriorityMedium, Category: task.DefaultCategory}
		require.NoError(t, store.Create(ctx, created))
		assert.False(t, seen[created.ID], "id %d reused", created.ID)
		seen[created.ID] = true
	}

	// ids are never reused even after a delete
	var lastID int64
	for id := range seen {
		if id > lastID {
			lastID = id
		}
	}
	require.NoError(t, store.Delete(ctx, lastID))
	created := &task.Task{Title: "after delete", Priority: task.PriorityMedium, Category: task.DefaultCategory}
	require.NoError(t, store.Create(ctx, created))
	assert.Greater(t, created.ID, lastID)
}

func TestStorage_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStorage_List_CanonicalOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a := &task.Task{Title: "A", Date: strPtr("2024-01-02"), Position: 0, Priority: task.PriorityMedium, Category: task.DefaultCategory}
	b := &task.Task{Title: "B", Date: strPtr("2024-01-01"), Position: 5, Priority: task.PriorityMedium, Category: task.DefaultCategory}
	c := &task.Task{Title: "C", Position: 0, Priority: task.PriorityMedium, Category: task.DefaultCategory}
	for _, tk := range []*task.Task{a, b, c} {
		require.NoError(t, store.Create(ctx, tk))
	}

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// unscheduled first, then by date
	assert.Equal(t, "C", tasks[0].Title)
	assert.Equal(t, "B", tasks[1].Title)
	assert.Equal(t, "A", tasks[2].Title)
}

func TestStorage_List_PositionBreaksTies(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	second := &task.Task{Title: "second", Date: strPtr("2024-01-01"), Position: 2, Priority: task.PriorityMedium, Category: task.DefaultCategory}
	first := &task.Task{Title: "first", Date: strPtr("2024-01-01"), Position: 1, Priority: task.PriorityMedium, Category: task.DefaultCategory}
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, first))

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestStorage_ListRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inRange := &task.Task{Title: "in range", Date: strPtr("2024-01-15"), Priority: task.PriorityMedium, Category: task.DefaultCategory}
	before := &task.Task{Title: "before", Date: strPtr("2023-12-31"), Priority: task.PriorityMedium, Category: task.DefaultCategory}
	after := &task.Task{Title: "after", Date: strPtr("2024-02-01"), Priority: task.PriorityMedium, Category: task.DefaultCategory}
	pool := &task.Task{Title: "pool", Priority: task.PriorityMedium, Category: task.DefaultCategory}
	boundary := &task.Task{Title: "boundary", Date: strPtr("2024-01-31"), Priority: task.PriorityMedium, Category: task.DefaultCategory}
	for _, tk := range []*task.Task{inRange, before, after, pool, boundary} {
		require.NoError(t, store.Create(ctx, tk))
	}

	tasks, err := store.ListRange(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "in range", tasks[0].Title)
	assert.Equal(t, "boundary", tasks[1].Title)
}

func TestStorage_Update_PartialPatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := &task.Task{
		Title:       "original",
		Description: "keep me",
		Date:        strPtr("2024-03-01"),
		TimeHours:   1,
		Priority:    task.PriorityLow,
		Category:    task.DefaultCategory,
	}
	require.NoError(t, store.Create(ctx, created))

	updated, err := store.Update(ctx, created.ID, task.Patch{Title: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	require.NotNil(t, updated.Date)
	assert.Equal(t, "2024-03-01", *updated.Date)
	assert.Equal(t, task.PriorityLow, updated.Priority)
}

func TestStorage_Update_CompletionStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := &task.Task{Title: "finish me", Priority: task.PriorityMedium, Category: task.DefaultCategory}
	require.NoError(t, store.Create(ctx, created))

	updated, err := store.Update(ctx, created.ID, task.Patch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *updated.CompletedAt, 5*time.Second)

	// un-completing clears the stamp
	updated, err = store.Update(ctx, created.ID, task.Patch{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedAt)
}

func TestStorage_Update_ClearsDateAndDeadline(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	deadline := time.Now().Add(24 * time.Hour).UTC()
	created := &task.Task{
		Title:    "scheduled",
		Date:     strPtr("2024-03-01"),
		Deadline: &deadline,
		Priority: task.PriorityMedium,
		Category: task.DefaultCategory,
	}
	require.NoError(t, store.Create(ctx, created))

	// dragging back to the pool sends explicit nulls
	updated, err := store.Update(ctx, created.ID, task.Patch{DateSet: true, DeadlineSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Date)
	assert.Nil(t, updated.Deadline)
}

func TestStorage_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Update(ctx, 42, task.Patch{Title: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// an empty patch on a missing id still reports not found
	_, err = store.Update(ctx, 42, task.Patch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := &task.Task{Title: "short lived", Priority: task.PriorityMedium, Category: task.DefaultCategory}
	require.NoError(t, store.Create(ctx, created))

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err := store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "planner-test.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)

	created := &task.Task{Title: "durable", Priority: task.PriorityMedium, Category: task.DefaultCategory}
	require.NoError(t, store.Create(ctx, created))
	require.NoError(t, store.Close())

	// reopening runs the schema and additive migration again; both must
	// be idempotent
	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Title)
}
