package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bistro/internal/model"
	"bistro/internal/testutil"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ada%", containsPattern("ADA"))
	assert.Equal(t, "%50!%!_off!!%", containsPattern("50%_off!"))
}

func TestBookingRepository_SearchAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(testutil.SQLite(t))
	owner, other := uuid.New(), uuid.New()
	base := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	fixtures := []model.Booking{
		{Name: "Grace Hopper", Email: "grace@navy.example", Datetime: base.Add(2 * time.Hour), People: "2", UserID: owner},
		{Name: "Ada Lovelace", Email: "ada@engine.example", Datetime: base, People: "4", UserID: owner},
		{Name: "Percent Person", Email: "100%_real@example.com", Datetime: base.Add(time.Hour), People: "1", UserID: other},
	}
	for i := range fixtures {
		require.NoError(t, repo.Create(ctx, &fixtures[i]))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ada Lovelace", all[0].Name)
	assert.Equal(t, "Grace Hopper", all[2].Name)

	mine, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	found, err := repo.Search(ctx, "NAVY.EX")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Grace Hopper", found[0].Name)

	found, err = repo.Search(ctx, "%_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Percent Person", found[0].Name)

	found, err = repo.Search(ctx, "love")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, fixtures[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, fixtures[0].ID), gorm.ErrRecordNotFound)
}

func TestContactRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(testutil.SQLite(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := &model.Contact{Name: "Old", Email: "old@example.com", Subject: "s", Message: "m", CreatedAt: base}
	newer := &model.Contact{Name: "New", Email: "new@example.com", Subject: "s", Message: "m", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].Name)

	found, err := repo.Search(ctx, "OLD@")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, older.ID, found[0].ID)
}

func TestSearch_FoldsNonASCIINames(t *testing.T) {
	ctx := context.Background()
	gormDB := testutil.SQLite(t)
	contacts := NewContactRepository(gormDB)
	bookings := NewBookingRepository(gormDB)

	require.NoError(t, contacts.Create(ctx, &model.Contact{Name: "Émile Zola", Email: "zola@example.com", Subject: "s", Message: "m"}))
	require.NoError(t, bookings.Create(ctx, &model.Booking{
		Name: "Ørjan Şahin", Email: "orjan@example.com", Datetime: time.Now().UTC(), People: "2", UserID: uuid.New(),
	}))

	for _, query := range []string{"émile", "ÉMILE", "Zola"} {
		found, err := contacts.Search(ctx, query)
		require.NoError(t, err)
		assert.Len(t, found, 1, query)
	}

	for _, query := range []string{"ørjan", "ŞAHIN"} {
		found, err := bookings.Search(ctx, query)
		require.NoError(t, err)
		assert.Len(t, found, 1, query)
	}
}

func TestMenuRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository(testutil.SQLite(t))
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first := &model.MenuItem{Title: "Pancakes", ShortDescription: "Fluffy stack", Price: decimal.RequireFromString("7.50"),
		Type: model.MenuTypeBreakfast, ImagePath: "/uploads/a.png", CreatedBy: uuid.New(), CreatedAt: base}
	second := &model.MenuItem{Title: "Risotto", ShortDescription: "Saffron rice", Price: decimal.RequireFromString("14"),
		Type: model.MenuTypeDinner, ImagePath: "/uploads/b.png", CreatedBy: uuid.New(), CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Risotto", items[0].Title)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("7.5")))

	got.Title = "Buttermilk Pancakes"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buttermilk Pancakes", got.Title)

	paths, err := repo.ImagePaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/a.png", "/uploads/b.png"}, paths)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), gorm.ErrRecordNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.SQLite(t))

	user := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Error(t, repo.Create(ctx, &model.User{Name: "Dup", Email: "ada@example.com", PasswordHash: "hash"}))

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	require.NoError(t, repo.UpdateRole(ctx, user.ID, model.RoleAdmin))
	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsAdmin())

	assert.ErrorIs(t, repo.UpdateRole(ctx, uuid.New(), model.RoleAdmin), gorm.ErrRecordNotFound)
}
