package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"erasmus33/internal/domain"
	"erasmus33/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	users    *UserRepository
	profiles *ProfileRepository
	houses   *HouseRepository
	rooms    *RoomRepository
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t, domain.Models()...)
	return fixture{
		db:       db,
		users:    NewUserRepository(db),
		profiles: NewProfileRepository(db),
		houses:   NewHouseRepository(db),
		rooms:    NewRoomRepository(db),
	}
}

func (f fixture) tenant(t *testing.T, email, first, last string) uuid.UUID {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", Role: domain.RoleTenant}
	require.NoError(t, f.users.CreateWithProfile(context.Background(), u, &domain.Profile{FirstName: first, LastName: last}))
	return u.ID
}

func (f fixture) house(t *testing.T, number int) *domain.House {
	t.Helper()
	h := &domain.House{HouseNumber: number, Street: "Rua Augusta", City: "Lisboa"}
	require.NoError(t, f.houses.Create(context.Background(), h))
	return h
}

func (f fixture) room(t *testing.T, houseID uuid.UUID, number int, price float64) *domain.Room {
	t.Helper()
	r := &domain.Room{HouseID: houseID, RoomNumber: number, Price: price, Available: true}
	require.NoError(t, f.rooms.Create(context.Background(), r))
	return r
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.tenant(t, "  Ana@Example.com ", "Ana", "Silva")

	u, err := f.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	p, err := f.profiles.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Equal(t, domain.RoleTenant, p.Role)
	assert.Nil(t, p.RoomID)

	err = f.users.CreateWithProfile(ctx, &domain.User{Email: "ana@example.com", PasswordHash: "y"}, &domain.Profile{})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfileRepository_ListSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.tenant(t, "ana@example.com", "Ana", "Silva")
	f.tenant(t, "bruno@example.com", "Bruno", "Costa")
	adminID := f.tenant(t, "admin@example.com", "Maria", "Admin")
	require.NoError(t, f.users.UpdateRole(ctx, adminID, domain.RoleAdmin))

	all, total, err := f.profiles.List(ctx, ProfileFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Maria", all[0].FirstName)

	found, total, err := f.profiles.List(ctx, ProfileFilter{Search: "SIL", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Ana", found[0].FirstName)

	admins, _, err := f.profiles.List(ctx, ProfileFilter{Role: domain.RoleAdmin, Limit: 10})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, domain.RoleAdmin, admins[0].Role)

	page, total, err := f.profiles.List(ctx, ProfileFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestProfileRepository_SetPictureAndDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.tenant(t, "ana@example.com", "Ana", "Silva")
	h := f.house(t, 1)
	r := f.room(t, h.ID, 1, 300)
	_, err := f.rooms.AssignTenant(ctx, r.ID, id)
	require.NoError(t, err)

	prev, err := f.profiles.SetPicture(ctx, id, "http://x/a.png")
	require.NoError(t, err)
	assert.Empty(t, prev)
	prev, err = f.profiles.SetPicture(ctx, id, "http://x/b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://x/a.png", prev)

	p, err := f.profiles.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p.RoomID)
	assert.Equal(t, r.ID, *p.RoomID)

	deleted, err := f.profiles.DeleteAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "http://x/b.png", deleted.ProfilePictureURL)

	room, err := f.rooms.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, room.TenantID)
	assert.True(t, room.Available)

	_, err = f.users.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = f.profiles.DeleteAccount(ctx, id)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestHouseRepository_UpdateSyncsRoomNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h := f.house(t, 7)
	other := f.house(t, 8)
	r := f.room(t, h.ID, 1, 250)
	assert.Equal(t, 7, r.HouseNumber)

	updated, err := f.houses.Update(ctx, h.ID, map[string]any{"house_number": 9, "city": "Porto"})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.HouseNumber)
	assert.Equal(t, "Porto", updated.City)
	assert.EqualValues(t, 1, updated.RoomCount)

	room, err := f.rooms.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, room.HouseNumber)

	_, err = f.houses.Update(ctx, h.ID, map[string]any{"house_number": other.HouseNumber})
	assert.ErrorIs(t, err, domain.ErrDuplicateHouseNumber)

	room, err = f.rooms.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, room.HouseNumber)

	_, err = f.houses.Update(ctx, uuid.New(), map[string]any{"city": "Faro"})
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
}

func TestHouseRepository_ListCountsRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h1 := f.house(t, 1)
	f.house(t, 2)
	f.room(t, h1.ID, 1, 100)
	f.room(t, h1.ID, 2, 200)

	houses, total, err := f.houses.List(ctx, HouseFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, houses, 2)
	assert.EqualValues(t, 2, houses[0].RoomCount)
	assert.EqualValues(t, 0, houses[1].RoomCount)
	assert.NotNil(t, houses[1].ImageURLs)

	_, total, err = f.houses.List(ctx, HouseFilter{City: "porto", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	withRooms, err := f.houses.GetByID(ctx, h1.ID, true)
	require.NoError(t, err)
	require.Len(t, withRooms.Rooms, 2)
	assert.Equal(t, 1, withRooms.Rooms[0].RoomNumber)
}

func TestHouseRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tenantID := f.tenant(t, "ana@example.com", "Ana", "Silva")
	h := f.house(t, 1)
	r := f.room(t, h.ID, 1, 100)
	_, err := f.houses.AppendImages(ctx, h.ID, []string{"h1"}, 0)
	require.NoError(t, err)
	_, err = f.rooms.AppendImages(ctx, r.ID, []string{"r1", "r2"}, 0)
	require.NoError(t, err)
	_, err = f.rooms.AssignTenant(ctx, r.ID, tenantID)
	require.NoError(t, err)

	houseImages, roomImages, err := f.houses.Delete(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, houseImages)
	assert.Equal(t, []string{"r1", "r2"}, roomImages)

	_, err = f.rooms.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, err = f.rooms.GetByTenant(ctx, tenantID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, _, err = f.houses.Delete(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
}

func TestHouseRepository_Images(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.house(t, 1)

	updated, err := f.houses.AppendImages(ctx, h.ID, []string{"a", "b"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, []string(updated.ImageURLs))

	_, err = f.houses.AppendImages(ctx, h.ID, []string{"c", "d"}, 3)
	assert.ErrorIs(t, err, domain.ErrImageLimitExceeded)

	count, err := f.houses.ImageCount(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	updated, err = f.houses.RemoveImage(ctx, h.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, []string(updated.ImageURLs))

	_, err = f.houses.RemoveImage(ctx, h.ID, "a")
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
	_, err = f.houses.AppendImages(ctx, uuid.New(), []string{"x"}, 3)
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)
}

func TestRoomRepository_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h1 := f.house(t, 1)
	h2 := f.house(t, 2)
	r := f.room(t, h1.ID, 1, 100)

	err := f.rooms.Create(ctx, &domain.Room{HouseID: h1.ID, RoomNumber: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateRoomNumber)
	err = f.rooms.Create(ctx, &domain.Room{HouseID: uuid.New(), RoomNumber: 1})
	assert.ErrorIs(t, err, domain.ErrHouseNotFound)

	moved, err := f.rooms.Update(ctx, r.ID, map[string]any{"house_id": h2.ID, "price": 150.0})
	require.NoError(t, err)
	assert.Equal(t, h2.ID, moved.HouseID)
	assert.Equal(t, 2, moved.HouseNumber)
	assert.Equal(t, 150.0, moved.Price)

	f.room(t, h1.ID, 1, 100)
	_, err = f.rooms.Update(ctx, r.ID, map[string]any{"house_id": h1.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateRoomNumber)

	_, err = f.rooms.Update(ctx, uuid.New(), map[string]any{"price": 1.0})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepository_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h1 := f.house(t, 1)
	h2 := f.house(t, 2)
	f.room(t, h1.ID, 1, 100)
	f.room(t, h1.ID, 2, 300)
	taken := f.room(t, h2.ID, 1, 200)
	tenantID := f.tenant(t, "ana@example.com", "Ana", "Silva")
	_, err := f.rooms.AssignTenant(ctx, taken.ID, tenantID)
	require.NoError(t, err)

	rooms, total, err := f.rooms.List(ctx, RoomFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, 1, rooms[0].HouseNumber)
	assert.Equal(t, 2, rooms[2].HouseNumber)

	available := true
	_, total, err = f.rooms.List(ctx, RoomFilter{Available: &available, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	minPrice, maxPrice := 150.0, 250.0
	rooms, total, err = f.rooms.List(ctx, RoomFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, taken.ID, rooms[0].ID)

	_, total, err = f.rooms.List(ctx, RoomFilter{HouseID: &h1.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRoomRepository_Tenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h := f.house(t, 1)
	r1 := f.room(t, h.ID, 1, 100)
	r2 := f.room(t, h.ID, 2, 100)
	ana := f.tenant(t, "ana@example.com", "Ana", "Silva")
	bruno := f.tenant(t, "bruno@example.com", "Bruno", "Costa")

	room, err := f.rooms.AssignTenant(ctx, r1.ID, ana)
	require.NoError(t, err)
	require.NotNil(t, room.TenantID)
	assert.Equal(t, ana, *room.TenantID)
	assert.False(t, room.Available)

	_, err = f.rooms.AssignTenant(ctx, r1.ID, bruno)
	assert.ErrorIs(t, err, domain.ErrRoomOccupied)
	_, err = f.rooms.AssignTenant(ctx, r2.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	// moving ana frees her first room
	_, err = f.rooms.AssignTenant(ctx, r2.ID, ana)
	require.NoError(t, err)
	first, err := f.rooms.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Nil(t, first.TenantID)
	assert.True(t, first.Available)

	mine, err := f.rooms.GetByTenant(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, r2.ID, mine.ID)

	_, err = f.rooms.Update(ctx, r2.ID, map[string]any{"available": true, "price": 150.0})
	assert.ErrorIs(t, err, domain.ErrRoomOccupied)
	still, err := f.rooms.GetByID(ctx, r2.ID)
	require.NoError(t, err)
	assert.False(t, still.Available)
	assert.Equal(t, 100.0, still.Price)

	vacated, err := f.rooms.VacateTenant(ctx, r2.ID)
	require.NoError(t, err)
	assert.Nil(t, vacated.TenantID)
	assert.True(t, vacated.Available)

	deleted, err := f.rooms.Delete(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, deleted.ID)
	_, err = f.rooms.Delete(ctx, r1.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestUserRepository_LastAdminGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.tenant(t, "a1@example.com", "Ana", "One")
	a2 := f.tenant(t, "a2@example.com", "Rui", "Two")
	require.NoError(t, f.users.UpdateRole(ctx, a1, domain.RoleAdmin))
	require.NoError(t, f.users.UpdateRole(ctx, a2, domain.RoleAdmin))

	// both admins try to step down at once; one must stay
	errs := make(chan error, 2)
	for _, id := range []uuid.UUID{a1, a2} {
		go func(id uuid.UUID) { errs <- f.users.UpdateRole(ctx, id, domain.RoleTenant) }(id)
	}
	var failed int
	for range 2 {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, domain.ErrLastAdmin)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	admins, err := f.users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)

	var last domain.User
	require.NoError(t, f.db.Where("role = ?", domain.RoleAdmin).Take(&last).Error)
	_, err = f.profiles.DeleteAccount(ctx, last.ID)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)
	assert.ErrorIs(t, f.users.UpdateRole(ctx, last.ID, domain.RoleTenant), domain.ErrLastAdmin)

	// promoting or re-saving an admin is never blocked
	assert.NoError(t, f.users.UpdateRole(ctx, last.ID, domain.RoleAdmin))
	assert.ErrorIs(t, f.users.UpdateRole(ctx, uuid.New(), domain.RoleTenant), domain.ErrUserNotFound)
}
