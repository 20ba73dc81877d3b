package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"go.uber.org/zap"

	"erasmus33/internal/app"
	"erasmus33/internal/config"
	"erasmus33/internal/database"
	"erasmus33/internal/domain"
	"erasmus33/internal/modules/auth"
	"erasmus33/internal/pkg/logger"
	"erasmus33/internal/repository"
)

var cities = []string{"Lisboa", "Porto", "Coimbra"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "erasmus33-seed")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zlog.Named("db"))
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}

	zlog.Info("running migrations")
	if err := app.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	// Children first so foreign keys hold.
	zlog.Info("cleaning old data")
	for _, table := range []string{"rooms", "houses", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			zlog.Fatal("cleanup failed", zap.String("table", table), zap.Error(err))
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	houses := repository.NewHouseRepository(db)
	rooms := repository.NewRoomRepository(db)

	// ================== USERS ==================
	createUser := func(email, password, first, last string, role domain.UserRole) *domain.User {
		hash, err := auth.HashPassword(password, cfg.BcryptCost)
		if err != nil {
			zlog.Fatal("hash password failed", zap.Error(err))
		}
		u := &domain.User{Email: email, PasswordHash: hash, Role: role}
		p := &domain.Profile{FirstName: first, LastName: last, Nationality: "PT"}
		if err := users.CreateWithProfile(ctx, u, p); err != nil {
			zlog.Fatal("create user failed", zap.String("email", email), zap.Error(err))
		}
		return u
	}

	admin := createUser("admin@erasmus33.pt", "admin123", "Admin", "Erasmus", domain.RoleAdmin)
	zlog.Info("admin created", zap.String("email", admin.Email))

	tenants := make([]*domain.User, 0, 6)
	for i := 1; i <= 6; i++ {
		tenants = append(tenants, createUser(
			fmt.Sprintf("tenant%d@test.com", i), "tenant123",
			fmt.Sprintf("Tenant%d", i), "Test", domain.RoleTenant,
		))
	}
	zlog.Info("tenants created", zap.Int("count", len(tenants)))

	// ================== HOUSES & ROOMS ==================
	var allRooms []*domain.Room
	for i := 1; i <= 3; i++ {
		h := &domain.House{
			HouseNumber: i,
			Street:      fmt.Sprintf("Rua Erasmus %d", 30+i),
			PostalCode:  fmt.Sprintf("1000-%03d", i),
			City:        cities[(i-1)%len(cities)],
			Description: "Shared student house close to the university",
			TotalRooms:  4,
		}
		if err := houses.Create(ctx, h); err != nil {
			zlog.Fatal("create house failed", zap.Int("house_number", i), zap.Error(err))
		}

		for n := 1; n <= h.TotalRooms; n++ {
			r := &domain.Room{
				HouseID:     h.ID,
				RoomNumber:  n,
				Price:       float64(250 + rand.Intn(8)*25),
				SizeSqm:     float64(9 + rand.Intn(8)),
				Description: fmt.Sprintf("Room %d of house %d", n, i),
				Available:   true,
			}
			if err := rooms.Create(ctx, r); err != nil {
				zlog.Fatal("create room failed", zap.Int("house_number", i), zap.Int("room_number", n), zap.Error(err))
			}
			allRooms = append(allRooms, r)
		}
	}
	zlog.Info("houses and rooms created", zap.Int("houses", 3), zap.Int("rooms", len(allRooms)))

	// ================== TENANCIES ==================
	perm := rand.Perm(len(allRooms))
	for i, tenant := range tenants[:4] {
		room := allRooms[perm[i]]
		if _, err := rooms.AssignTenant(ctx, room.ID, tenant.ID); err != nil {
			zlog.Fatal("assign tenant failed", zap.String("email", tenant.Email), zap.Error(err))
		}
		zlog.Debug("tenant assigned", zap.String("email", tenant.Email), zap.Int("house_number", room.HouseNumber), zap.Int("room_number", room.RoomNumber))
	}

	zlog.Info("seed completed",
		zap.String("admin", "admin@erasmus33.pt / admin123"),
		zap.String("tenants", "tenant1@test.com ... tenant6@test.com / tenant123"),
	)
}
