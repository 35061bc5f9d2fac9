package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/lusakadev/soko-backend/internal/modules/auth"
	"github.com/lusakadev/soko-backend/internal/modules/collection"
	"github.com/lusakadev/soko-backend/internal/modules/credits"
	"github.com/lusakadev/soko-backend/internal/modules/order"
	"github.com/lusakadev/soko-backend/internal/modules/promotion"
	"github.com/lusakadev/soko-backend/internal/modules/store"
	"github.com/lusakadev/soko-backend/internal/modules/user"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	requireAuth := auth.RequireAuth(secret)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, secret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Stores & Products ───────────────────────────────────
	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo)
	store.NewHandler(storeService).RegisterRoutes(router, requireAuth)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	order.NewHandler(orderService).RegisterRoutes(router, requireAuth)

	// ── Credit Ledger ───────────────────────────────────────
	creditsRepo := credits.NewPostgresRepository(db)
	creditsService := credits.NewService(creditsRepo)
	credits.NewHandler(creditsService).RegisterRoutes(router, requireAuth)

	// ── Promotions ──────────────────────────────────────────
	promotionRepo := promotion.NewPostgresRepository(db)
	promotionService := promotion.NewService(promotionRepo)
	promotion.NewHandler(promotionService).RegisterRoutes(router, requireAuth)

	// ── Collections ─────────────────────────────────────────
	collectionRepo := collection.NewPostgresRepository(db)
	collectionService := collection.NewService(collectionRepo)
	collection.NewHandler(collectionService).RegisterRoutes(router, requireAuth)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Soko API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
