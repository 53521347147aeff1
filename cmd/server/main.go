/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the storefront server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Optionally seed demo catalog and users
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port           HTTP server port (default: 8080)
  -db             SQLite database path (default: shop.db)
                  Use ":memory:" for an in-memory database
  -return-window  Return eligibility window (default: 3m)
  -seed           Seed demo products and users on startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and demo data
  ./server -db="./data/shop.db" -seed

  # Run with a one-hour return window
  ./server -return-window=1h

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/storefront/api"
	"github.com/warp/storefront/shop"
	"github.com/warp/storefront/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "shop.db", "SQLite database path")
	returnWindow := flag.Duration("return-window", shop.DefaultReturnWindow, "Return eligibility window")
	seed := flag.Bool("seed", false, "Seed demo products and users")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.Returns.Window = *returnWindow

	if *seed {
		if err := seedDemoData(context.Background(), store); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Seeded demo catalog and users")
	}

	// Router
	router := api.NewRouter(handler)

	addr := fmt.Sprintf(":%d", *port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		log.Printf("Storefront server listening on %s (db: %s, return window: %s)", addr, *dbPath, *returnWindow)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// seedDemoData installs a small demo catalog and two users. Existing
// rows with the same ids are left in place (users) or refreshed
// (products).
func seedDemoData(ctx context.Context, store shop.TxStore) error {
	now := time.Now().UTC()

	products := []shop.Product{
		{ID: "prod-keyboard", Title: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 8900, Stock: 25},
		{ID: "prod-mouse", Title: "Wireless Mouse", Description: "Low-latency 2.4GHz", Price: 4500, Stock: 40},
		{ID: "prod-mug", Title: "Enamel Mug", Description: "350ml, navy", Price: 1200, Stock: 100},
		{ID: "prod-poster", Title: "City Map Poster", Description: "A2 print", Price: 2500, Stock: 5},
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := store.SaveProduct(ctx, p); err != nil {
			return err
		}
	}

	users := []shop.User{
		{ID: "user-alice", Name: "Alice", Balance: shop.DefaultPurse},
		{ID: "user-bob", Name: "Bob", Balance: shop.DefaultPurse},
	}
	for _, u := range users {
		u.CreatedAt = now
		if _, err := store.GetUser(ctx, u.ID); err == nil {
			continue
		}
		if err := store.CreateUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
