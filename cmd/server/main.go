package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"village-raiders/server/config"
	"village-raiders/server/handlers"
	"village-raiders/server/persistence"
	"village-raiders/server/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin during development
		return true
	},
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No config file at %s, using defaults", *configPath)
		cfg, err = config.Load("")
		*configPath = ""
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	log.Println("Persistence initialized successfully")

	settings, err := cfg.Generator.Settings()
	if err != nil {
		log.Fatalf("Invalid generator config: %v", err)
	}
	worldService, err := services.NewWorldService(db, settings)
	if err != nil {
		log.Fatalf("Failed to initialize world service: %v", err)
	}
	playerService := services.NewPlayerService(db)
	clientManager := handlers.NewClientManager()

	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			log.Printf("Config hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			go watcher.Reload(func(next *config.Config) {
				settings, err := next.Generator.Settings()
				if err != nil {
					log.Printf("Ignoring generator config: %v", err)
					return
				}
				if err := worldService.SetGeneratorConfig(settings); err != nil {
					log.Printf("Ignoring generator config: %v", err)
					return
				}
				log.Printf("Generator config reloaded (loot table %s)", settings.Config.Loot.Name)
				clientManager.BroadcastToAll(handlers.Announcement("The villages have changed. Regenerate to see the new layout."))
			}, func(err error) {
				log.Printf("Config reload failed: %v", err)
			})
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		handlers.HandleClientConnection(conn, playerService, worldService, clientManager)
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	clientManager.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

func openStorage(cfg config.StorageConfig) (persistence.Storage, error) {
	switch cfg.Type {
	case "postgres":
		log.Println("Using PostgreSQL persistence")
		return persistence.NewPostgresStore(cfg.DatabaseURL)
	case "json":
		log.Println("Using JSON persistence")
		return persistence.NewJSONStore(cfg.File)
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}
