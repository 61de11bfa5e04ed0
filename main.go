package main

import (
	"log"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"pantrytrack/config"
	"pantrytrack/database"
	"pantrytrack/loader"
	"pantrytrack/model"
	"pantrytrack/render"
	"pantrytrack/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := loader.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	rnd, err := render.Load("static")
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	log.Println("HTML templates loaded and parsed.")

	sess := session.NewManager(cfg.SessionSecret, cfg.DefaultStaffID)

	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir("./static"))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		products, err := database.GetActiveProducts(dbConn, database.OrderUpdatedDesc)
		if err != nil {
			log.Printf("failed to list products for index: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		lowStockCount, err := database.CountLowStock(dbConn)
		if err != nil {
			log.Printf("failed to count low stock products: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		rnd.HTML(w, "index.html", struct {
			Products      []model.ProductView
			LowStockCount int
			Messages      []string
		}{products, lowStockCount, sess.Flashes(w, r)})
	})

	SetupRoutes(mux, dbConn, rnd, sess)

	log.Printf("Starting server on http://localhost%s", cfg.ListenAddr)

	if cfg.OpenBrowser {
		openBrowser("http://localhost" + cfg.ListenAddr)
	}

	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
