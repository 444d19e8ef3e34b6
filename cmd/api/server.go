package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"homeledger/internal/api/handlers/categories"
	"homeledger/internal/api/handlers/households"
	"homeledger/internal/api/handlers/transactions"
	mw "homeledger/internal/api/middlewares"
	"homeledger/internal/api/routers"
	"homeledger/internal/config"
	householddir "homeledger/internal/households"
	"homeledger/internal/ledger"
	doc "homeledger/internal/repositories/docstore"
	"homeledger/internal/services"
	"homeledger/internal/split"
	cronjobs "homeledger/pkg/cron"
	"homeledger/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, reading configuration from environment")
	}

	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatal("invalid configuration: ", err)
	}

	var store doc.Store
	switch cfg.PersistenceDriver {
	case "mysql":
		store, err = doc.ConnectMySQL(cfg.DB.DSN())
		if err != nil {
			utils.Logger.Fatal("DB connection failed: ", err)
		}
	case "memory":
		store = doc.NewMemory()
		utils.Logger.Warn("using in-memory store, data is lost on restart")
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ledger.SeedDefaultCategories(seedCtx, store, cfg.CategorySeedPath, utils.Logger); err != nil {
		utils.Logger.Error("failed to seed default categories: ", err)
	}
	cancel()

	state := ledger.NewState()
	directory := householddir.NewDirectory(store)
	reconciler := split.NewReconciler(store, utils.Logger)
	repo := ledger.NewRepository(store, reconciler, directory, state, utils.Logger)
	notifier := services.NewNotifier(cfg.SMTPConfigured, utils.Logger)

	transactionsHandler := transactions.NewHandler(repo, directory, notifier, utils.Logger)
	categoriesHandler := categories.NewHandler(store, state, utils.Logger)
	householdsHandler := households.NewHandler(store, directory, state, notifier, cfg.InviteTokenTTL, cfg.InviteBaseURL, utils.Logger)

	scheduler := cronjobs.StartCronJob(store, directory, cfg.InviteBaseURL, cfg.SMTPConfigured)
	defer scheduler.Stop()

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	rl := mw.NewRateLimiter(cfg.RateLimitPerMinute)

	router := routers.MainRouter(transactionsHandler, categoriesHandler, householdsHandler)
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.NewJWTMiddleware(cfg.JWTSecret), "/health")

	secureMux := rl.Middleware(jwtMiddleware(mw.SecurityHeaders(router)))

	server := &http.Server{
		Addr:      cfg.Port,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", cfg.Port)
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	} else {
		utils.Logger.Warn("CERT_FILE/KEY_FILE not set, serving plain HTTP")
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}

}
