package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"pintu/config"
	"pintu/controllers/callback/ors"
	"pintu/controllers/callback/sportsbook/sab"
	"pintu/database"
	"pintu/ledger"
	"pintu/routes"
	"pintu/services"
	"pintu/wallet"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	database.Connect()

	walletClient := wallet.NewClient(cfg.WalletAPIURL)
	results := services.NewBetResultClient(cfg.OddsAPIURL, cfg.OddsAPIKey)
	svc := ledger.New(database.DB, walletClient, results)

	app := fiber.New()
	routes.Setup(app, sab.New(svc), ors.New(svc))

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
