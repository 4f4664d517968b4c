package routes

import (
	"github.com/gofiber/fiber/v2"

	"pintu/controllers/callback/ors"
	"pintu/controllers/callback/sportsbook/sab"
	"pintu/middlewares"
)

func Setup(app *fiber.App, sabHandler *sab.Handler, orsHandler *ors.Handler) {
	//sab
	sabRoutes := app.Group("/seamless/sportsbook/sab", middlewares.SabAuth())
	sabRoutes.Post("/getbalance", sabHandler.GetBalance)
	sabRoutes.Post("/placebet", sabHandler.PlaceBet)
	sabRoutes.Post("/placebetparlay", sabHandler.PlaceBetParlay)
	sabRoutes.Post("/confirmbet", sabHandler.ConfirmBet)
	sabRoutes.Post("/cancelbet", sabHandler.CancelBet)
	sabRoutes.Post("/settle", sabHandler.Settle)
	sabRoutes.Post("/resettle", sabHandler.Resettle)
	sabRoutes.Post("/unsettle", sabHandler.Unsettle)
	sabRoutes.Post("/adjustbalance", sabHandler.AdjustBalance)

	//ors
	orsRoutes := app.Group("/seamless/ors", middlewares.OrsAuth())
	orsRoutes.Post("/authenticate", orsHandler.Authenticate)
	orsRoutes.Get("/balance", orsHandler.Balance)
	orsRoutes.Post("/balance", orsHandler.Balance)
	orsRoutes.Post("/credit", orsHandler.Credit)
	orsRoutes.Post("/bulk/debit", orsHandler.BulkDebit)
}
