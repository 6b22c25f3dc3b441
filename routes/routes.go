package routes

import (
	"time"
	"trio/controllers/admin"
	"trio/controllers/game"
	"trio/controllers/payment"
	"trio/controllers/user"
	"trio/middlewares"
	"trio/services"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, engine *services.Engine) {
	game.Use(engine)
	admin.Use(engine)
	payment.Use(engine)

	app.Post("/user/register", user.RegisterUser)

	userroutes := app.Group("/user", middlewares.PlayerAuth)
	userroutes.Post("/balance", user.CheckUserBalance)
	userroutes.Post("/history", user.LedgerHistory)

	gameroutes := app.Group("/game", middlewares.RateLimit(30, time.Minute), middlewares.PlayerAuth)
	gameroutes.Post("/join", game.JoinMatch)
	gameroutes.Post("/choose", game.SubmitChoice)
	gameroutes.Post("/info", game.MatchInfo)

	adminroutes := app.Group("/admin", middlewares.AdminAuth())
	adminroutes.Post("/cancel", admin.CancelMatch)
	adminroutes.Post("/adjust", admin.AdjustBalance)

	payroutes := app.Group("/payment", middlewares.RateLimit(10, time.Minute))
	payroutes.Post("/deposit", middlewares.PlayerAuth, payment.InitiateDeposit)
	payroutes.Post("/withdraw", middlewares.PlayerAuth, payment.InitiateWithdrawal)
	payroutes.Post("/callback", payment.GatewayCallback)
}
