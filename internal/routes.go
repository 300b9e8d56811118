package internal

import (
	"net/http"

	"pagebot/internal/controllers"
	"pagebot/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/api/detailed-stats", http.HandlerFunc(apiController.GetDetailedStats))
	routers.Get("/api/stats/chart", http.HandlerFunc(apiController.GetStatsChart))
	routers.Get("/api/activity-log", http.HandlerFunc(apiController.GetActivityLog))

	routers.Get("/api/pages", http.HandlerFunc(apiController.GetPages))
	routers.Post("/api/pages", http.HandlerFunc(apiController.CreatePage))
	routers.Get("/api/pages/{id}", http.HandlerFunc(apiController.GetPage))
	routers.Put("/api/pages/{id}", http.HandlerFunc(apiController.UpdatePage))
	routers.Delete("/api/pages/{id}", http.HandlerFunc(apiController.DeletePage))
	routers.Get("/api/pages/{id}/buttons", http.HandlerFunc(apiController.GetButtons))
	routers.Post("/api/pages/{id}/buttons", http.HandlerFunc(apiController.AddButton))
	routers.Delete("/api/pages/{id}/buttons", http.HandlerFunc(apiController.DeleteButton))

	routers.Get("/api/files", http.HandlerFunc(apiController.GetFiles))
	routers.Post("/api/upload", http.HandlerFunc(apiController.Upload))
	routers.Delete("/api/files/{id}", http.HandlerFunc(apiController.DeleteFile))
	routers.Get("/api/files/{id}/preview", http.HandlerFunc(apiController.PreviewFile))

	routers.Get("/api/export", http.HandlerFunc(apiController.Export))
	routers.Post("/api/import", http.HandlerFunc(apiController.Import))
	routers.Post("/api/restart", http.HandlerFunc(apiController.Restart))
	routers.Post("/api/clear-all", http.HandlerFunc(apiController.ClearAll))

	routers.Get("/api/search", http.HandlerFunc(apiController.Search))
	routers.Get("/api/bot-info", http.HandlerFunc(apiController.GetBotInfo))
	routers.Get("/api/bot-commands", http.HandlerFunc(apiController.GetBotCommands))

	return routers
}
