package internal

import (
	"net/http"
	"pilot/internal/controllers"
	"pilot/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Get("/entries", http.HandlerFunc(apiController.GetEntries))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/export", http.HandlerFunc(apiController.Export))
	routers.Get("/voice", http.HandlerFunc(apiController.GetVoice))
	routers.Get("/insight", http.HandlerFunc(apiController.GetInsight))
	routers.Get("/chat", http.HandlerFunc(apiController.GetChatThread))

	routers.Post("/generate", http.HandlerFunc(apiController.Generate))
	routers.Post("/complete", http.HandlerFunc(apiController.Complete))
	routers.Post("/regenerate", http.HandlerFunc(apiController.Regenerate))
	routers.Post("/chat", http.HandlerFunc(apiController.Chat))
	routers.Post("/onboarding", http.HandlerFunc(apiController.Onboarding))
	routers.Post("/tier", http.HandlerFunc(apiController.SetTier))
	routers.Post("/theme", http.HandlerFunc(apiController.SetTheme))
	routers.Post("/voice/checkin", http.HandlerFunc(apiController.VoiceCheckIn))
	routers.Post("/reset", http.HandlerFunc(apiController.Reset))
	return routers
}
