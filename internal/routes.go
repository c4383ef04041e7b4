package internal

import (
	"net/http"
	"pbcheck/internal/controllers"
	"pbcheck/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/drawing", http.HandlerFunc(apiController.GetDrawing))
	routers.Get("/selection", http.HandlerFunc(apiController.GetSelection))
	routers.Post("/selection", http.HandlerFunc(apiController.SaveSelection))
	routers.Post("/refresh", http.HandlerFunc(apiController.Refresh))
	return routers
}
