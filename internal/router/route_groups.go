package router

import (
	"clients_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes. Creation, credential lookup
// and token issue stay public; protect runs before every other handler.
func SetupClientRoutes(clientRoutes *gin.RouterGroup, clientHandler *handlers.ClientHandler, authHandler *handlers.AuthHandler, protect ...gin.HandlerFunc) {
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(protect)+1)
		chain = append(chain, protect...)
		return append(chain, h)
	}

	clientRoutes.POST("/", clientHandler.SaveClient)
	clientRoutes.POST("/findByUsernameAndPassword", clientHandler.FindByUsernameAndPassword)
	clientRoutes.POST("/token", authHandler.IssueToken)

	clientRoutes.GET("/", guarded(clientHandler.GetClients)...)
	clientRoutes.GET("/paged", guarded(clientHandler.GetClientsPaged)...)
	clientRoutes.GET("/:id", guarded(clientHandler.GetClientByID)...)
	clientRoutes.HEAD("/:id", guarded(clientHandler.HeadClient)...)
	clientRoutes.PUT("/:id", guarded(clientHandler.UpdateOrToggleClient)...)
	clientRoutes.DELETE("/:id", guarded(clientHandler.DeleteClient)...)
}
