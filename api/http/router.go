package http

import (
	"github.com/gin-gonic/gin"

	"showtime/api/api/http/controller/auth"
	"showtime/api/api/http/controller/game"
	"showtime/api/api/http/controller/inventory"
	"showtime/api/api/http/controller/mapview"
	"showtime/api/api/interceptor"
	"showtime/api/api/ws"
)

func Routers(e *gin.RouterGroup, hub *ws.Hub) {

	gameGroup := e.Group("/game")
	gameGroup.GET("load", game.Load)
	gameGroup.POST("save", game.Save)
	gameGroup.GET("status", game.Status)
	gameGroup.GET("collection/:name", game.Collection)
	gameGroup.POST("collection/:name", game.SetCollection)
	gameGroup.POST("collection/:name/add", game.AddItem)
	gameGroup.POST("collection/:name/update/:id", game.UpdateItem)
	gameGroup.POST("collection/:name/delete/:id", game.DeleteItem)

	mapGroup := e.Group("/maps")
	mapGroup.GET(":mapId/render", mapview.Render)
	mapGroup.POST(":mapId/measure", mapview.Measure)
	e.GET("showtime", mapview.ShowTime)

	dmGroup := mapGroup.Group("", interceptor.TokenInterceptor(), interceptor.DMInterceptor())
	dmGroup.POST(":mapId/fog/clear", mapview.ClearFog)
	dmGroup.POST(":mapId/showtime", mapview.SetShowTime)
	dmGroup.POST(":mapId/grid", mapview.SetGrid)

	e.POST("auth/login", auth.Login)
	authGroup := e.Group("/auth", interceptor.TokenInterceptor())
	authGroup.GET("profile", auth.Profile)
	authGroup.POST("elevate", auth.Elevate)
	authGroup.POST("revoke", auth.Revoke)

	authed := e.Group("", interceptor.TokenInterceptor())
	authed.POST("dice/roll", game.Roll)
	authed.POST("inventory/drop", inventory.Drop)

	e.GET("ws", hub.Handle)
}
