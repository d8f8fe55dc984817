package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册编辑页、主题样式表与 /v1 接口。
func RegisterRoutes(router *gin.Engine, editor *EditorHandler, ws *WsHandler, assetsDir string) {
	router.GET("/", editor.Page)
	if assetsDir != "" {
		router.Static("/assets", assetsDir)
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/document", editor.Document)
		v1.POST("/fields/:id", editor.Input)
		v1.POST("/fields/:id/paste", editor.Paste)
		v1.POST("/theme/:name", editor.Theme)
		v1.POST("/clear", editor.Clear)
		v1.POST("/print", editor.Print)
		if ws != nil {
			v1.GET("/ws", ws.HandleConnection)
		}
	}
}
