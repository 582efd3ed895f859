package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes on a group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc lets a plain function act as a Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

// UploadsModule serves product images kept on local disk. Stored image paths
// look like public/uploads/<name>, older ones like /uploads/<name>.
func UploadsModule(dir string) Module {
	return ModuleFunc(func(rg *gin.RouterGroup) {
		rg.Static("/uploads", dir)
		rg.Static("/public/uploads", dir)
	})
}
