package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/noctura/landing/pkg/ratelimit"
)

func normalizePath(controller *RESTController, relativePath string) string {
	var path string = controller.mountPoint

	if relativePath != "" {
		path = path + "/" + relativePath
	}

	if path[0] != '/' {
		path = "/" + path
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return strings.ReplaceAll(path, "//", "/")
}

func (routerService *RouterService) keyForPathAndMethod(path, method string) string {
	return fmt.Sprintf("%s-%s", method, path)
}

func (controller *RESTController) bindHandlerToController(routerService *RouterService, path, method string) {
	key := routerService.keyForPathAndMethod(path, method)
	otherController, foundPrevious := routerService.handlerToControllerMap[key]

	if foundPrevious {
		panic(fmt.Sprintf("A handler is already registered for path '%s' by a different controller '%s'", path, otherController.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func (routerService *RouterService) bindOverrideRateLimiter(path string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	_, foundPrevious := routerService.rateLimitOverrides[path]
	if foundPrevious {
		panic(fmt.Sprintf("A rate limiter is already registered for path '%s'", path))
	}

	routerService.rateLimitOverrides[path] = limiter
}

func (routerService *RouterService) bindHandlerRateLimiter(path, method string, limiter ratelimit.RateLimiter) {
	key := routerService.keyForPathAndMethod(path, method)
	routerService.bindOverrideRateLimiter(key, limiter)
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
			return
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func createPageHandler(handler PageHandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		renderPage(c, handler(c))
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	mountPoint = strings.ReplaceAll("/"+mountPoint, "//", "/")

	return &RESTController{
		name:       name,
		mountPoint: mountPoint,
		version:    "",
		prepare:    prepare,
	}
}

func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	// The version is part of the mount point so routes are unambiguous.
	finalPath := strings.ReplaceAll("/"+version+"/"+mountPoint, "//", "/")

	return &RESTController{
		name:       name,
		mountPoint: finalPath,
		version:    version,
		prepare:    prepare,
	}
}

func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	routerService.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	controller.handlerCount++
	mountPoint := normalizePath(controller, path)
	controller.bindHandlerToController(routerService, mountPoint, http.MethodPost)
	routerService.bindHandlerRateLimiter(mountPoint, http.MethodPost, limiter)
	routerService.engine.POST(mountPoint, append(middlewares, createHandler(handler))...)
	routerService.logger.Debug("Handler registered", "method", http.MethodPost, "path", mountPoint)
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	controller.handlerCount++
	mountPoint := normalizePath(controller, path)
	controller.bindHandlerToController(routerService, mountPoint, http.MethodGet)
	routerService.bindHandlerRateLimiter(mountPoint, http.MethodGet, limiter)
	routerService.engine.GET(mountPoint, append(middlewares, createHandler(handler))...)
	routerService.logger.Debug("Handler registered", "method", http.MethodGet, "path", mountPoint)
}

// AddPageHandler registers an HTML page route for GET or POST.
func (routerService *RouterService) AddPageHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	method string,
	path string,
	handler PageHandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	if method != http.MethodGet && method != http.MethodPost {
		panic(fmt.Sprintf("Page handlers only support GET and POST, got %s", method))
	}

	controller.handlerCount++
	mountPoint := normalizePath(controller, path)
	controller.bindHandlerToController(routerService, mountPoint, method)
	routerService.bindHandlerRateLimiter(mountPoint, method, limiter)
	routerService.engine.Handle(method, mountPoint, append(middlewares, createPageHandler(handler))...)
	routerService.logger.Debug("Page handler registered", "method", method, "path", mountPoint)
}

// AddStaticHandler serves files from fs under the given path for GET and HEAD.
func (routerService *RouterService) AddStaticHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	fs http.FileSystem,
) {
	controller.handlerCount++
	mountPoint := normalizePath(controller, path)
	route := mountPoint + "/*filepath"
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		controller.bindHandlerToController(routerService, route, method)
		routerService.bindHandlerRateLimiter(route, method, limiter)
	}
	routerService.engine.StaticFS(mountPoint, fs)
	routerService.logger.Debug("Static handler registered", "path", route)
}
