package router

import (
	"net/http"

	"github.com/noctura/landing/internal/log"
	g "maragu.dev/gomponents"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func AcceptedResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusAccepted,
		Data:       data,
		Message:    message,
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Data:       payload,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Data:       nil,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Data:       nil,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

func PageOK(node g.Node) *PageResult {
	return &PageResult{StatusCode: http.StatusOK, Node: node}
}

func PageWithStatus(statusCode int, node g.Node) *PageResult {
	return &PageResult{StatusCode: statusCode, Node: node}
}

func renderPage(c *RequestContext, result *PageResult) {
	if result == nil || result.Node == nil {
		c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A page handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(result.StatusCode)

	if err := result.Node.Render(c.Writer); err != nil {
		GetLogger(c).Error("Failed to render page", "error", err)
	}
}
