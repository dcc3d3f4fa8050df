package landing

import (
	"net/http"
	"strings"
	"time"

	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/domain/waitlist"
	"github.com/noctura/landing/internal/views"
	apperrors "github.com/noctura/landing/pkg/errors"
)

const formRequestsPerMinute = 30

// NewLandingController serves the marketing page, its assets and the no-script waitlist form.
func NewLandingController(service waitlist.WaitlistService, contactEmail string) *router.RESTController {
	return router.NewRESTController(
		"LandingController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := rs.NewRateLimiter("waitlist-form", formRequestsPerMinute, time.Minute)

			rs.AddPageHandler(c, nil, http.MethodGet, "", landingPageHandler(contactEmail))
			rs.AddPageHandler(c, limiter, http.MethodPost, "waitlist", joinWaitlistPageHandler(service, contactEmail))
			rs.AddStaticHandler(c, nil, strings.TrimPrefix(views.StaticPrefix, "/"), views.StaticFiles())
			rs.UseNotFoundPage(notFoundPageHandler)
		},
	)
}

func landingPageHandler(contactEmail string) router.PageHandlerFunction {
	return func(ctx *router.RequestContext) *router.PageResult {
		return router.PageOK(views.LandingPage(views.LandingState{ContactEmail: contactEmail}))
	}
}

func joinWaitlistPageHandler(service waitlist.WaitlistService, contactEmail string) router.PageHandlerFunction {
	return func(ctx *router.RequestContext) *router.PageResult {
		logger := router.GetLogger(ctx)

		var req waitlist.JoinWaitlistRequest
		if err := ctx.ShouldBind(&req); err != nil {
			logger.Warn("Failed to bind waitlist form", "error", err)
			return router.PageWithStatus(http.StatusBadRequest, views.LandingPage(views.LandingState{
				Toast:        toastFor(waitlist.ErrorNotification(waitlist.MessageFailed)),
				ContactEmail: contactEmail,
			}))
		}

		result, err := service.Join(ctx.Request.Context(), req.Email)

		state := views.LandingState{
			Email:        result.Email,
			Toast:        toastFor(result.Notification),
			ContactEmail: contactEmail,
		}

		if err != nil {
			return router.PageWithStatus(apperrors.HTTPStatusCode(err), views.LandingPage(state))
		}
		return router.PageOK(views.LandingPage(state))
	}
}

func notFoundPageHandler(ctx *router.RequestContext) *router.PageResult {
	return router.PageWithStatus(http.StatusNotFound, views.NotFoundPage())
}

func toastFor(n waitlist.Notification) *views.Toast {
	if n.IsZero() {
		return nil
	}

	kind := views.ToastError
	if n.IsSuccess() {
		kind = views.ToastSuccess
	}
	return &views.Toast{Kind: kind, Message: n.Message}
}
