package waitlist

import (
	"time"

	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/internal/models"
	apperrors "github.com/noctura/landing/pkg/errors"
)

const waitlistRequestsPerMinute = 30

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			c.RateLimitWith(rs, rs.NewRateLimiter("waitlist", waitlistRequestsPerMinute, time.Minute))

			rs.AddPostHandler(c, nil, "", joinWaitlistHandler(service))
		},
	)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		result, err := service.Join(ctx.Request.Context(), req.Email)
		if err != nil {
			return router.ErrorResult(apperrors.HTTPStatusCode(err), result.Notification.Message, ToJoinWaitlistResponse(result))
		}

		if result.Outcome == models.SubmissionOutcomeQueued {
			return router.AcceptedResult(ToJoinWaitlistResponse(result), result.Notification.Message)
		}
		return router.OKResult(ToJoinWaitlistResponse(result), result.Notification.Message)
	}
}
