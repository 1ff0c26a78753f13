package worker

import (
	"github.com/spec-kit/staff-registry/internal/service"
)

// StartActivityWorker registers the activity handlers.
func StartActivityWorker(activity *service.ActivityService) {
	if activity == nil {
		return
	}
	activity.RegisterHandlers()
}
