package worker

import (
	"github.com/classtrack/attendance-service/internal/service"
)

// StartSecurityWorker registers security event handlers.
func StartSecurityWorker(securityService *service.SecurityService) {
	if securityService == nil {
		return
	}
	securityService.RegisterHandlers()
}
