package services

import "time"

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Sale      SaleSvcFacade
	Numbering NumberingSvc
	Statement StatementSvc
	Product   ProductSvcFacade
	Customer  CustomerSvcFacade
}

// Clock abstracts "now" so aging buckets and default invoice dates are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}
