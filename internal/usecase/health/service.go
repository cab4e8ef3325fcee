package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the record store is unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	broker BrokerChecker
}

// New creates a Service. broker can be nil when events are disabled.
func New(db DBPinger, broker BrokerChecker) *Service {
	return &Service{db: db, broker: broker}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.broker != nil {
		if err := s.broker.HealthCheck(ctx); err != nil {
			checks["events"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["events"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
