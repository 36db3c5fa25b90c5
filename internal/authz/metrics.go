package authz

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes recorded by the guard.
const (
	outcomeAllowed         = "allowed"
	outcomeUnauthenticated = "unauthenticated"
	outcomeTeamNotFound    = "team_not_found"
	outcomeNotMember       = "not_member"
	outcomeForbidden       = "forbidden"
	outcomeOwner           = "owner"
	outcomeResourceMissing = "resource_not_found"
)

func newDecisionCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teamwork",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Count of team authorization decisions by outcome",
	}, []string{"check", "outcome"})
}

// RegisterMetrics registers the guard's decision counter. If an identical
// collector is already registered it is reused.
func (g *Guard) RegisterMetrics(reg prometheus.Registerer) error {
	if err := reg.Register(g.decisions); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				g.decisions = existing
				return nil
			}
		}
		return err
	}
	return nil
}

func (g *Guard) record(check, outcome string) {
	g.decisions.WithLabelValues(check, outcome).Inc()
}
