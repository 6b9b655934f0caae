package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PersonsCreated prometheus.Counter
	UsersCreated   prometheus.Counter
	Logins         *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		PersonsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_persons_created_total",
			Help: "Total number of persons added to the directory",
		}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_users_created_total",
			Help: "Total number of accounts created",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementPersonsCreated increments the persons created counter by 1.
func (m *Metrics) IncrementPersonsCreated() {
	if m != nil {
		m.PersonsCreated.Inc()
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

// ObserveLogin records a login attempt outcome ("success" or "failure").
func (m *Metrics) ObserveLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}
