package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	AuthActionLogin    = "login"
	AuthActionRegister = "register"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"

	CartOpAdd    = "add"
	CartOpUpdate = "update"
	CartOpRemove = "remove"
)

// StorefrontMetrics counts business events.
type StorefrontMetrics struct {
	authAttempts  *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront counters on reg.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_auth_attempts_total",
		Help: "Login and registration attempts by outcome.",
	}, []string{"action", "outcome"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart writes by operation.",
	}, []string{"op"})
	reg.MustRegister(authAttempts, cartMutations)
	return &StorefrontMetrics{
		authAttempts:  authAttempts,
		cartMutations: cartMutations,
	}
}

func (s *StorefrontMetrics) IncAuthAttempt(action, outcome string) {
	if s == nil || s.authAttempts == nil {
		return
	}
	s.authAttempts.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

func (s *StorefrontMetrics) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}
