package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Checkout sessions opened via create-payment-intent.",
	})

	promoApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_promo_applications_total",
		Help: "Promo code application attempts by outcome.",
	}, []string{"result"})

	checkoutsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_confirmations_total",
		Help: "Sessions handed off to the payment provider for confirmation.",
	})

	checkoutsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completions_total",
		Help: "Sessions whose payment reached a terminal success state.",
	})
)
