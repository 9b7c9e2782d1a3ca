package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business-level counters. HTTP-level metrics live in the middleware
// package; these track domain events regardless of transport.
var (
	washesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "washday_washes_recorded_total",
		Help: "Number of wash events recorded.",
	})

	achievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "washday_achievements_unlocked_total",
		Help: "Number of achievements unlocked, by tier.",
	}, []string{"tier"})
)
