package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PriceListsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netrates_price_lists_created_total",
		Help: "Price list drafts created.",
	})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netrates_exports_total",
		Help: "Documents generated, by format.",
	}, []string{"format"})

	Emails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netrates_emails_total",
		Help: "Email dispatch attempts, by provider and status.",
	}, []string{"provider", "status"})
)
