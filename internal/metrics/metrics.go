package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections per channel",
	}, []string{"channel"})

	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Messages persisted per channel",
	}, []string{"channel"})
)

func Init() {
	prometheus.MustRegister(ActiveConnections, MessagesSent)
}

// Handler exposes the prometheus scrape endpoint on a Fiber app.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
