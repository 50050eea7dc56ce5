// Command server runs the mock payment demo over HTTP. Each POST /payments
// drives a complete scripted session (summary, processing, success) and
// returns the finalized outcome. The in-process session API is the real
// boundary; HTTP here is demo glue.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/mockpay/sessionkit/internal/config"
	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/notify/kafka"
	"github.com/mockpay/sessionkit/internal/notify/lognotify"
	"github.com/mockpay/sessionkit/internal/notify/nats"
	"github.com/mockpay/sessionkit/internal/registry"
	"github.com/mockpay/sessionkit/internal/session"
	"github.com/mockpay/sessionkit/internal/surface/scripted"
)

// sessionWait bounds how long a request handler waits for its session to
// finish before handing back an in-flight response.
const sessionWait = 30 * time.Second

func main() {
	cfg := config.Load()

	var notifier interfaces.OverlayNotifier
	switch {
	case len(cfg.KafkaBrokers) > 0:
		n := kafka.NewNotifier(cfg.KafkaBrokers)
		defer n.Close()
		notifier = n
		log.Printf("announcing successes to kafka %v", cfg.KafkaBrokers)
	case cfg.NATSURL != "":
		n, err := nats.NewNotifier(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to create NATS notifier: %v", err)
		}
		defer n.Close()
		notifier = n
		log.Printf("announcing successes to NATS at %s", cfg.NATSURL)
	default:
		notifier = lognotify.New()
	}

	reg := registry.New()
	surface := scripted.New(models.SignalConfirmed, 150*time.Millisecond)
	svc := session.NewService(reg, surface, notifier, cfg.Session())

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "in_flight": reg.Len()})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/payments", func(c *gin.Context) {
		var req struct {
			Amount       decimal.Decimal `json:"amount"`
			Description  string          `json:"description"`
			MerchantName string          `json:"merchant_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		results := make(chan models.TransactionOutcome, 1)
		// The session outlives the HTTP request, so it gets its own context.
		id, err := svc.Start(context.Background(), req.Amount, req.Description, req.MerchantName,
			func(outcome models.TransactionOutcome) { results <- outcome })
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		select {
		case outcome := <-results:
			c.JSON(http.StatusOK, outcome)
		case <-time.After(sessionWait):
			c.JSON(http.StatusAccepted, gin.H{"transaction_id": id, "status": "in_flight"})
		}
	})

	router.GET("/sessions/:id", func(c *gin.Context) {
		s, ok := reg.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}
		req := s.Request()
		c.JSON(http.StatusOK, gin.H{
			"transaction_id": req.ID,
			"stage":          s.Stage(),
			"amount":         req.Amount,
			"merchant_name":  req.MerchantName,
		})
	})

	log.Printf("starting payment demo server on :%s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
