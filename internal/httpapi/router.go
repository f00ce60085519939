// Package httpapi is a thin adapter over the checkout core: it decodes
// requests, delegates to the services and maps domain errors onto HTTP
// statuses. No business rules live here.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(cart *CartHandler, checkout *CheckoutHandler, order *OrderHandler,
	txn *TransactionHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cart.GetCart)
		r.Post("/add", cart.AddLine)
		r.Post("/remove", cart.RemoveLine)
		r.Patch("/update", cart.SetQuantity)
		r.Post("/checkout", checkout.Checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", order.List)
		r.Get("/{orderID}", order.Get)
		r.Post("/{orderID}/status", order.UpdateStatus)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", txn.List)
		r.Get("/{transactionID}", txn.Get)
		r.Post("/{transactionID}/status", txn.UpdateStatus)
		r.Post("/{transactionID}/process", txn.Process)
	})

	r.Route("/payment-methods", func(r chi.Router) {
		r.Get("/", txn.ListPaymentMethods)
		r.Post("/", txn.CreatePaymentMethod)
		r.Post("/{methodID}/deactivate", txn.DeactivatePaymentMethod)
		r.Delete("/{methodID}", txn.DeletePaymentMethod)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)))
		})
	}
}
