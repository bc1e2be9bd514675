package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики операций чекаута.
type CheckoutMetrics struct {
	// Счётчики исходов PlaceOrder
	ordersPlaced   prometheus.Counter
	ordersRejected *prometheus.CounterVec
	ordersFailed   prometheus.Counter

	// Коллизии номера заказа (повторяемые)
	numberCollisions prometheus.Counter

	// Гистограмма времени оформления
	placeOrderDuration prometheus.Histogram

	// Переводы статусов заказа
	statusChanges *prometheus.CounterVec
}

// NewCheckoutMetrics создаёт новый экземпляр метрик чекаута.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders successfully placed",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Total number of checkout attempts rejected grouped by reason",
		}, []string{"reason"}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_failed_total",
			Help: "Total number of checkout attempts failed on infrastructure errors",
		}),
		numberCollisions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_number_collisions_total",
			Help: "Total number of retryable order number collisions",
		}),
		placeOrderDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_place_order_duration_seconds",
			Help:    "Duration of successful place order operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		statusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_order_status_changes_total",
			Help: "Total number of order status transitions grouped by target status",
		}, []string{"status"}),
	}
}

// PlaceOrderSucceeded фиксирует успешное оформление и его длительность.
func (m *CheckoutMetrics) PlaceOrderSucceeded(duration time.Duration) {
	m.ordersPlaced.Inc()
	m.placeOrderDuration.Observe(duration.Seconds())
}

// PlaceOrderRejected фиксирует бизнес-отказ чекаута (пустая корзина, остатки и т.п.).
func (m *CheckoutMetrics) PlaceOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// PlaceOrderFailed фиксирует инфраструктурную ошибку коммита.
func (m *CheckoutMetrics) PlaceOrderFailed() {
	m.ordersFailed.Inc()
}

// OrderNumberCollision фиксирует повторяемую коллизию номера заказа.
func (m *CheckoutMetrics) OrderNumberCollision() {
	m.numberCollisions.Inc()
}

// StatusChanged фиксирует перевод заказа в новый статус.
func (m *CheckoutMetrics) StatusChanged(status string) {
	m.statusChanges.WithLabelValues(status).Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
