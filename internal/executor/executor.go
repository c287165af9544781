package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	metricOrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_orders_placed_total",
		Help: "Orders successfully handed to the order sink",
	})
	metricOrdersFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_orders_failed_total",
		Help: "Orders that failed at the sink",
	})
	metricOrdersSimulated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_orders_simulated_total",
		Help: "Fills synthesized in simulation mode",
	})
)

func init() {
	prometheus.MustRegister(metricOrdersPlaced, metricOrdersFailed, metricOrdersSimulated)
}

// OrderSink submits one order to the exchange. The Binance REST client
// implements it; tests substitute a mock.
type OrderSink interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
}

// Fill is the outcome of a successful execution.
type Fill struct {
	OrderID   string
	Symbol    string
	Side      models.Side
	Price     float64
	Quantity  float64
	Timestamp int64 // milliseconds
	Simulated bool
}

// Executor turns accepted signals into fills. In simulation mode it
// synthesizes an immediate fill at the mark price; in real mode it makes
// exactly one attempt against the sink, bounded by the configured timeout.
// A failed attempt is returned as an error and mutates nothing — failure
// handling is explicit at every call site rather than hidden in a
// catch-and-log layer.
type Executor struct {
	sink          OrderSink
	enableTrading bool
	timeout       time.Duration
	logger        *zap.Logger
}

// New creates an executor. The sink may be nil when trading is disabled.
func New(sink OrderSink, enableTrading bool, timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		sink:          sink,
		enableTrading: enableTrading,
		timeout:       timeout,
		logger:        logger,
	}
}

// Execute places one market order of the given size. The mark price is used
// as the fill price in simulation mode and as a fallback when the sink does
// not report an execution price.
func (e *Executor) Execute(ctx context.Context, symbol string, side models.Side, quantity, markPrice float64) (*Fill, error) {
	if !e.enableTrading {
		fill := &Fill{
			OrderID:   ulid.Make().String(),
			Symbol:    symbol,
			Side:      side,
			Price:     markPrice,
			Quantity:  quantity,
			Timestamp: time.Now().UnixMilli(),
			Simulated: true,
		}
		metricOrdersSimulated.Inc()
		e.logger.Info("[simulation] order filled",
			zap.String("order_id", fill.OrderID),
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.Float64("price", markPrice),
			zap.Float64("quantity", quantity),
		)
		return fill, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := models.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     models.OrderTypeMarket,
		Quantity: quantity,
	}

	// Single attempt, no retry. The tick that produced this signal is gone
	// by the time a retry would land; the next signal transition gets its
	// own attempt.
	result, err := e.sink.PlaceOrder(ctx, req)
	if err != nil {
		metricOrdersFailed.Inc()
		return nil, fmt.Errorf("order placement failed: %w", err)
	}

	price := result.Price
	if price <= 0 {
		price = markPrice
	}
	qty := result.Quantity
	if qty <= 0 {
		qty = quantity
	}

	metricOrdersPlaced.Inc()
	e.logger.Info("Order executed",
		zap.String("order_id", result.OrderID),
		zap.String("status", result.Status),
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("price", price),
		zap.Float64("quantity", qty),
	)

	return &Fill{
		OrderID:   result.OrderID,
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
