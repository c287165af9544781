package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/config"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsBaseURL        = "wss://stream.binance.com:9443/ws"
	wsTestnetBaseURL = "wss://testnet.binance.vision/ws"
)

// miniTickerEvent is the payload of the <symbol>@miniTicker stream.
type miniTickerEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Close     string `json:"c"`
	Volume    string `json:"v"`
}

// StreamClient subscribes to the public ticker stream and turns raw events
// into ticks on a channel consumed by the execution loop.
type StreamClient struct {
	baseURL string
	logger  *zap.Logger
}

// NewStreamClient creates a stream client against the configured endpoint.
func NewStreamClient(cfg *config.Binance, logger *zap.Logger) *StreamClient {
	url := wsBaseURL
	if cfg.Testnet {
		url = wsTestnetBaseURL
	}
	return &StreamClient{baseURL: url, logger: logger}
}

// SubscribeTicker connects to the symbol's miniTicker stream and delivers
// ticks until ctx is cancelled or the stream drops. The returned channel is
// closed when delivery stops; reconnection is the caller's concern.
func (c *StreamClient) SubscribeTicker(ctx context.Context, symbol string) (<-chan models.Tick, error) {
	streamURL := fmt.Sprintf("%s/%s@miniTicker", c.baseURL, strings.ToLower(symbol))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ticker stream: %w", err)
	}
	c.logger.Info("Subscribed to ticker stream", zap.String("symbol", symbol))

	ticks := make(chan models.Tick, 64)

	// Closing the connection on cancel unblocks the blocked ReadMessage.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(ticks)
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					c.logger.Error("Ticker stream closed", zap.Error(err))
				}
				return
			}

			tick, ok := c.parseEvent(msg)
			if !ok {
				continue
			}

			select {
			case ticks <- tick:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ticks, nil
}

// parseEvent converts one raw stream message into a tick. Malformed events
// are logged and dropped; the stream itself stays up.
func (c *StreamClient) parseEvent(msg []byte) (models.Tick, bool) {
	var ev miniTickerEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		c.logger.Warn("Dropping malformed ticker event", zap.Error(err))
		return models.Tick{}, false
	}

	price, err := strconv.ParseFloat(ev.Close, 64)
	if err != nil || price <= 0 {
		c.logger.Warn("Dropping ticker event with bad price", zap.String("price", ev.Close))
		return models.Tick{}, false
	}
	volume, _ := strconv.ParseFloat(ev.Volume, 64)

	return models.Tick{
		Symbol:    ev.Symbol,
		Price:     price,
		Volume:    volume,
		EventTime: ev.EventTime,
	}, true
}
