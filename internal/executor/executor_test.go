package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockOrderSink is a mock implementation of the OrderSink interface.
type MockOrderSink struct {
	mock.Mock
}

func (m *MockOrderSink) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderResult), args.Error(1)
}

func TestExecute_SimulationModeNeverTouchesSink(t *testing.T) {
	// Arrange
	sink := new(MockOrderSink)
	e := New(sink, false, time.Second, zap.NewNop())

	// Act
	fill, err := e.Execute(context.Background(), "BTCUSDT", models.SideBuy, 0.5, 100)

	// Assert
	assert.NoError(t, err)
	assert.True(t, fill.Simulated)
	assert.Equal(t, 100.0, fill.Price)
	assert.Equal(t, 0.5, fill.Quantity)
	assert.NotEmpty(t, fill.OrderID)
	assert.NotZero(t, fill.Timestamp)
	sink.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestExecute_RealModeMapsSinkResult(t *testing.T) {
	// Arrange
	sink := new(MockOrderSink)
	sink.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req models.OrderRequest) bool {
		return req.Symbol == "BTCUSDT" &&
			req.Side == models.SideBuy &&
			req.Type == models.OrderTypeMarket &&
			req.Quantity == 0.5
	})).Return(&models.OrderResult{
		OrderID:  "12345",
		Status:   "FILLED",
		Price:    101.5,
		Quantity: 0.5,
	}, nil)

	e := New(sink, true, time.Second, zap.NewNop())

	// Act
	fill, err := e.Execute(context.Background(), "BTCUSDT", models.SideBuy, 0.5, 100)

	// Assert
	assert.NoError(t, err)
	assert.False(t, fill.Simulated)
	assert.Equal(t, "12345", fill.OrderID)
	assert.Equal(t, 101.5, fill.Price)
	assert.Equal(t, 0.5, fill.Quantity)
	sink.AssertExpectations(t)
}

func TestExecute_RealModeFallsBackToMarkPrice(t *testing.T) {
	// Arrange: sink accepted the order but reported no execution details
	sink := new(MockOrderSink)
	sink.On("PlaceOrder", mock.Anything, mock.Anything).Return(&models.OrderResult{
		OrderID: "12345",
		Status:  "NEW",
	}, nil)

	e := New(sink, true, time.Second, zap.NewNop())

	// Act
	fill, err := e.Execute(context.Background(), "BTCUSDT", models.SideSell, 0.5, 99.5)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 99.5, fill.Price)
	assert.Equal(t, 0.5, fill.Quantity)
}

func TestExecute_SinkFailureReturnsError(t *testing.T) {
	// Arrange
	sink := new(MockOrderSink)
	sinkErr := errors.New("connection refused")
	sink.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, sinkErr)

	e := New(sink, true, time.Second, zap.NewNop())

	// Act
	fill, err := e.Execute(context.Background(), "BTCUSDT", models.SideBuy, 0.5, 100)

	// Assert: single attempt, error surfaced, no fill
	assert.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Nil(t, fill)
	sink.AssertNumberOfCalls(t, "PlaceOrder", 1)
}
