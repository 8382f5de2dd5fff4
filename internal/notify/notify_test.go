package notify_test

import (
	"errors"
	"testing"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/notify"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name    string
		outcome domain.Outcome
		want    string
	}{
		{"add failed", domain.Outcome{Op: domain.OpAdd, Kind: domain.OutcomeAddFailed}, "Could not add the product"},
		{"remove not found", domain.Outcome{Op: domain.OpRemove, Kind: domain.OutcomeNotFound}, "Could not remove the product"},
		{"set quantity not found", domain.Outcome{Op: domain.OpSetQuantity, Kind: domain.OutcomeNotFound}, "Could not change the product quantity"},
		{"out of stock", domain.Outcome{Op: domain.OpSetQuantity, Kind: domain.OutcomeOutOfStock}, "Requested quantity is out of stock"},
		{"unknown kind", domain.Outcome{Kind: domain.OutcomeKind(99)}, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.Message(tt.outcome))
		})
	}
}

func TestLogNotifierLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := notify.NewLogNotifier(logger)

	n.Notify(t.Context(), domain.Outcome{Op: domain.OpAdd, ProductID: 42, Kind: domain.OutcomeUpdated})
	n.Notify(t.Context(), domain.Outcome{Op: domain.OpSetQuantity, ProductID: 42, Kind: domain.OutcomeOutOfStock, Err: domain.ErrOutOfStock})
	n.Notify(t.Context(), domain.Outcome{Op: domain.OpSetQuantity, ProductID: 42, Kind: domain.OutcomeStockLookupFailed, Err: errors.New("timeout")})

	entries := hook.AllEntries()
	require.Len(t, entries, 3)

	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)

	assert.Equal(t, "Requested quantity is out of stock", entries[1].Message)
	assert.Equal(t, "out_of_stock", entries[1].Data["outcome"])
	assert.Equal(t, domain.ErrOutOfStock, entries[1].Data[logrus.ErrorKey])
}

func TestRecorderAndFanout(t *testing.T) {
	a, b := &notify.Recorder{}, &notify.Recorder{}
	fan := notify.Fanout{a, b}

	_, ok := a.Last()
	assert.False(t, ok)

	fan.Notify(t.Context(), domain.Outcome{Op: domain.OpAdd, Kind: domain.OutcomeUpdated})
	fan.Notify(t.Context(), domain.Outcome{Op: domain.OpRemove, Kind: domain.OutcomeNotFound})

	for _, r := range []*notify.Recorder{a, b} {
		require.Len(t, r.Outcomes(), 2)
		last, ok := r.Last()
		require.True(t, ok)
		assert.Equal(t, domain.OutcomeNotFound, last.Kind)
	}
}
