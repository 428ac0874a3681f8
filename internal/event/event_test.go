package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got Event
	bus.Subscribe(JackpotWon, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	evt := jackpotEvent()
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Equal(t, evt, got)
}

func TestMemoryBus_EveryHandlerRunsAndErrorsJoin(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0
	bus.Subscribe(SpinCompleted, func(context.Context, Event) error { calls++; return errors.New("boom") })
	bus.Subscribe(SpinCompleted, func(context.Context, Event) error { calls++; return nil })

	err := bus.Publish(context.Background(), Event{Type: SpinCompleted})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewMemoryBus().Publish(context.Background(), Event{Type: PullCompleted}))
}

func TestNewPullCompletedEvent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	draws := []domain.DrawOutcome{{
		Item:   domain.Item{ID: "hero_warlord"},
		Rarity: domain.RarityLegendary,
		Grant:  domain.Grant{Kind: domain.GrantCompensation, Currency: domain.CurrencyCoins, Amount: 600},
	}}

	evt := NewPullCompletedEvent("p1", "standard", "", 160, draws, now)

	payload, err := DecodePayload[PullCompletedPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, EventSchemaVersion, evt.Version)
	assert.Equal(t, int64(1_700_000_000), payload.Timestamp)
	require.Len(t, payload.Draws, 1)
	assert.Equal(t, domain.GrantCompensation, payload.Draws[0].GrantKind)
	assert.Equal(t, int64(600), payload.Draws[0].Amount)
}

func TestDecodePayload_FromGenericMap(t *testing.T) {
	raw := map[string]interface{}{"winner_id": "p9", "amount": 14350}

	payload, err := DecodePayload[JackpotPayloadV1](raw)

	require.NoError(t, err)
	assert.Equal(t, "p9", payload.WinnerID)
	assert.Equal(t, int64(14350), payload.Amount)
}

func TestDecodePayload_PointerAndRawJSON(t *testing.T) {
	p := &JackpotPayloadV1{Pool: domain.JackpotPool{WheelID: "fortune"}, Amount: 10_000}
	fromPtr, err := DecodePayload[JackpotPayloadV1](p)
	require.NoError(t, err)
	assert.Equal(t, "fortune", fromPtr.Pool.WheelID)

	fromRaw, err := DecodePayload[JackpotPayloadV1](json.RawMessage(`{"winner_id":"p2","amount":12000}`))
	require.NoError(t, err)
	assert.Equal(t, int64(12_000), fromRaw.Amount)

	_, err = DecodePayload[JackpotPayloadV1](nil)
	assert.ErrorIs(t, err, ErrNilPayload)

	_, err = DecodePayload[JackpotPayloadV1]([]byte(`{"amount":"lots"}`))
	assert.Error(t, err)
}
