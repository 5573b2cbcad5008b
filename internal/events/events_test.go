package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var got []SubmissionEventPayload
	bus.Subscribe(EventSubmissionFlagged, func(ev *Event) error {
		var p SubmissionEventPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &p))
		got = append(got, p)
		return nil
	})

	err := bus.PublishJSON(EventSubmissionFlagged, SubmissionEventPayload{
		SubmissionID: "sub-1",
		Region:       "europe",
		Flagged:      true,
		Reason:       "impressions exceed 5x regional average",
	})
	require.NoError(t, err)

	// Событие другого типа не должно попасть подписчику
	require.NoError(t, bus.PublishJSON(EventRunCompleted, RunEventPayload{Reason: "manual"}))

	require.Len(t, got, 1)
	assert.Equal(t, "sub-1", got[0].SubmissionID)
	assert.True(t, got[0].Flagged)
}

func TestEventBusNil(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON("anything", nil))
}
