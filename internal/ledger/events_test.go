package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepositoryAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEventRepository(mock)

	mock.ExpectExec("INSERT INTO payment_events").
		WithArgs("PAY-1", "transition", []byte(`{"from":"Pending","to":"Completed"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Append(context.Background(), "PAY-1", EventTransition, map[string]string{"from": "Pending", "to": "Completed"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAppendFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEventRepository(mock)

	mock.ExpectExec("INSERT INTO payment_events").
		WithArgs("PAY-1", "initiated", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = repo.Append(context.Background(), "PAY-1", EventInitiated, nil)
	assert.ErrorContains(t, err, "insert payment_event")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryEvents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewEventRepository(mock)

	at := time.Date(2025, 3, 14, 4, 30, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "payment_id", "kind", "payload", "created_at"}).
		AddRow(int64(1), "PAY-1", "initiated", []byte(`{"method":"UPI"}`), at).
		AddRow(int64(2), "PAY-1", "transition", []byte(nil), at.Add(time.Minute))

	mock.ExpectQuery("FROM payment_events").
		WithArgs("PAY-1").
		WillReturnRows(rows)

	events, err := repo.Events(context.Background(), "PAY-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventInitiated, events[0].Kind)
	assert.JSONEq(t, `{"method":"UPI"}`, string(events[0].Payload))
	assert.Nil(t, events[1].Payload)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryEventLog(t *testing.T) {
	log := NewMemoryEventLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "PAY-1", EventInitiated, map[string]string{"method": "Cash"}))
	require.NoError(t, log.Append(ctx, "PAY-2", EventInitiated, nil))
	require.NoError(t, log.Append(ctx, "PAY-1", EventTransition, map[string]string{"to": "Completed"}))

	events, err := log.Events(ctx, "PAY-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventInitiated, events[0].Kind)
	assert.Equal(t, EventTransition, events[1].Kind)
	assert.Less(t, events[0].ID, events[1].ID)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(events[1].Payload, &payload))
	assert.Equal(t, "Completed", payload["to"])

	_, err = log.Events(ctx, "PAY-404")
	require.NoError(t, err)

	assert.Error(t, log.Append(ctx, "PAY-1", EventCallback, make(chan int)))
}
