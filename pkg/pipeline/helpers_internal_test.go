package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
	"github.com/askiada/go-twostage/pkg/pipeline/transfer"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func createQueue[T any](t *testing.T, capacity int) transfer.Queue[model.Message[T]] {
	t.Helper()
	queue, err := transfer.New[model.Message[T]](capacity)
	require.NoError(t, err)

	return queue
}

func createRawItems(t *testing.T, payloads ...string) []model.RawItem {
	t.Helper()
	items := make([]model.RawItem, len(payloads))
	for i, payload := range payloads {
		items[i] = model.RawItem{
			Seq:        uint64(i + 1),
			Payload:    payload,
			ReceivedAt: epoch.Add(time.Duration(i) * time.Second),
		}
	}

	return items
}

func fillQueue[T any](t *testing.T, ctx context.Context, queue transfer.Queue[model.Message[T]], items []T, shutdown bool) {
	t.Helper()
	for _, item := range items {
		require.NoError(t, queue.Push(ctx, model.Payload(item)))
	}
	if shutdown {
		require.NoError(t, queue.Push(ctx, model.Shutdown[T]()))
	}
}

// drainQueue pops everything buffered, shutdown markers included.
func drainQueue[T any](t *testing.T, queue transfer.Queue[model.Message[T]]) []model.Message[T] {
	t.Helper()
	var res []model.Message[T]
	for {
		msg, ok := queue.TryPop()
		if !ok {
			return res
		}
		res = append(res, msg)
	}
}

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}
