//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/makbarsyahwana/logistic-gateway/internal/audit"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/internal/testutil"
	"github.com/makbarsyahwana/logistic-gateway/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// Публикация события доходит до брокера и читается обратно.
func TestPublish_EndToEnd_TC(t *testing.T) {
	// длинный контекст только на старт контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "gateway-audit-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topic, _ := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	pub := audit.NewPublisher(kf.Brokers, topic, logg)
	t.Cleanup(func() { _ = pub.Close() })

	event := testutil.MakeAuditEvent("order_created")
	require.NoError(t, pub.Publish(ctx, event))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
	})
	t.Cleanup(func() { _ = r.Close() })

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, event.OrderID, string(msg.Key))

	var got ports.AuditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, event, got)
}
