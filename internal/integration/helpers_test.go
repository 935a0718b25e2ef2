//go:build integration

package integration_test

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := kafka.Run(ctx, kafkaImage, kafka.WithClusterID("rwh-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// referenceFS is a small slice of the published datasets.
var referenceFS = fstest.MapFS{
	reference.RainfallFile: {Data: []byte("NAME,NORMAL\nBHOPAL,1200\nBARMER,300\nMIZORAM,2500\n")},
	reference.AquiferFile: {Data: []byte("State,Dominant_Aquifer_Type\n" +
		"Madhya Pradesh,\"Basalt (majority), Alluvium (some part)\"\n" +
		"Rajasthan,\"Alluvium, Sandstone\"\n" +
		"Mizoram,Mudstone (majority)\n")},
	"groundwater_2023.csv": {Data: []byte("District,State,Pre_Monsoon,Post_Monsoon\n" +
		"Bhopal,Madhya Pradesh,5 to 10,2 to 5\n" +
		"Barmer,Rajasthan,>40,20 to 40\n" +
		"Aizawl,Mizoram,5 to 10,2 to 5\n")},
}

// newTestService builds the assessment service over referenceFS.
func newTestService(t *testing.T) *service.Service {
	t.Helper()
	ix, err := reference.Load(referenceFS)
	require.NoError(t, err)
	return service.New(domain.NewAssessor(ix, 0), nil, nil, discardLogger(), observability.NewMetricsForTesting())
}
