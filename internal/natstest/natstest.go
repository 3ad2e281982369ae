// Package natstest starts throwaway embedded NATS servers for tests.
package natstest

import (
	"context"
	"testing"

	"github.com/Nintron27/pillow"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

// Conn runs a JetStream-enabled server for the duration of the test.
func Conn(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := pillow.Run(
		pillow.WithNATSServerOptions(&server.Options{
			JetStream: true,
			StoreDir:  t.TempDir(),
		}),
	)
	require.NoError(t, err)

	nc, err := ns.NATSClient()
	require.NoError(t, err)

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown(context.Background())
	})
	return nc
}

func Bucket(t *testing.T, nc *nats.Conn, name string) jetstream.KeyValue {
	t.Helper()

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	kv, err := js.CreateKeyValue(context.Background(), jetstream.KeyValueConfig{Bucket: name})
	require.NoError(t, err)
	return kv
}
