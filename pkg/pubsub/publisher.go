package pubsub

import "context"

// Pack is a single message on a topic. Key chooses the partition, Msg is an
// opaque payload the handler decodes.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
