package publisher

// Publisher represents a service for publishing article notifications
type Publisher interface {
	// Publish publishes a message to a stream, keyed by source site
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
