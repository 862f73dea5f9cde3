package node

import (
	"testing"
	"time"

	"github.com/meshworks/beacon/src/common"
	"github.com/sirupsen/logrus"
)

// Config holds the node-level protocol parameters.
type Config struct {
	// HeartbeatTimeout is the period of the broadcast timer.
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat"`

	// InterFrameDelay is the pause between consecutive frame sends of one
	// broadcast. The radio buffers little; back-to-back writes lose frames.
	InterFrameDelay time.Duration `mapstructure:"interframe-delay"`

	// Capacity bounds both the latest-state table and the recency queue.
	Capacity int `mapstructure:"capacity"`

	// PayloadLimit is the maximum transport payload in bytes.
	PayloadLimit int `mapstructure:"payload-limit"`

	Logger *logrus.Logger
}

// NewConfig builds a node Config from explicit values.
func NewConfig(heartbeat time.Duration,
	interFrameDelay time.Duration,
	capacity int,
	payloadLimit int,
	logger *logrus.Logger) *Config {

	return &Config{
		HeartbeatTimeout: heartbeat,
		InterFrameDelay:  interFrameDelay,
		Capacity:         capacity,
		PayloadLimit:     payloadLimit,
		Logger:           logger,
	}
}

// DefaultConfig returns the standard protocol parameters: a 5 second
// heartbeat, 30-entry structures, and a 250-byte payload limit.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		HeartbeatTimeout: 5 * time.Second,
		InterFrameDelay:  20 * time.Millisecond,
		Capacity:         30,
		PayloadLimit:     250,
		Logger:           logger,
	}
}

// TestConfig returns a DefaultConfig with a much faster heartbeat and a logger
// that writes through testing.TB.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.HeartbeatTimeout = 50 * time.Millisecond
	config.InterFrameDelay = time.Millisecond
	config.Logger = common.NewTestLogger(t, logrus.DebugLevel)
	return config
}
