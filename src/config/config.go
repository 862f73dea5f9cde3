package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/meshworks/beacon/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultPeersFile is the default name of the file defining the set of
	// recognized peers.
	DefaultPeersFile = "peers.json"

	// DefaultLogFile is the default name of the file receiving a copy of the
	// logs.
	DefaultLogFile = "beacon.log"
)

// Default configuration values.
const (
	DefaultLogLevel        = "debug"
	DefaultBindAddr        = "0.0.0.0:9300"
	DefaultBroadcastAddr   = "255.255.255.255:9300"
	DefaultServiceAddr     = "127.0.0.1:8300"
	DefaultHeartbeat       = 5000 * time.Millisecond
	DefaultInterFrameDelay = 20 * time.Millisecond
	DefaultCapacity        = 30
	DefaultPayloadLimit    = 250
)

// Config contains all the configuration properties of a beacon node.
type Config struct {
	// DataDir is the top-level directory containing beacon configuration and
	// data.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// Interface names the network interface whose hardware address becomes
	// the local identity. Empty picks the first suitable interface.
	Interface string `mapstructure:"interface"`

	// Identity overrides the hardware address lookup with an explicit
	// "aa:bb:cc:dd:ee:ff" identity. Useful for simulations on one machine.
	Identity string `mapstructure:"identity"`

	// BindAddr is the local address:port the transport binds to.
	BindAddr string `mapstructure:"listen"`

	// BroadcastAddr is the address:port outgoing frames are broadcast to.
	BroadcastAddr string `mapstructure:"broadcast"`

	// NoService disables the HTTP diagnostic service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the HTTP diagnostic service.
	ServiceAddr string `mapstructure:"service-listen"`

	// Heartbeat is the period of the broadcast timer.
	Heartbeat time.Duration `mapstructure:"heartbeat"`

	// InterFrameDelay is the pause between consecutive frames of a single
	// broadcast, giving the link time to drain its buffer.
	InterFrameDelay time.Duration `mapstructure:"interframe-delay"`

	// Capacity bounds the latest-state table and the recency queue.
	Capacity int `mapstructure:"capacity"`

	// PayloadLimit is the maximum transport payload in bytes. It must fit at
	// least one record or initialisation fails.
	PayloadLimit int `mapstructure:"payload-limit"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:         DefaultDataDir(),
		LogLevel:        DefaultLogLevel,
		BindAddr:        DefaultBindAddr,
		BroadcastAddr:   DefaultBroadcastAddr,
		ServiceAddr:     DefaultServiceAddr,
		Heartbeat:       DefaultHeartbeat,
		InterFrameDelay: DefaultInterFrameDelay,
		Capacity:        DefaultCapacity,
		PayloadLimit:    DefaultPayloadLimit,
	}
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// PeersFile returns the full path of the file defining the peer set.
func (c *Config) PeersFile() string {
	return filepath.Join(c.DataDir, DefaultPeersFile)
}

// LogFile returns the full path of the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, DefaultLogFile)
}

// Logger returns a formatted logrus Entry with prefix set to "beacon". Logs
// are also copied to the log file in the datadir when it can be opened.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if f, err := os.OpenFile(c.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			f.Close()
			c.logger.Hooks.Add(lfshook.NewHook(
				lfshook.PathMap{
					logrus.InfoLevel:  c.LogFile(),
					logrus.WarnLevel:  c.LogFile(),
					logrus.ErrorLevel: c.LogFile(),
				},
				&logrus.TextFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "beacon")
}

// DefaultDataDir returns the default directory name for top-level beacon
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Beacon")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Beacon")
		} else {
			return filepath.Join(home, ".beacon")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a logrus level name, defaulting to debug.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
