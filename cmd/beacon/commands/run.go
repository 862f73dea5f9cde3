package commands

import (
	"github.com/meshworks/beacon/src/beacon"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRunCmd returns the command that starts a beacon node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runBeacon,
	}
	AddRunFlags(cmd)
	return cmd
}

func runBeacon(cmd *cobra.Command, args []string) error {
	engine := beacon.NewBeacon(_config)

	if err := engine.Init(); err != nil {
		_config.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	engine.Run()

	return nil
}

// AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")

	// Identity
	cmd.Flags().StringP("interface", "i", _config.Interface, "Network interface providing the local identity")
	cmd.Flags().String("identity", _config.Identity, "Explicit local identity (aa:bb:cc:dd:ee:ff)")

	// Link
	cmd.Flags().StringP("listen", "l", _config.BindAddr, "Listen IP:Port for the broadcast link")
	cmd.Flags().StringP("broadcast", "b", _config.BroadcastAddr, "Broadcast IP:Port for outgoing frames")
	cmd.Flags().Int("payload-limit", _config.PayloadLimit, "Link MTU in bytes")

	// Protocol
	cmd.Flags().Duration("heartbeat", _config.Heartbeat, "Time between broadcasts")
	cmd.Flags().Duration("interframe-delay", _config.InterFrameDelay, "Pause between frames of one broadcast")
	cmd.Flags().Int("capacity", _config.Capacity, "Max tracked identities and queued changes")

	// Service
	cmd.Flags().Bool("no-service", _config.NoService, "Disable the HTTP diagnostic service")
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for the HTTP service")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	_config.Logger().WithFields(logrus.Fields{
		"DataDir":         _config.DataDir,
		"LogLevel":        _config.LogLevel,
		"Interface":       _config.Interface,
		"Identity":        _config.Identity,
		"BindAddr":        _config.BindAddr,
		"BroadcastAddr":   _config.BroadcastAddr,
		"Heartbeat":       _config.Heartbeat,
		"InterFrameDelay": _config.InterFrameDelay,
		"Capacity":        _config.Capacity,
		"PayloadLimit":    _config.PayloadLimit,
		"NoService":       _config.NoService,
		"ServiceAddr":     _config.ServiceAddr,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/beacon.toml (.json, .yaml also work)
	viper.SetConfigName("beacon")        // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
