// Command server binds the roaming datagram transport and answers clients:
// every payload it receives is echoed back to wherever the client currently
// is. It prints the connect line the client dials with.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/driftsh/driftsh/internal/config"
	"github.com/driftsh/driftsh/internal/network"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config")
	ip := flag.String("ip", "", "bind address (numeric, empty for any)")
	port := flag.Int("port", 0, "bind port (0 sweeps the port range)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("Could not load config")
		}
	}
	if *ip != "" {
		cfg.Network.IP = *ip
	}
	if *port != 0 {
		cfg.Network.Port = *port
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	sessionID := uuid.NewString()
	log := logrus.WithField("session", sessionID)

	conn, err := network.NewServerConnection(network.ServerConfig{
		IP:            cfg.Network.IP,
		Port:          cfg.Network.Port,
		PortRangeLow:  cfg.Network.PortRangeLow,
		PortRangeHigh: cfg.Network.PortRangeHigh,
	})
	if err != nil {
		log.WithError(err).Fatal("Could not bind")
	}
	defer conn.Close()

	log.WithField("port", conn.Port()).Info("Listening")
	fmt.Printf("DRIFTSH CONNECT %d %s\n", conn.Port(), conn.Key())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			log.Info("Shutting down")
			return
		default:
		}

		conn.Clock().Tick()
		if err := conn.SetRecvTimeout(time.Duration(conn.Timeout()) * time.Millisecond); err != nil {
			log.WithError(err).Fatal("Could not set receive deadline")
		}

		payload, err := conn.Recv()
		switch {
		case err == nil:
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, network.ErrPacketDropped),
			errors.Is(err, network.ErrOversizedDatagram):
			log.WithError(err).Debug("Dropped datagram")
			continue
		default:
			log.WithError(err).Fatal("Receive failed")
		}

		log.WithFields(logrus.Fields{
			"bytes": len(payload),
			"from":  conn.RemoteAddr().String(),
		}).Debug("Received")

		conn.Send(payload)
		if err := conn.SendError(); err != nil {
			log.WithError(err).Warn("Send failed")
		}
	}
}
