// Command client dials a server with the key from its connect line, sends
// each stdin line as one datagram, and prints what comes back along with the
// current round-trip estimate.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsh/driftsh/internal/network"
)

func main() {
	ip := flag.String("ip", "127.0.0.1", "server address (numeric)")
	port := flag.Int("port", 0, "server port from the connect line")
	key := flag.String("key", "", "session key from the connect line")
	flag.Parse()

	if *port == 0 || *key == "" {
		fmt.Fprintln(os.Stderr, "usage: client -ip ADDR -port PORT -key KEY")
		os.Exit(2)
	}

	conn, err := network.NewClientConnection(*key, *ip, *port)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect")
	}
	defer conn.Close()

	logrus.WithFields(logrus.Fields{
		"addr": conn.RemoteAddr().String(),
	}).Info("Connected")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) > conn.MTU() {
			logrus.WithField("bytes", len(line)).Warn("Line exceeds send MTU, skipping")
			continue
		}

		conn.Clock().Tick()
		conn.Send(line)
		if err := conn.SendError(); err != nil {
			logrus.WithError(err).Warn("Send failed")
			continue
		}

		if err := conn.SetRecvTimeout(time.Duration(conn.Timeout()) * time.Millisecond); err != nil {
			logrus.WithError(err).Fatal("Could not set receive deadline")
		}

		conn.Clock().Tick()
		payload, err := conn.Recv()
		switch {
		case err == nil:
			fmt.Printf("%s  (srtt %.0f ms, rto %d ms)\n", payload, conn.SRTT(), conn.Timeout())
		case errors.Is(err, os.ErrDeadlineExceeded):
			logrus.Info("No reply before the timeout")
		case errors.Is(err, network.ErrPacketDropped),
			errors.Is(err, network.ErrOversizedDatagram):
			logrus.WithError(err).Debug("Dropped datagram")
		default:
			logrus.WithError(err).Fatal("Receive failed")
		}
	}
	if err := scanner.Err(); err != nil {
		logrus.WithError(err).Fatal("Reading stdin")
	}
}
