// Command ppgsim publishes a synthetic rPPG brightness stream over NATS
// for exercising the estimation pipeline without a camera.
//
// Wire format: each sample is 16 bytes, little-endian float64 brightness
// followed by int64 unix-millisecond timestamp. Samples are batched per
// message.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/vitalsignal/ppgbp/internal/waveform"
)

func main() {
	var (
		natsURL = flag.String("nats", nats.DefaultURL, "NATS url")
		subject = flag.String("subject", "ppg.wave", "output subject")
		fs      = flag.Int("fs", 30, "sampling rate Hz")
		hr      = flag.Float64("hr", 72, "simulated heart rate bpm")
		mean    = flag.Float64("mean", 50, "signal mean brightness")
		amp     = flag.Float64("amp", 8, "pulse amplitude")
		noise   = flag.Float64("noise", 0.2, "noise amplitude")
		batch   = flag.Int("batch", 10, "samples per message")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	nc, err := nats.Connect(*natsURL,
		nats.Name("ppgsim"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		log.Fatal("nats connect", zap.Error(err))
	}
	defer nc.Drain()

	sim := waveform.NewPulseSim(float64(*fs), *hr, *mean, *amp, *noise)

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		cancel()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(*fs))
	defer ticker.Stop()

	log.Info("publishing",
		zap.String("subject", *subject),
		zap.Int("fs", *fs),
		zap.Float64("hr", *hr))

	buf := make([]byte, 0, 16**batch)
	pending := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("stopping")
			return

		case now := <-ticker.C:
			var frame [16]byte
			binary.LittleEndian.PutUint64(frame[0:], math.Float64bits(sim.Next()))
			binary.LittleEndian.PutUint64(frame[8:], uint64(now.UnixMilli()))
			buf = append(buf, frame[:]...)
			pending++

			if pending >= *batch {
				if err := nc.Publish(*subject, buf); err != nil {
					log.Warn("publish failed", zap.Error(err))
				}
				buf = buf[:0]
				pending = 0
			}
		}
	}
}
