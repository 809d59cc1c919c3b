// Command bpproc consumes an rPPG brightness stream from NATS, runs the
// full estimation pipeline (all four pressure models sharing one feature
// tracker) and republishes per-beat estimates as JSON. It also serves
// the latest estimates and Prometheus metrics over HTTP.
package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"flag"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vitalsignal/ppgbp/pkg/bpe"
)

const sampleFrameBytes = 16 // float64 value + int64 unix ms, little-endian

var (
	samplesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ppgbp_samples_received_total",
		Help: "Total number of brightness samples consumed",
	})
	beatsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ppgbp_beats_accepted_total",
		Help: "Accepted beats per model",
	}, []string{"model"})
	lastSBP = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ppgbp_sbp_mmhg",
		Help: "Latest robust-averaged systolic pressure per model",
	}, []string{"model"})
	lastDBP = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ppgbp_dbp_mmhg",
		Help: "Latest robust-averaged diastolic pressure per model",
	}, []string{"model"})
)

// beatEvent is the JSON shape republished per accepted beat.
type beatEvent struct {
	Model  string  `json:"model"`
	Ts     int64   `json:"ts"`
	SBP    float64 `json:"sbp"`
	DBP    float64 `json:"dbp"`
	SBPAvg float64 `json:"sbp_avg"`
	DBPAvg float64 `json:"dbp_avg"`
}

// latestStore holds the most recent averaged estimate per model for the
// HTTP endpoint.
type latestStore struct {
	mu     sync.RWMutex
	latest map[string]beatEvent
}

func newLatestStore() *latestStore {
	return &latestStore{latest: make(map[string]beatEvent)}
}

func (s *latestStore) put(ev beatEvent) {
	s.mu.Lock()
	s.latest[ev.Model] = ev
	s.mu.Unlock()
}

func (s *latestStore) snapshot() map[string]beatEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]beatEvent, len(s.latest))
	for k, v := range s.latest {
		out[k] = v
	}
	return out
}

func main() {
	var (
		natsURL = flag.String("nats", nats.DefaultURL, "NATS url")
		in      = flag.String("in", "ppg.wave", "input subject")
		out     = flag.String("out", "ppg.bp", "output subject")
		httpAdr = flag.String("http", ":8080", "HTTP listen address")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	nc, err := nats.Connect(*natsURL,
		nats.Name("bpproc"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		log.Fatal("nats connect", zap.Error(err))
	}
	defer nc.Drain()

	tracker := bpe.NewFeatureTracker()
	store := newLatestStore()

	models := []bpe.FeatureModel{
		bpe.NewMorphologyModel(),
		bpe.NewSymmetricSineModel(),
		bpe.NewDistortionSineModel(),
		bpe.NewSineParamModel(),
	}

	estimators := make([]*bpe.Estimator, 0, len(models))
	for _, model := range models {
		config := bpe.DefaultEstimatorConfig()
		config.Logger = log
		e := bpe.NewEstimator(config, model)
		e.SetFeatureProvider(tracker)

		name := model.Name()
		e.SetListener(func(sbp, dbp, sbpAvg, dbpAvg float64) {
			beatsAccepted.WithLabelValues(name).Inc()
			lastSBP.WithLabelValues(name).Set(sbpAvg)
			lastDBP.WithLabelValues(name).Set(dbpAvg)

			ev := beatEvent{
				Model:  name,
				Ts:     time.Now().UnixMilli(),
				SBP:    sbp,
				DBP:    dbp,
				SBPAvg: sbpAvg,
				DBPAvg: dbpAvg,
			}
			store.put(ev)

			b, err := json.Marshal(ev)
			if err != nil {
				log.Warn("marshal beat event", zap.Error(err))
				return
			}
			if err := nc.Publish(*out, b); err != nil {
				log.Warn("publish beat event", zap.Error(err))
			}
		})
		estimators = append(estimators, e)
	}

	// NATS delivers messages for one subscription sequentially, so the
	// estimators need no locking of their own.
	sub, err := nc.Subscribe(*in, func(msg *nats.Msg) {
		for off := 0; off+sampleFrameBytes <= len(msg.Data); off += sampleFrameBytes {
			value := math.Float64frombits(binary.LittleEndian.Uint64(msg.Data[off:]))
			ts := int64(binary.LittleEndian.Uint64(msg.Data[off+8:]))

			samplesReceived.Inc()
			tracker.Update(value, ts)
			for _, e := range estimators {
				e.Update(value, ts)
			}
		}
	})
	if err != nil {
		log.Fatal("subscribe", zap.Error(err))
	}
	defer sub.Unsubscribe()

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	router.HandleFunc("/bp", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(store.snapshot())
	}).Methods("GET")

	server := &http.Server{
		Addr:         *httpAdr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("addr", *httpAdr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	log.Info("processing",
		zap.String("in", *in),
		zap.String("out", *out))

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	<-ch

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
