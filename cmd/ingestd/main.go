// ingestd subscribes to the raw traffic-message feed, classifies and
// matches each message and appends the resulting status events to the
// history database.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/config"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/ingest"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_ingest_messages_received_total",
		Help: "Total number of raw messages received from the feed.",
	})
	msgsUnknown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_ingest_messages_unknown_total",
		Help: "Total number of messages that classified as unknown.",
	})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_ingest_messages_failed_total",
		Help: "Total number of messages that failed to process.",
	})
	eventsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_ingest_events_inserted_total",
		Help: "Total number of status events appended to the history.",
	})
	eventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_ingest_events_duplicate_total",
		Help: "Total number of status events skipped as duplicates.",
	})
	integrityViolations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tareeqy_ingest_integrity_violations",
		Help: "Messages whose stored hash no longer matches their text.",
	})
)

var redisClient *redis.Client

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("bad configuration: %v", err)
	}

	dbPool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("db pool init failed: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}

	store := history.NewPostgresStore(dbPool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}
	if err := ingest.Seed(ctx, store, config.DefaultFenceNames(), config.DefaultAliases()); err != nil {
		log.Fatalf("fence seeding failed: %v", err)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("invalid REDIS_URL, skipping Redis: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("redis ping failed, skipping Redis: %v", err)
				redisClient = nil
			} else {
				log.Printf("redis connected: %s", cfg.RedisURL)
			}
		}
	}

	pipeline := &ingest.Pipeline{
		Store:    store,
		Matcher:  fence.DefaultMatcher(),
		Taxonomy: config.DefaultTaxonomy(),
		Location: cfg.Location(),
	}

	go serveHTTP(cfg.MetricsAddr)
	go integritySweep(ctx, store, time.Duration(cfg.IntegritySweepMin)*time.Minute)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTURL)
	opts.SetClientID("ingestd-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		processPayload(ctx, pipeline, message.Payload())
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.MQTTTopic, 0, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("ingestd subscribed to topic=%s", cfg.MQTTTopic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		log.Fatalf("mqtt connection failed: %v", token.Error())
	}

	log.Printf("ingestd running, mqtt=%s db=ok metrics=%s", cfg.MQTTURL, cfg.MetricsAddr)

	<-ctx.Done()
	log.Printf("ingestd shutting down")
	client.Disconnect(250)
	if redisClient != nil {
		redisClient.Close()
	}
}

type rawPayload struct {
	MessageID int64  `json:"message_id"`
	TS        string `json:"ts"`
	Source    string `json:"source"`
	Text      string `json:"text"`
}

func processPayload(ctx context.Context, pipeline *ingest.Pipeline, payloadRaw []byte) {
	msgsReceived.Inc()

	var payload rawPayload
	if err := json.Unmarshal(payloadRaw, &payload); err != nil {
		msgsFailed.Inc()
		log.Printf("invalid payload: %v", err)
		return
	}

	// A malformed timestamp is dropped rather than replaced with now():
	// replaying a feed window must reproduce the original (fence, time)
	// pairs, and a minted timestamp would slip past the dedupe.
	at := time.Now()
	if payload.TS != "" {
		parsed, err := time.Parse(time.RFC3339, payload.TS)
		if err != nil {
			msgsFailed.Inc()
			log.Printf("invalid ts %q in payload: %v", payload.TS, err)
			return
		}
		at = parsed
	}

	res, err := pipeline.ProcessMessage(ctx, ingest.RawMessage{
		MessageID: payload.MessageID,
		Source:    payload.Source,
		Text:      payload.Text,
		Time:      at,
	})
	if err != nil {
		msgsFailed.Inc()
		log.Printf("process failed: %v", err)
		return
	}
	if res.Status == status.Unknown {
		msgsUnknown.Inc()
		return
	}
	eventsInserted.Add(float64(res.Inserted))
	eventsDuplicate.Add(float64(res.Duplicate))

	if redisClient != nil && res.Inserted > 0 {
		data, err := json.Marshal(res)
		if err == nil {
			_ = redisClient.Publish(ctx, "tareeqy:events", data).Err()
		}
	}
}

// integritySweep periodically re-hashes stored messages and reports
// mismatches. Violations are warnings: the events derived from a tampered
// message stay in place, the operator decides what to do.
func integritySweep(ctx context.Context, store history.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			violations, err := store.VerifyIntegrity(ctx)
			if err != nil {
				log.Printf("integrity sweep failed: %v", err)
				continue
			}
			integrityViolations.Set(float64(len(violations)))
			for _, v := range violations {
				log.Printf("integrity violation: message=%d stored=%s computed=%s",
					v.MessageID, v.StoredHash, v.ComputedHash)
				if redisClient != nil {
					data, err := json.Marshal(v)
					if err == nil {
						_ = redisClient.Publish(ctx, "tareeqy:integrity", data).Err()
					}
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}
