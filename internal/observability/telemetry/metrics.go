package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dialogue engine
	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_voice_commands_total",
		Help: "Voice commands processed by intent and status",
	}, []string{"intent", "status"})

	ThreatAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lark_threat_alerts_total",
		Help: "Threat alerts raised by the assistant",
	})

	// Speech pipeline
	SpeechQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lark_speech_queue_depth",
		Help: "Utterances waiting in the speech output queue",
	})

	SpeechLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lark_speech_latency_seconds",
		Help:    "Time from dequeue to end of playback",
		Buckets: prometheus.DefBuckets,
	})

	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lark_transcription_latency_seconds",
		Help:    "Speech-to-text request latency",
		Buckets: prometheus.DefBuckets,
	})

	// AI providers
	CompletionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_completion_requests_total",
		Help: "Chat completion requests by provider and status",
	}, []string{"provider", "status"})

	CompletionTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_completion_tokens_total",
		Help: "Tokens consumed by chat completions",
	}, []string{"provider"})

	// Infrastructure
	DispatchMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_dispatch_messages_total",
		Help: "Messages published to dispatch by subject and status",
	}, []string{"subject", "status"})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lark_database_latency_seconds",
		Help:    "Database query latency",
		Buckets: prometheus.DefBuckets,
	})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_cache_hits_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lark_websocket_connections",
		Help: "Active websocket client connections",
	})
)
