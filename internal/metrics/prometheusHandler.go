package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var documentsIndexed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_indexed_total",
	Help: "Uploaded documents by indexing outcome",
}, []string{"result"})

var chunkEmbeddings = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunk_embeddings_total",
	Help: "Embedding calls by outcome",
}, []string{"result"})

var imagesExtracted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "images_extracted_total",
	Help: "Images cropped out of uploaded documents",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CountDocumentIndexed(ok bool) {
	documentsIndexed.WithLabelValues(result(ok)).Inc()
}

func CountChunkEmbedding(ok bool) {
	chunkEmbeddings.WithLabelValues(result(ok)).Inc()
}

func AddImagesExtracted(n int) {
	imagesExtracted.Add(float64(n))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
