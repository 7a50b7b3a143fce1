package metrics

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace      = "Groove/API"
	putTimeout     = 5 * time.Second
	unknownGenre   = "unknown"
	envProduction  = "production"
	dimEnvironment = "Environment"
)

// Client publishes service metrics to CloudWatch. Outside production, or
// without AWS credentials, every method is a no-op.
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a CloudWatch client for environment
func NewClient(ctx context.Context, environment string) (*Client, error) {
	if environment != envProduction {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{environment: environment}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return &Client{
		client:      cloudwatch.NewFromConfig(cfg),
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether metrics are being sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records a request count (APIErrors for 5xx) and its latency
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	count := "APIRequests"
	if statusCode >= http.StatusInternalServerError {
		count = "APIErrors"
	}
	m.publish(m.dimensions("Endpoint", endpoint),
		datum(count, 1, types.StandardUnitCount),
		datum("APILatency", millis(duration), types.StandardUnitMilliseconds),
	)
}

// RecordRecommendation records one recommendation, its top score and latency
func (m *Client) RecordRecommendation(genre string, topScore int, duration time.Duration) {
	m.publish(m.dimensions("Genre", genreDimension(genre)),
		datum("Recommendations", 1, types.StandardUnitCount),
		datum("RecommendationTopScore", float64(topScore), types.StandardUnitNone),
		datum("RecommendationLatency", millis(duration), types.StandardUnitMilliseconds),
	)
}

// RecordCorrections records how many coherence rules fired for a genre
func (m *Client) RecordCorrections(genre string, count int) {
	m.publish(m.dimensions("Genre", genreDimension(genre)),
		datum("DrumCorrections", float64(count), types.StandardUnitCount),
	)
}

// RecordRenderDuration records an offline bounce
func (m *Client) RecordRenderDuration(duration time.Duration, success bool) {
	m.publish(m.dimensions("Success", boolToString(success)),
		datum("RenderDuration", millis(duration), types.StandardUnitMilliseconds),
	)
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String(name), Value: aws.String(value)},
		{Name: aws.String(dimEnvironment), Value: aws.String(m.environment)},
	}
}

// publish sends data in one PutMetricData call without blocking the caller
func (m *Client) publish(dims []types.Dimension, data ...types.MetricDatum) {
	if !m.Enabled() || m.client == nil {
		return
	}

	now := aws.Time(time.Now())
	for i := range data {
		data[i].Dimensions = dims
		data[i].Timestamp = now
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
		defer cancel()

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(namespace),
			MetricData: data,
		})
		if err != nil {
			log.Printf("Failed to record %s metrics: %v", aws.ToString(data[0].MetricName), err)
		}
	}()
}

func datum(name string, value float64, unit types.StandardUnit) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func genreDimension(genre string) string {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		return unknownGenre
	}
	return genre
}
