package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

const metricTimeout = 5 * time.Second

// recordMetric ships a data point in the background so CloudWatch latency never
// reaches the caller. A nil recorder disables metrics.
func recordMetric(recorder aws_pkg.MetricsRecorder, log *zap.Logger, name string, fn func(ctx context.Context, r aws_pkg.MetricsRecorder) error) {
	if recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricTimeout)
		defer cancel()
		if err := fn(ctx, recorder); err != nil {
			log.Warn("Failed to record metric", zap.String("metric", name), zap.Error(err))
		}
	}()
}
