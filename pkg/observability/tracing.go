// Package observability provides X-Ray tracing and CloudWatch metrics for
// the content service.
package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps X-Ray segment handling behind a small surface so callers
// never import the SDK directly
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a tracer. When disabled it degrades to plain function
// calls, which keeps local runs free of X-Ray daemon noise.
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{serviceName: serviceName, enabled: enabled}
}

// Capture runs fn inside a subsegment named after the operation
func (t *Tracer) Capture(ctx context.Context, operation string, fn func(context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	return xray.Capture(ctx, t.serviceName+"."+operation, fn)
}

// Annotate adds an indexed annotation to the current segment
func (t *Tracer) Annotate(ctx context.Context, key, value string) {
	if !t.enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}

// RecordError attaches err to the current segment
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if !t.enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddError(err)
	}
}
