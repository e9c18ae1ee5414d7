package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var events = otel.Tracer("courtside.events")

// TraceFeedPage starts a span for building one page of a feed
func TraceFeedPage(ctx context.Context, feed string, page, pageSize int) (context.Context, trace.Span) {
	return events.Start(ctx, "feed.page",
		trace.WithAttributes(
			attribute.String("feed.name", feed),
			attribute.Int("feed.page", page),
			attribute.Int("feed.page_size", pageSize),
		),
	)
}

// TraceCreatePost starts a span for publishing a post
func TraceCreatePost(ctx context.Context, userID, postType string) (context.Context, trace.Span) {
	return events.Start(ctx, "post.create",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("post.type", postType),
		),
	)
}

// TraceSendMessage starts a span for a direct message
func TraceSendMessage(ctx context.Context, senderID, recipientID string) (context.Context, trace.Span) {
	return events.Start(ctx, "message.send",
		trace.WithAttributes(
			attribute.String("message.sender_id", senderID),
			attribute.String("message.recipient_id", recipientID),
		),
	)
}

// TraceDiscover starts a span for a map search
func TraceDiscover(ctx context.Context, radiusKm float64) (context.Context, trace.Span) {
	return events.Start(ctx, "discover.players",
		trace.WithAttributes(attribute.Float64("discover.radius_km", radiusKm)),
	)
}
