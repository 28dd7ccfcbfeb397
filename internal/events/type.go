package events

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type EventFilter interface {
	Filter(record events.DynamoDBEventRecord) bool
	Apply(ctx context.Context, record events.DynamoDBEventRecord) error
}

// Dispatch hands every record to each handler that accepts it. A failing
// handler is logged and skips the rest of that record's handlers.
func Dispatch(ctx context.Context, logger *zap.Logger, handlers []EventFilter, event events.DynamoDBEvent) int {
	failures := 0
	for _, record := range event.Records {
		for _, handler := range handlers {
			if !handler.Filter(record) {
				continue
			}
			if err := handler.Apply(ctx, record); err != nil {
				logger.Error("Failed to handle stream record",
					zap.String("eventId", record.EventID),
					zap.String("eventName", record.EventName),
					zap.Error(err))
				failures++
				break
			}
		}
	}
	return failures
}

func _string(image map[string]events.DynamoDBAttributeValue, name string) string {
	if value, ok := image[name]; ok && value.DataType() == events.DataTypeString {
		return value.String()
	}
	return ""
}
