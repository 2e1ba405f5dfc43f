// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"go.uber.org/zap"
)

// StandardObserver times remote operations and logs one structured entry
// per completed operation.
type StandardObserver struct {
	logger *zap.Logger
}

// NewStandardObserver creates observability component. A nil logger
// discards everything.
func NewStandardObserver(logger *zap.Logger) *StandardObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardObserver{logger: logger}
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, requestID string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()
	o.logger.Debug("operation started",
		zap.String("component", component),
		zap.String("operation", operation),
		zap.String("request_id", requestID),
	)

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			RequestID:  requestID,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.String("request_id", data.RequestID),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}
	o.logger.Info("operation completed", fields...)
}

// LogDetail logs a detail within the current operation
func (o *StandardObserver) LogDetail(component, detail string) {
	o.logger.Debug(detail, zap.String("component", component))
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
