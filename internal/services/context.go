package services

import "context"

type contextKey string

const (
	runIDKey         contextKey = "run_id"
	shipmentIndexKey contextKey = "shipment_index"
	customerPOKey    contextKey = "customer_po"
	stageKey         contextKey = "stage"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithShipmentIndex annotates context with the 1-based shipment position in a batch.
func WithShipmentIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, shipmentIndexKey, index)
}

// ShipmentIndexFromContext extracts the shipment position if present.
func ShipmentIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(shipmentIndexKey).(int)
	return v, ok
}

// WithCustomerPO annotates context with the shipment's customer PO.
func WithCustomerPO(ctx context.Context, po string) context.Context {
	if po == "" {
		return ctx
	}
	return context.WithValue(ctx, customerPOKey, po)
}

// CustomerPOFromContext returns the customer PO if present.
func CustomerPOFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(customerPOKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
