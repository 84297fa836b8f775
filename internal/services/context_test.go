package services_test

import (
	"context"
	"testing"

	"asn856/internal/services"
)

func TestContextHelpersRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on empty context")
	}
	if _, ok := services.ShipmentIndexFromContext(ctx); ok {
		t.Fatal("expected no shipment index on empty context")
	}

	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithShipmentIndex(ctx, 3)
	ctx = services.WithCustomerPO(ctx, "525251000501")
	ctx = services.WithStage(ctx, "encode")

	if v, ok := services.RunIDFromContext(ctx); !ok || v != "run-42" {
		t.Fatalf("unexpected run id %q %v", v, ok)
	}
	if v, ok := services.ShipmentIndexFromContext(ctx); !ok || v != 3 {
		t.Fatalf("unexpected shipment index %d %v", v, ok)
	}
	if v, ok := services.CustomerPOFromContext(ctx); !ok || v != "525251000501" {
		t.Fatalf("unexpected customer po %q %v", v, ok)
	}
	if v, ok := services.StageFromContext(ctx); !ok || v != "encode" {
		t.Fatalf("unexpected stage %q %v", v, ok)
	}
}

func TestEmptyValuesLeaveContextUnchanged(t *testing.T) {
	ctx := context.Background()
	if services.WithRunID(ctx, "") != ctx {
		t.Fatal("empty run id should not wrap context")
	}
	if services.WithCustomerPO(ctx, "") != ctx {
		t.Fatal("empty customer po should not wrap context")
	}
	if services.WithStage(ctx, "") != ctx {
		t.Fatal("empty stage should not wrap context")
	}
}
