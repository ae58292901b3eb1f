package backend_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/backend/mock_backend"
	"github.com/takak2166/appstruct/internal/models"
)

func TestCacheServesRepeatedListings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockBackend := mock_backend.NewMockBackend(ctrl)
	mockBackend.EXPECT().ListFlows(ctx, "p1").Return([]models.Flow{{ID: "f1", Name: "AUTH FLOW", Project: "p1"}}, nil).Times(2)
	mockBackend.EXPECT().ListPages(ctx, "p1").Return([]models.Page{{ID: "pg1", Name: "Login", Project: "p1"}}, nil).Times(1)

	cache := backend.NewCache(mockBackend)

	for i := 0; i < 3; i++ {
		flows, err := cache.ListFlows(ctx, "p1")
		if err != nil {
			t.Fatalf("ListFlows() error = %v", err)
		}
		if len(flows) != 1 {
			t.Fatalf("expected 1 flow, got %d", len(flows))
		}
		flows[0].Name = "mutated by caller"
	}
	if _, err := cache.ListPages(ctx, "p1"); err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if _, err := cache.ListPages(ctx, "p1"); err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}

	cache.Invalidate(ctx, "p1")

	flows, err := cache.ListFlows(ctx, "p1")
	if err != nil {
		t.Fatalf("ListFlows() after invalidate error = %v", err)
	}
	if flows[0].Name != "AUTH FLOW" {
		t.Errorf("cached value was modified through a returned slice: %q", flows[0].Name)
	}
}

func TestCachePassesWritesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockBackend := mock_backend.NewMockBackend(ctrl)
	mockBackend.EXPECT().DeletePage(ctx, "pg1").Return(nil)
	mockBackend.EXPECT().CreateFlow(ctx, gomock.Any()).Return(models.Flow{ID: "f9", Name: "NEW FLOW"}, nil)

	cache := backend.NewCache(mockBackend)
	if err := cache.DeletePage(ctx, "pg1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}
	flow, err := cache.CreateFlow(ctx, models.Flow{Name: "NEW FLOW"})
	if err != nil {
		t.Fatalf("CreateFlow() error = %v", err)
	}
	if flow.ID != "f9" {
		t.Errorf("unexpected flow: %+v", flow)
	}
}
