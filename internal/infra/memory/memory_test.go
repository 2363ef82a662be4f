package memory

import (
	"context"
	"errors"
	"testing"

	"survey-flow-service/internal/domain"
)

func TestSurveyStoreLookupAndStatus(t *testing.T) {
	store := NewSurveyStore(map[string]domain.Survey{
		"svy-1": {ID: "svy-1", Status: domain.StatusPublished},
	})
	ctx := context.Background()

	survey, err := store.GetSurvey(ctx, "svy-1")
	if err != nil {
		t.Fatalf("get survey: %v", err)
	}
	if survey.Status != domain.StatusPublished {
		t.Fatalf("unexpected status %s", survey.Status)
	}

	if _, err := store.GetSurvey(ctx, "missing"); !errors.Is(err, domain.ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}

	if err := store.SetStatus(ctx, "svy-1", domain.StatusClosed); err != nil {
		t.Fatalf("set status: %v", err)
	}
	survey, _ = store.GetSurvey(ctx, "svy-1")
	if survey.Status != domain.StatusClosed {
		t.Fatalf("expected closed, got %s", survey.Status)
	}
}

func TestResponseStorePagination(t *testing.T) {
	store := NewResponseStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		resp := domain.Response{
			ID:       string(rune('a' + i)),
			SurveyID: "svy-1",
			Status:   domain.ResponseCompleted,
		}
		if err := store.Create(ctx, resp); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, total, err := store.List(ctx, "svy-1", 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "d" {
		t.Fatalf("unexpected page %+v", page)
	}

	page, total, err = store.List(ctx, "svy-1", 10, 2)
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if total != 5 || len(page) != 0 {
		t.Fatalf("expected empty page with total 5, got %d items total %d", len(page), total)
	}
}

func TestResponseStoreDuplicateCheck(t *testing.T) {
	store := NewResponseStore()
	ctx := context.Background()

	store.Create(ctx, domain.Response{
		ID:            "r1",
		SurveyID:      "svy-1",
		Status:        domain.ResponseDisqualified,
		RespondentUID: "uid-1",
	})
	if ok, _ := store.HasCompleted(ctx, "svy-1", "uid-1"); ok {
		t.Fatalf("disqualified response must not count as completed")
	}

	store.Create(ctx, domain.Response{
		ID:            "r2",
		SurveyID:      "svy-1",
		Status:        domain.ResponseCompleted,
		RespondentUID: "uid-1",
	})
	if ok, _ := store.HasCompleted(ctx, "svy-1", "uid-1"); !ok {
		t.Fatalf("expected completed response found")
	}
	if ok, _ := store.HasCompleted(ctx, "svy-2", "uid-1"); ok {
		t.Fatalf("duplicate check must be scoped per survey")
	}
}

func TestResponseStoreDeleteAll(t *testing.T) {
	store := NewResponseStore()
	ctx := context.Background()
	store.Create(ctx, domain.Response{ID: "r1", SurveyID: "svy-1"})
	store.Create(ctx, domain.Response{ID: "r2", SurveyID: "svy-2"})

	if err := store.DeleteAll(ctx, "svy-1"); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	_, total, _ := store.List(ctx, "svy-1", 0, 10)
	if total != 0 {
		t.Fatalf("expected svy-1 emptied, total %d", total)
	}
	_, total, _ = store.List(ctx, "svy-2", 0, 10)
	if total != 1 {
		t.Fatalf("other surveys must be untouched, total %d", total)
	}
}

func TestCounterStoreIncrementsAndResets(t *testing.T) {
	store := NewCounterStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Increment(ctx, "svy-1", "quota-1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	store.Increment(ctx, "svy-2", "quota-1")

	snapshot, err := store.Snapshot(ctx, "svy-1", []string{"quota-1", "quota-2"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot["quota-1"] != 3 || snapshot["quota-2"] != 0 {
		t.Fatalf("unexpected snapshot %v", snapshot)
	}

	if err := store.Reset(ctx, "svy-1", []string{"quota-1"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snapshot, _ = store.Snapshot(ctx, "svy-1", []string{"quota-1"})
	if snapshot["quota-1"] != 0 {
		t.Fatalf("expected reset counter, got %d", snapshot["quota-1"])
	}
	snapshot, _ = store.Snapshot(ctx, "svy-2", []string{"quota-1"})
	if snapshot["quota-1"] != 1 {
		t.Fatalf("reset must be scoped per survey, got %d", snapshot["quota-1"])
	}
}

func TestWebhookStoreListsPerSurvey(t *testing.T) {
	store := NewWebhookStore()
	store.Put(domain.WebhookConfig{ID: "wh-1", SurveyID: "svy-1", URL: "http://a"})
	store.Put(domain.WebhookConfig{ID: "wh-2", SurveyID: "svy-1", URL: "http://b"})
	store.Put(domain.WebhookConfig{ID: "wh-3", SurveyID: "svy-2", URL: "http://c"})

	configs, err := store.ListBySurvey(context.Background(), "svy-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(configs) != 2 || configs[0].ID != "wh-1" || configs[1].ID != "wh-2" {
		t.Fatalf("unexpected configs %+v", configs)
	}
}
