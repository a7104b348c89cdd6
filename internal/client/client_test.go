package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
)

func TestListItemsRetriesTransientFailures(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"i1","item":"Maito","price":"1.29","payers":["Aino"]}]`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	items, err := c.ListItems(context.Background(), "mökki")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(items) != 1 || items[0].Label != "Maito" {
		t.Errorf("items = %v", items)
	}
}

func TestListItemsGivesUpAfterMaxTries(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.ListItems(context.Background(), "mökki")
	if err == nil {
		t.Fatal("ListItems succeeded, want failure")
	}
	if calls != maxListTries {
		t.Errorf("calls = %d, want %d", calls, maxListTries)
	}
}

func TestListItemsClientErrorsArePermanent(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"not_found","message":"event ghost"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.ListItems(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1: client errors must not be retried", calls)
	}
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := New(ts.URL)
	item := models.NewItem{Label: "Maito", Price: decimal.NewFromInt(1), Payers: []string{"Aino"}}

	if _, err := c.CreateItem(context.Background(), "mökki", item); err == nil {
		t.Fatal("CreateItem succeeded, want failure")
	}
	if err := c.CreateItemBatch(context.Background(), "mökki", []models.NewItem{item}); err == nil {
		t.Fatal("CreateItemBatch succeeded, want failure")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2: one per mutation, no retries", calls)
	}
}

func TestFetchErrorCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"conflict","message":"event mökki already exists"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.CreateEvent(context.Background(), "mökki", "")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if fe.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", fe.Status)
	}
	if want := "event mökki already exists"; !strings.Contains(fe.Error(), want) {
		t.Errorf("Error() = %q, want it to contain %q", fe.Error(), want)
	}
}
