package sap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

func TestUnconfiguredClientRefusesCalls(t *testing.T) {
	var nilClient *Client
	require.False(t, nilClient.Configured())

	empty := NewClient("")
	require.False(t, empty.Configured())

	_, err := empty.Sync(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)

	err = empty.SubmitNotice(context.Background(), &models.MaintenanceNotice{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSubmitNotice(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Pump leak", body["shortText"])
		json.NewEncoder(w).Encode(map[string]string{"notificationNumber": "10004321"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.SubmitNotice(context.Background(), &models.MaintenanceNotice{ShortText: "Pump leak"})
	require.NoError(t, err)
	require.Equal(t, "/notices", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
}

func TestSubmitNoticeExtractsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "equipment 77 does not exist"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.SubmitNotice(context.Background(), &models.MaintenanceNotice{ShortText: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "equipment 77 does not exist")
}

func TestSubmitNoticeFallsBackToStatusLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.SubmitNotice(context.Background(), &models.MaintenanceNotice{ShortText: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestSync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"tables": []string{"A", "B"}})
	}))
	defer srv.Close()

	tables, err := NewClient(srv.URL).Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, tables)
}

func TestFetchOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		json.NewEncoder(w).Encode([]models.SAPOrder{
			{OrderNumber: "4711", Description: "Replace bearing"},
		})
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "4711", orders[0].OrderNumber)
}

func TestReporterRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(models.Reporter{ID: 9, Cedula: body["cedula"].(string), WorkstationID: 3})
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			json.NewEncoder(w).Encode([]models.Reporter{{ID: 9, Cedula: "1098765432", WorkstationID: 3}})
		case r.Method == http.MethodDelete && r.URL.Path == "/users/9":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	created, err := client.CreateReporter(ctx, "1098765432", 3)
	require.NoError(t, err)
	require.Equal(t, 9, created.ID)

	reporters, err := client.ListReporters(ctx)
	require.NoError(t, err)
	require.Len(t, reporters, 1)

	require.NoError(t, client.DeleteReporter(ctx, 9))
}
