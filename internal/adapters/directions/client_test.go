package directions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

func TestWalkingRoutes_DecodesCandidates(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[
			{"points":[{"lat":40.0365,"lon":-75.3492},{"lat":40.0371,"lon":-75.3505}],
			 "steps":[{"instruction":"Head north","anchor":{"lat":40.0365,"lon":-75.3492}}]},
			{"points":[{"lat":40.0365,"lon":-75.3492},{"lat":40.0360,"lon":-75.3510}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	routes, err := c.WalkingRoutes(context.Background(),
		domain.GeoPoint{Lat: 40.0365, Lon: -75.3492},
		domain.GeoPoint{Lat: 40.0371, Lon: -75.3505})
	if err != nil {
		t.Fatalf("walking routes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(routes))
	}
	if len(routes[0].Steps) != 1 || routes[0].Steps[0].Instruction != "Head north" {
		t.Errorf("unexpected steps on first candidate: %+v", routes[0].Steps)
	}
	if len(routes[1].Steps) != 0 {
		t.Errorf("second candidate should have no steps, got %+v", routes[1].Steps)
	}

	var req walkRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if req.Mode != "walking" {
		t.Errorf("expected walking mode, got %q", req.Mode)
	}
	if !req.Alternatives {
		t.Error("expected alternatives to be requested")
	}
	if req.Origin.Lat != 40.0365 || req.Destination.Lon != -75.3505 {
		t.Errorf("unexpected endpoints in request: %+v", req)
	}
}

func TestWalkingRoutes_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	routes, err := c.WalkingRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if err != nil {
		t.Fatalf("walking routes: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("expected no candidates, got %d", len(routes))
	}
}

func TestWalkingRoutes_EmptyPolylineRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[{"points":[]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.WalkingRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestWalkingRoutes_MalformedPointRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[{"points":[{"lat":140.5,"lon":-75.3492}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.WalkingRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if !errors.Is(err, domain.ErrMalformedCoordinate) {
		t.Fatalf("expected ErrMalformedCoordinate, got %v", err)
	}
}

func TestWalkingRoutes_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.WalkingRoutes(context.Background(), domain.GeoPoint{}, domain.GeoPoint{}); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}
