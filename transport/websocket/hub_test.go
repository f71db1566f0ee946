package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/wricardo/fleet-garage/fleet/service"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

func newTestInfo(id uuid.UUID) *service.VehicleInfo {
	return &service.VehicleInfo{
		State: vehicle.State{
			ID:           id,
			Kind:         vehicle.Car,
			Tires:        4,
			Color:        "Red",
			Brand:        "Ford",
			Model:        "Mustang",
			FuelCapacity: 10,
			FuelLevel:    0.1,
		},
		Name: "Ford Mustang",
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.topics == nil {
		t.Error("Hub topics map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels are not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := &Client{
		hub:   hub,
		topic: "vehicle-1",
		send:  make(chan []byte, bufferSize),
	}

	hub.registerClient(client)

	if !hub.topics["vehicle-1"][client] {
		t.Error("Client was not registered in topic")
	}
	if len(hub.topics["vehicle-1"]) != 1 {
		t.Errorf("Expected 1 client in topic, got %d", len(hub.topics["vehicle-1"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := &Client{
		hub:   hub,
		topic: "vehicle-1",
		send:  make(chan []byte, bufferSize),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.topics["vehicle-1"]; exists {
		t.Error("Empty topic was not cleaned up")
	}

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Client send channel should be closed")
		}
	default:
		t.Error("Client send channel was not closed")
	}

	// Unregistering twice is a no-op
	hub.unregisterClient(client)
}

func TestHubBroadcastMessage_FleetSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	vehicleClient := &Client{hub: hub, topic: "vehicle-1", send: make(chan []byte, bufferSize)}
	otherClient := &Client{hub: hub, topic: "vehicle-2", send: make(chan []byte, bufferSize)}
	fleetClient := &Client{hub: hub, topic: FleetTopic, send: make(chan []byte, bufferSize)}

	hub.registerClient(vehicleClient)
	hub.registerClient(otherClient)
	hub.registerClient(fleetClient)

	hub.broadcastMessage(&Message{VehicleID: "vehicle-1", Event: "test_event", Data: "payload"})

	for name, client := range map[string]*Client{"vehicle": vehicleClient, "fleet": fleetClient} {
		select {
		case data := <-client.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("%s client: failed to unmarshal message: %v", name, err)
			}
			if msg.VehicleID != "vehicle-1" || msg.Event != "test_event" {
				t.Errorf("%s client: unexpected message %+v", name, msg)
			}
		default:
			t.Errorf("%s client did not receive the message", name)
		}
	}

	select {
	case <-otherClient.send:
		t.Error("Client of another vehicle should not receive the message")
	default:
	}
}

func TestHubBroadcastMessage_DropsSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	slow := &Client{hub: hub, topic: "vehicle-1", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{VehicleID: "vehicle-1", Event: "test_event"})

	if _, exists := hub.topics["vehicle-1"]; exists {
		t.Error("Slow client should have been dropped")
	}
}

func waitForClients(t *testing.T, hub *Hub, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(topic) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients on topic %q, got %d", want, topic, hub.ClientCount(topic))
}

func TestServeWS_BroadcastVehicle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("vehicle"))
	}))
	defer server.Close()

	id := uuid.New()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	vehicleConn, _, err := websocket.DefaultDialer.Dial(wsURL+"?vehicle="+id.String(), nil)
	if err != nil {
		t.Fatalf("Failed to connect vehicle subscriber: %v", err)
	}
	defer vehicleConn.Close()

	fleetConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect fleet subscriber: %v", err)
	}
	defer fleetConn.Close()

	waitForClients(t, hub, id.String(), 1)
	waitForClients(t, hub, FleetTopic, 1)

	hub.BroadcastVehicle(newTestInfo(id))

	for name, conn := range map[string]*websocket.Conn{"vehicle": vehicleConn, "fleet": fleetConn} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("%s subscriber: failed to read message: %v", name, err)
		}
		if msg.Event != EventVehicleUpdate {
			t.Errorf("%s subscriber: expected event %s, got %s", name, EventVehicleUpdate, msg.Event)
		}
		if msg.Vehicle == nil || msg.Vehicle.ID != id {
			t.Fatalf("%s subscriber: expected vehicle %s, got %+v", name, id, msg.Vehicle)
		}
		if msg.Vehicle.FuelLevel != 0.1 {
			t.Errorf("%s subscriber: expected fuel level 0.1, got %v", name, msg.Vehicle.FuelLevel)
		}
	}
}

func TestServeWS_ClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "vehicle-1")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	waitForClients(t, hub, "vehicle-1", 1)
	conn.Close()
	waitForClients(t, hub, "vehicle-1", 0)
}

func TestHub_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Hub did not stop after context cancellation")
	}

	// Broadcasting to a stopped hub must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < bufferSize+10; i++ {
			hub.BroadcastEvent("vehicle-1", "late", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastEvent blocked on a stopped hub")
	}

	if n := hub.ClientCount("vehicle-1"); n != 0 {
		t.Errorf("Expected 0 clients on stopped hub, got %d", n)
	}
}
