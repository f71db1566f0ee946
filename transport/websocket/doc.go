// Package websocket provides live vehicle updates over WebSocket.
//
// The websocket package implements:
//   - Per-vehicle and fleet-wide subscriptions
//   - Broadcasting of vehicle state after each applied operation
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns every
// subscription. Registration, removal and fan-out all run on the hub's event
// loop, so subscription state is never touched from other goroutines. Each
// connection gets a read pump and a write pump.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"vehicle_id": "7f0c...", "event": "vehicle_update", "vehicle": {...}}
//
// Clients subscribe to one vehicle with ?vehicle=<id>, or to the whole fleet
// by omitting the parameter. Fleet subscribers receive every update.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, vehicleID)
//	hub.BroadcastVehicle(info)
package websocket
