package availability

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	wsMu        sync.Mutex
)

type wsUpdate struct {
	Type   string `json:"type"`
	TourID string `json:"tourId"`
	Date   string `json:"date,omitempty"`
}

// HandleWS subscribes a client to availability changes for one tour.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	wsMu.Lock()
	subscribers[tourID] = append(subscribers[tourID], conn)
	wsMu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Clean up on disconnect
	wsMu.Lock()
	conns := subscribers[tourID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[tourID] = newList
	wsMu.Unlock()

	conn.Close()
}

// BroadcastUpdate tells every subscriber of a tour that its availability
// changed. Dead connections are dropped as they are found.
func BroadcastUpdate(tourID, date string) {
	data, _ := json.Marshal(wsUpdate{Type: "update", TourID: tourID, Date: date})

	wsMu.Lock()
	defer wsMu.Unlock()

	conns := subscribers[tourID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[tourID] = newList
}
