// Command client is a small terminal chat client for the relay.
// Messages are rendered in each user's assigned color; lines starting
// with "@name " are sent as directed messages.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wireMessage struct {
	Username  string  `json:"username"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
	To        *string `json:"to,omitempty"`
}

type palette struct {
	mu     sync.RWMutex
	colors map[string]string
}

func (p *palette) set(colors map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colors = colors
}

// render colors a username with its assigned hex color, falling back to
// plain text for users without one.
func (p *palette) render(username string) string {
	p.mu.RLock()
	hex, ok := p.colors[username]
	p.mu.RUnlock()
	if !ok {
		return username
	}
	return color.HEX(hex).Sprint(username)
}

func main() {
	addr := flag.String("addr", "ws://localhost:5000/ws", "relay WebSocket URL")
	username := flag.String("username", "", "display name to register")
	flag.Parse()
	if *username == "" {
		log.Fatal("missing -username")
	}

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()

	send(conn, "register", map[string]string{"username": *username})

	colors := &palette{}
	go receive(conn, colors, *username)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		payload := map[string]any{"text": line}
		if strings.HasPrefix(line, "@") {
			if name, text, ok := strings.Cut(line[1:], " "); ok {
				payload = map[string]any{"text": text, "to": name}
			}
		}
		send(conn, "message", payload)
	}
}

func send(conn *websocket.Conn, evt string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to encode %s: %v", evt, err)
		return
	}
	if err := conn.WriteJSON(frame{Event: evt, Payload: raw}); err != nil {
		log.Fatalf("Connection lost: %v", err)
	}
}

func receive(conn *websocket.Conn, colors *palette, self string) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			log.Fatalf("Connection closed: %v", err)
		}

		switch f.Event {
		case "message":
			var m wireMessage
			if err := json.Unmarshal(f.Payload, &m); err != nil {
				continue
			}
			printMessage(colors, m, self)
		case "history":
			var p struct {
				Messages []wireMessage `json:"messages"`
			}
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			for _, m := range p.Messages {
				printMessage(colors, m, self)
			}
		case "user_list":
			var p struct {
				Users []string `json:"users"`
			}
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			rendered := make([]string, len(p.Users))
			for i, u := range p.Users {
				rendered[i] = colors.render(u)
			}
			fmt.Printf("-- online: %s\n", strings.Join(rendered, ", "))
		case "user_colors":
			var p struct {
				Colors map[string]string `json:"colors"`
			}
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			colors.set(p.Colors)
		case "typing":
			var p struct {
				Username string `json:"username"`
			}
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			fmt.Printf("-- %s is typing...\n", colors.render(p.Username))
		}
	}
}

func printMessage(colors *palette, m wireMessage, self string) {
	// Directed messages not addressed to us are filtered client-side.
	if m.To != nil && *m.To != self && m.Username != self {
		return
	}
	prefix := ""
	if m.To != nil {
		prefix = "(private) "
	}
	fmt.Printf("%s%s: %s\n", prefix, colors.render(m.Username), m.Text)
}
