package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FieldClientConfig holds the field client configuration
type FieldClientConfig struct {
	ServerURL string
	Token     string
}

// FieldClient simulates an in-vehicle LARK client: it sends officer
// utterances over the voice websocket and prints the spoken responses
// arriving on the event stream.
type FieldClient struct {
	config    *FieldClientConfig
	voiceConn *websocket.Conn
	eventConn *websocket.Conn
	log       *zap.Logger

	writeMu  sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewFieldClient creates a new field client
func NewFieldClient(config *FieldClientConfig, log *zap.Logger) *FieldClient {
	return &FieldClient{
		config:   config,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Connect opens the voice and event websocket channels
func (c *FieldClient) Connect() error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.config.Token)

	voiceConn, _, err := websocket.DefaultDialer.Dial(c.config.ServerURL+"/ws/voice", header)
	if err != nil {
		return fmt.Errorf("failed to connect voice channel: %w", err)
	}
	c.voiceConn = voiceConn

	eventConn, _, err := websocket.DefaultDialer.Dial(c.config.ServerURL+"/ws/events", header)
	if err != nil {
		voiceConn.Close()
		return fmt.Errorf("failed to connect event channel: %w", err)
	}
	c.eventConn = eventConn

	c.log.Info("Connected to LARK server", zap.String("server", c.config.ServerURL))

	c.wg.Add(2)
	go c.readVoiceResponses()
	go c.readEvents()

	return nil
}

// Stop closes both channels
func (c *FieldClient) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		if c.voiceConn != nil {
			c.voiceConn.Close()
		}
		if c.eventConn != nil {
			c.eventConn.Close()
		}
	})
	c.wg.Wait()
}

// Say sends one utterance as a text command frame
func (c *FieldClient) Say(text string) error {
	frame, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	fmt.Printf("[officer] %s\n", text)
	return c.voiceConn.WriteMessage(websocket.TextMessage, frame)
}

type voiceResponse struct {
	Transcript string `json:"transcript"`
	Response   *struct {
		Text   string `json:"text"`
		Intent string `json:"intent"`
	} `json:"response"`
	Error string `json:"error"`
}

func (c *FieldClient) readVoiceResponses() {
	defer c.wg.Done()

	for {
		_, data, err := c.voiceConn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopChan:
			default:
				c.log.Error("Voice channel read error", zap.Error(err))
			}
			return
		}

		var resp voiceResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Error("Invalid voice response", zap.Error(err))
			continue
		}

		switch {
		case resp.Error != "":
			fmt.Printf("[error] %s\n", resp.Error)
		case resp.Response != nil:
			fmt.Printf("[lark:%s] %s\n", resp.Response.Intent, resp.Response.Text)
		}
	}
}

type hubEvent struct {
	Type    string `json:"type"`
	Payload struct {
		Text   string  `json:"text"`
		Volume float64 `json:"volume"`
	} `json:"payload"`
}

func (c *FieldClient) readEvents() {
	defer c.wg.Done()

	for {
		_, data, err := c.eventConn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopChan:
			default:
				c.log.Error("Event channel read error", zap.Error(err))
			}
			return
		}

		var event hubEvent
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		if event.Type == "speech" {
			fmt.Printf("[speaker vol=%.1f] %s\n", event.Payload.Volume, event.Payload.Text)
		}
	}
}

// scenarios are scripted patrol sequences, paced the way an officer would
// actually talk.
var scenarios = map[string][]string{
	"patrol": {
		"start patrol mode",
		"what's my current status",
		"look up the statute on theft",
	},
	"pursuit": {
		"i'm in pursuit of a black sedan",
		"suspect heading north on main street",
		"i need backup now",
	},
	"domestic": {
		"responding to a domestic call",
		"read miranda rights in spanish",
		"start a report",
	},
}

// RunScenario plays one scripted sequence
func (c *FieldClient) RunScenario(name string) error {
	script, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario: %s", name)
	}

	fmt.Printf("Running scenario %q\n", name)
	for _, line := range script {
		if err := c.Say(line); err != nil {
			return err
		}
		// Leave room for the spoken response to come back.
		time.Sleep(2 * time.Second)
	}
	return nil
}

// RunInteractive runs the client in interactive mode
func (c *FieldClient) RunInteractive() {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)

		if len(parts) == 0 {
			fmt.Print("> ")
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "say":
			if len(args) == 0 {
				fmt.Println("Usage: say <text>")
			} else if err := c.Say(strings.Join(args, " ")); err != nil {
				fmt.Printf("Send failed: %v\n", err)
			}

		case "scenario":
			if len(args) == 0 {
				fmt.Println("Usage: scenario patrol|pursuit|domestic")
			} else if err := c.RunScenario(args[0]); err != nil {
				fmt.Printf("Scenario failed: %v\n", err)
			}

		case "quit", "exit":
			fmt.Println("Goodbye!")
			return

		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}

		fmt.Print("> ")
	}
}
