package client

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

// Client is the terminal front end: it renders server events as text and
// turns typed commands into protocol messages. All game rules live on the
// server.
type Client struct {
	ServerAddr string
	Name       string
	Conn       net.Conn

	playerID uuid.UUID
	names    map[uuid.UUID]string
}

func New(serverAddr, name string) *Client {
	return &Client{
		ServerAddr: serverAddr,
		Name:       name,
		names:      make(map[uuid.UUID]string),
	}
}

func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.ServerAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	c.Conn = conn
	fmt.Printf("Connected to server at %s\n", c.ServerAddr)

	if err := c.send(protocol.JoinGame, protocol.JoinPayload{Name: c.Name}); err != nil {
		return err
	}

	go c.startWriteLoop()
	c.startReadLoop()

	return nil
}

func (c *Client) send(t protocol.MessageType, payload any) error {
	msg, err := protocol.NewMessage(t, payload)
	if err != nil {
		return err
	}
	if err := protocol.WriteMessage(c.Conn, msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", t, err)
	}
	return nil
}

func (c *Client) startWriteLoop() {
	defer c.Conn.Close()

	fmt.Println("Commands: ready | roll [dice to hold, e.g. 'roll 1 4 5'] | score <category> | say <text> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "ready":
			err = c.send(protocol.Ready, nil)
		case "roll":
			var hold [5]bool
			for _, arg := range fields[1:] {
				i, convErr := strconv.Atoi(arg)
				if convErr != nil || i < 1 || i > 5 {
					fmt.Printf("hold positions are 1-5, got '%s'\n", arg)
					continue
				}
				hold[i-1] = true
			}
			err = c.send(protocol.RerollDice, protocol.RerollPayload{Hold: hold})
		case "score":
			if len(fields) != 2 {
				fmt.Println("usage: score <category>")
				continue
			}
			category, parseErr := protocol.ParseCategory(fields[1])
			if parseErr != nil {
				fmt.Println(parseErr)
				continue
			}
			err = c.send(protocol.ScoreCategory, protocol.ScorePayload{Category: category})
		case "say":
			err = c.send(protocol.Chat, protocol.ChatPayload{Text: strings.Join(fields[1:], " ")})
		case "quit":
			c.send(protocol.Leave, nil)
			return
		default:
			fmt.Printf("unknown command '%s'\n", fields[0])
			continue
		}

		if err != nil {
			fmt.Printf("Failed to send message: %v\n", err)
			return
		}
	}
}

func (c *Client) startReadLoop() {
	defer c.Conn.Close()

	for {
		msg, err := protocol.ReadMessage(c.Conn)
		if err != nil {
			fmt.Printf("Connection closed: %v\n", err)
			return
		}

		if done := c.handleMessage(msg); done {
			return
		}
	}
}

func (c *Client) handleMessage(msg protocol.Message) bool {
	switch msg.Type {
	case protocol.Welcome:
		var p protocol.WelcomePayload
		if msg.Decode(&p) != nil {
			return false
		}
		c.playerID = p.PlayerID
		for _, info := range p.Roster {
			c.names[info.ID] = info.Name
		}
		fmt.Printf("Joined as %s. Players in lobby: %d\n", c.Name, len(p.Roster))

	case protocol.PlayerJoined:
		var p protocol.PlayerJoinedPayload
		if msg.Decode(&p) != nil {
			return false
		}
		c.names[p.ID] = p.Name
		fmt.Printf("%s joined the lobby\n", p.Name)

	case protocol.PlayerLeft:
		var p protocol.PlayerLeftPayload
		if msg.Decode(&p) != nil {
			return false
		}
		fmt.Printf("%s left\n", c.name(p.ID))

	case protocol.GameStarted:
		var p protocol.GameStartedPayload
		if msg.Decode(&p) != nil {
			return false
		}
		names := make([]string, 0, len(p.Order))
		for _, info := range p.Order {
			c.names[info.ID] = info.Name
			names = append(names, info.Name)
		}
		fmt.Printf("Game started! Turn order: %s\n", strings.Join(names, ", "))

	case protocol.TurnStarted:
		var p protocol.TurnStartedPayload
		if msg.Decode(&p) != nil {
			return false
		}
		if p.PlayerID == c.playerID {
			fmt.Printf("--- Round %d: your turn ---\n", p.Round+1)
			fmt.Printf("Rolled %v (%d re-rolls left)\n", p.Dice, p.RollsRemaining)
		} else {
			fmt.Printf("--- Round %d: %s's turn, rolled %v ---\n", p.Round+1, c.name(p.PlayerID), p.Dice)
		}

	case protocol.DiceRolled:
		var p protocol.DiceRolledPayload
		if msg.Decode(&p) != nil {
			return false
		}
		fmt.Printf("Dice: %v held: %s (%d re-rolls left)\n", p.Dice, holdString(p.Held), p.RollsRemaining)

	case protocol.ScoreRecorded:
		var p protocol.ScoreRecordedPayload
		if msg.Decode(&p) != nil {
			return false
		}
		line := fmt.Sprintf("%s scored %d in %s", c.name(p.PlayerID), p.Points, p.Category)
		if p.Bonus > 0 {
			line += fmt.Sprintf(" (+%d Yahtzee bonus!)", p.Bonus)
		}
		fmt.Println(line)

	case protocol.GameOver:
		var p protocol.GameOverPayload
		if msg.Decode(&p) != nil {
			return false
		}
		fmt.Println("=== Final standings ===")
		for i, standing := range p.Standings {
			fmt.Printf("%d. %s: %d points\n", i+1, standing.Name, standing.Total)
		}
		return true

	case protocol.ChatMessage:
		var p protocol.ChatMessagePayload
		if msg.Decode(&p) != nil {
			return false
		}
		fmt.Printf("[%s] %s\n", p.Name, p.Text)

	case protocol.ActionRejected:
		var p protocol.RejectedPayload
		if msg.Decode(&p) != nil {
			return false
		}
		fmt.Printf("Rejected: %s\n", p.Reason)
	}

	return false
}

func (c *Client) name(id uuid.UUID) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return id.String()[:8]
}

func holdString(held [5]bool) string {
	out := make([]byte, 5)
	for i, h := range held {
		if h {
			out[i] = 'x'
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
