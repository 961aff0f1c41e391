package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/abdelrahman-aldesoky/bank-server/internal/protocol"
)

// Small wire-level smoke client: logs in, runs a deposit and a balance
// check, and prints every response. Useful for poking a running server
// without a desktop client at hand.

func main() {
	addr := flag.String("addr", "127.0.0.1:19908", "server address")
	username := flag.String("user", "admin", "username")
	password := flag.String("pass", "admin", "password")
	compressed := flag.Bool("compressed", true, "server compresses responses")
	flag.Parse()

	conn, err := net.DialTimeout("tcp", *addr, 5*time.Second)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial failed:", err)
		os.Exit(1)
	}
	defer conn.Close()

	login := request(conn, *compressed, map[string]any{
		"requestId": 0,
		"username":  *username,
		"password":  *password,
	})
	accountNumber, _ := login["accountNumber"].(float64)
	if accountNumber == 0 {
		fmt.Fprintln(os.Stderr, "login failed:", login["errorMessage"])
		os.Exit(1)
	}

	request(conn, *compressed, map[string]any{
		"requestId":     6,
		"accountNumber": uint64(accountNumber),
		"amount":        "10.00",
	})
	request(conn, *compressed, map[string]any{
		"requestId":     2,
		"accountNumber": uint64(accountNumber),
	})
	request(conn, *compressed, map[string]any{
		"requestId":     8,
		"accountNumber": uint64(accountNumber),
	})
}

func request(conn net.Conn, compressed bool, body map[string]any) map[string]any {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode failed:", err)
		os.Exit(1)
	}
	if err := protocol.WriteFrame(conn, payload); err != nil {
		fmt.Fprintln(os.Stderr, "write failed:", err)
		os.Exit(1)
	}

	frame, err := protocol.ReadFrame(conn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read failed:", err)
		os.Exit(1)
	}
	if compressed {
		frame, err = protocol.Decompress(frame)
		if err != nil {
			fmt.Fprintln(os.Stderr, "decompress failed:", err)
			os.Exit(1)
		}
	}

	var response map[string]any
	if err := json.Unmarshal(frame, &response); err != nil {
		fmt.Fprintln(os.Stderr, "decode failed:", err)
		os.Exit(1)
	}
	fmt.Printf("-> %v\n<- %s\n", body, frame)
	return response
}
