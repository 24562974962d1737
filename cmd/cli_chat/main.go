package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

// Cliente de terminal contra la API: inicia una sesión, envía turnos de chat
// y muestra la respuesta streameada a medida que llega.
func main() {
	baseURL := flag.String("base-url", "http://localhost:8080/api", "base URL of the contract API")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	sessionID, err := startSession(*baseURL)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}
	fmt.Printf("session %s iniciada. Comandos: /clear, /history, /exit\n", sessionID)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/exit":
			return
		case line == "/clear":
			if err := postJSON(*baseURL+"/session/"+sessionID+"/clear", nil); err != nil {
				fmt.Println("error:", err)
			} else {
				fmt.Println("historial borrado")
			}
			continue
		case line == "/history":
			if err := printHistory(*baseURL, sessionID); err != nil {
				fmt.Println("error:", err)
			}
			continue
		}

		if err := streamTurn(*baseURL, sessionID, line); err != nil {
			fmt.Println("\nerror:", err)
		}
		fmt.Println()
	}
}

func startSession(baseURL string) (string, error) {
	resp, err := http.Post(baseURL+"/session/start", "application/json", strings.NewReader("{}"))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

func streamTurn(baseURL, sessionID, content string) error {
	body, err := json.Marshal(map[string]any{
		"session_id": sessionID,
		"message":    map[string]string{"role": "human", "content": content},
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(baseURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	printer := &envelopePrinter{out: os.Stdout}
	_, err = io.Copy(printer, resp.Body)
	return err
}

func printHistory(baseURL, sessionID string) error {
	resp, err := http.Get(baseURL + "/session/" + sessionID + "/history")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	for _, m := range out.Messages {
		fmt.Printf("[%s] %s\n", m.Role, m.Content)
	}
	return nil
}

func postJSON(url string, payload any) error {
	body := []byte("{}")
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

const envelopePrefix = `{"data":"`

type printerState int

const (
	statePrefix printerState = iota
	stateBody
	stateDone
)

// envelopePrinter decodifica incrementalmente el objeto {"data":"..."} que
// emite el endpoint de chat, imprimiendo el texto a medida que llega.
type envelopePrinter struct {
	out     io.Writer
	state   printerState
	seen    int
	escaped bool
}

func (p *envelopePrinter) Write(b []byte) (int, error) {
	for _, c := range b {
		switch p.state {
		case statePrefix:
			p.seen++
			if p.seen == len(envelopePrefix) {
				p.state = stateBody
			}
		case stateBody:
			if p.escaped {
				p.escaped = false
				fmt.Fprintf(p.out, "%c", c)
				continue
			}
			if c == '\\' {
				p.escaped = true
				continue
			}
			if c == '"' {
				p.state = stateDone
				continue
			}
			fmt.Fprintf(p.out, "%c", c)
		case stateDone:
		}
	}
	return len(b), nil
}
