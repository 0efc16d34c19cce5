// Command wsclient exercises the relay websocket end to end: start a
// session, stream a WAV file (or silence) as binary chunks, print every
// frame the relay sends back, then stop.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

// At 16kHz 16-bit mono = 32000 bytes/second, 100ms chunks = 3200 bytes
const chunkSize = 3200
const chunkIntervalMs = 100

func main() {
	serverURL := flag.String("server", "ws://localhost:8080/ws", "Relay websocket URL")
	audioFile := flag.String("audio", "", "Path to WAV file (16kHz 16-bit mono); empty streams silence")
	duration := flag.Duration("duration", 10*time.Second, "How long to stream silence when no file is given")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *serverURL, err)
	}
	defer conn.Close()

	log.Printf("Connected to %s", *serverURL)

	// Print every inbound frame until the connection closes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame map[string]any
			if err := json.Unmarshal(data, &frame); err != nil {
				log.Printf("<- %s", data)
				continue
			}
			log.Printf("<- %s: %s", frame["type"], data)
		}
	}()

	send := func(frameType string) {
		msg, _ := json.Marshal(map[string]string{"type": frameType})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Fatalf("Failed to send %s: %v", frameType, err)
		}
	}

	send("start_transcription")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	if *audioFile != "" {
		streamFile(conn, *audioFile, sig)
	} else {
		streamSilence(conn, *duration, sig)
	}

	send("stop_transcription")

	// Give the relay a moment to flush the stop acknowledgement.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func streamFile(conn *websocket.Conn, path string, sig <-chan os.Signal) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("Failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}

	sampleRate := binary.LittleEndian.Uint32(header[24:28])
	if sampleRate != 16000 {
		log.Printf("Warning: Sample rate is %d Hz, expected 16000 Hz", sampleRate)
	}

	chunk := make([]byte, chunkSize)
	ticker := time.NewTicker(chunkIntervalMs * time.Millisecond)
	defer ticker.Stop()

	var totalBytes int64
	for {
		select {
		case <-sig:
			log.Printf("Interrupted after %d bytes", totalBytes)
			return
		case <-ticker.C:
		}

		n, err := f.Read(chunk)
		if err == io.EOF {
			log.Printf("Streamed %d audio bytes", totalBytes)
			return
		}
		if err != nil {
			log.Fatalf("Failed to read audio: %v", err)
		}

		totalBytes += int64(n)
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk[:n]); err != nil {
			log.Fatalf("Failed to send audio: %v", err)
		}
	}
}

func streamSilence(conn *websocket.Conn, duration time.Duration, sig <-chan os.Signal) {
	chunk := make([]byte, chunkSize)
	ticker := time.NewTicker(chunkIntervalMs * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(duration)

	for {
		select {
		case <-sig:
			return
		case <-deadline:
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				log.Fatalf("Failed to send audio: %v", err)
			}
		}
	}
}
