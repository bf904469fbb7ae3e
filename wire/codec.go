// Package wire implements the envelope format spoken over the local IPC
// connection to the desktop peer: a fixed 8-byte header holding a
// little-endian opcode and payload length, followed by a JSON payload.
package wire

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// headerSize is the opcode + length prefix preceding every payload.
const headerSize = 8

// maxPayload bounds the length field on read. The peer never sends
// frames anywhere near this size; anything larger means a corrupt or
// desynchronized stream.
const maxPayload = 8 << 20

// Codec reads and writes opcode + length framed JSON envelopes over a
// byte stream.
type Codec struct {
	reader *bufio.Reader
	writer io.Writer
	wmu    sync.Mutex
}

// NewCodec creates a new envelope codec over the given streams.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{
		reader: bufio.NewReaderSize(r, 16*1024),
		writer: w,
	}
}

// Read reads a single envelope from the stream.
func (c *Codec) Read() (*Message, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(c.reader, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	op := Opcode(binary.LittleEndian.Uint32(hdr[0:4]))
	length := binary.LittleEndian.Uint32(hdr[4:8])
	if length > maxPayload {
		return nil, fmt.Errorf("payload length %d exceeds limit", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.reader, payload); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return &Message{Op: op, Payload: payload}, nil
}

// Write serializes payload to JSON and writes it as a single envelope.
func (c *Codec) Write(op Opcode, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := c.writer.Write(Encode(op, data)); err != nil {
		return err
	}
	return nil
}

// Encode frames a raw JSON payload into a single envelope. The header
// and payload are returned as one slice so the transport sees exactly
// one write per envelope.
func Encode(op Opcode, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(op))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[headerSize:], payload)
	return buf
}
