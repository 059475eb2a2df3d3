// Wire frame layout:
//
//	Offset  Size  Description
//	------  ----  -----------
//	0       4     total_size   (uint32, big-endian) — json_size + len(payload)
//	4       4     json_size    (uint32, big-endian) — length of the JSON body
//	8       …     JSON body    (UTF-8, length = json_size)
//	…       …     binary payload (length = total_size - json_size)
//
// total_size never counts the two 4-byte length prefixes themselves. When a
// message carries no binary payload, total_size == json_size and no payload
// bytes follow the JSON body.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

const headerLen = 8

// Write serializes msg to JSON, computes both length fields, and emits the
// whole frame — header, JSON body, and optional payload — as a single
// Write call so a concurrent reader on the same stream never observes a
// partial frame.
func Write(w io.Writer, msg Message, payload []byte) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wire: marshaling message: %w", err)
	}

	jsonSize := uint32(len(body))
	totalSize := jsonSize + uint32(len(payload))

	frame := make([]byte, 0, headerLen+len(body)+len(payload))
	var header [headerLen]byte
	binary.BigEndian.PutUint32(header[0:4], totalSize)
	binary.BigEndian.PutUint32(header[4:8], jsonSize)
	frame = append(frame, header[:]...)
	frame = append(frame, body...)
	frame = append(frame, payload...)

	if _, err := writeFull(w, frame); err != nil {
		return fmt.Errorf("wire: writing frame: %w", err)
	}
	return nil
}

// Read reads exactly one frame from r: the 8-byte header, the JSON body, and
// whatever payload bytes remain. It returns the decoded Message and the raw
// payload (nil, not empty, when the frame carried none).
func Read(r io.Reader) (Message, []byte, error) {
	var header [headerLen]byte
	if err := readFull(r, header[:]); err != nil {
		return Message{}, nil, fmt.Errorf("wire: reading header: %w", err)
	}

	totalSize := binary.BigEndian.Uint32(header[0:4])
	jsonSize := binary.BigEndian.Uint32(header[4:8])
	if jsonSize > totalSize {
		return Message{}, nil, fmt.Errorf("wire: json_size %d exceeds total_size %d", jsonSize, totalSize)
	}

	body := make([]byte, jsonSize)
	if err := readFull(r, body); err != nil {
		return Message{}, nil, fmt.Errorf("wire: reading json body: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, nil, fmt.Errorf("wire: decoding json body: %w", err)
	}

	payloadSize := totalSize - jsonSize
	if payloadSize == 0 {
		return msg, nil, nil
	}
	payload := make([]byte, payloadSize)
	if err := readFull(r, payload); err != nil {
		return Message{}, nil, fmt.Errorf("wire: reading payload: %w", err)
	}

	return msg, payload, nil
}

// readFull loops on short reads until buf is fully populated or an error
// (including io.EOF partway through) terminates the read.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}

// writeFull loops on short writes until buf is fully flushed.
func writeFull(w io.Writer, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := w.Write(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
