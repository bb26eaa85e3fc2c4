package database

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformedBlock is returned when a line read from a peer is not a
// complete block.
var ErrMalformedBlock = errors.New("malformed block")

// =============================================================================

// blockData is the form used to decode a block from the wire. The pointer
// fields make it possible to tell a missing field from a zero value.
type blockData struct {
	Number        *uint64 `json:"index"`
	PrevBlockHash *string `json:"previous_hash"`
	TimeStamp     *uint64 `json:"timestamp"`
	Trans         *[]Tx   `json:"transactions"`
	Nonce         *uint64 `json:"nonce"`
	Hash          *string `json:"hash"`
}

// EncodeBlock produces the wire form of a block which is a single line of
// JSON terminated by a newline.
func EncodeBlock(block Block) ([]byte, error) {
	if block.Trans == nil {
		block.Trans = []Tx{}
	}

	data, err := json.Marshal(block)
	if err != nil {
		return nil, fmt.Errorf("marshal block: %w", err)
	}

	return append(data, '\n'), nil
}

// EncodeMessage produces the wire form of a free form text message. Any
// embedded newlines are replaced so the message stays on one line.
func EncodeMessage(msg string) []byte {
	line := bytes.ReplaceAll([]byte(msg), []byte{'\n'}, []byte{' '})
	return append(line, '\n')
}

// DecodeBlock parses a single line read from a peer. Every block field must
// be present for the line to be considered a block.
func DecodeBlock(line []byte) (Block, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return Block{}, ErrMalformedBlock
	}

	var bd blockData
	if err := json.Unmarshal(line, &bd); err != nil {
		return Block{}, fmt.Errorf("%w: %s", ErrMalformedBlock, err)
	}

	if bd.Number == nil || bd.PrevBlockHash == nil || bd.TimeStamp == nil || bd.Trans == nil || bd.Nonce == nil || bd.Hash == nil {
		return Block{}, fmt.Errorf("%w: missing fields", ErrMalformedBlock)
	}

	block := Block{
		Number:        *bd.Number,
		PrevBlockHash: *bd.PrevBlockHash,
		TimeStamp:     *bd.TimeStamp,
		Trans:         *bd.Trans,
		Nonce:         *bd.Nonce,
		Hash:          *bd.Hash,
	}

	return block, nil
}
