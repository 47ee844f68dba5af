package ethrecover

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
)

// RequestParser defines the interface for reading verification requests.
type RequestParser interface {
	// ParseRequests parses requests from a source and returns them.
	ParseRequests(source string) ([]*Request, error)
}

// RequestText is the text form of a request, shared by the JSON and CSV
// parsers and the command line. Hex fields accept an optional 0x prefix.
type RequestText struct {
	PublicKey  string
	Address    string
	Message    string
	MessageHex string
	Signature  string
	RecoveryID string
	V          string
}

// JSONParser parses requests from JSON files.
type JSONParser struct {
	PublicKeyField  string // Field name for the x || y key (default: "public_key")
	AddressField    string // Field name for the Ethereum address (default: "address")
	MessageField    string // Field name for a UTF-8 message (default: "message")
	MessageHexField string // Field name for a hex message (default: "message_hex")
	SignatureField  string // Field name for r || s or r || s || v (default: "signature")
	RecoveryIDField string // Field name for the recovery id (default: "recovery_id")
	VField          string // Field name for a wallet v value (default: "v")
}

// ParseRequests parses requests from a JSON file.
//
// Expected format:
// [
//
//	{"public_key": "0x...", "message": "DePIN", "signature": "0x...", "recovery_id": 1},
//	{"address": "0x...", "message_hex": "0x...", "signature": "0x...", "v": 28}
//
// ]
func (p *JSONParser) ParseRequests(jsonFile string) ([]*Request, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber()

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	fields := p.fieldNames()
	requests := make([]*Request, 0, len(items))

	for i, item := range items {
		var raw RequestText
		targets := []*string{&raw.PublicKey, &raw.Address, &raw.Message, &raw.MessageHex, &raw.Signature, &raw.RecoveryID, &raw.V}
		for j, name := range fields {
			val, ok := item[name]
			if !ok {
				continue
			}
			s, err := stringValue(val)
			if err != nil {
				return nil, fmt.Errorf("request %d: field %q: %w", i, name, err)
			}
			*targets[j] = s
		}

		req, err := raw.Build()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (p *JSONParser) fieldNames() []string {
	return []string{
		orDefault(p.PublicKeyField, "public_key"),
		orDefault(p.AddressField, "address"),
		orDefault(p.MessageField, "message"),
		orDefault(p.MessageHexField, "message_hex"),
		orDefault(p.SignatureField, "signature"),
		orDefault(p.RecoveryIDField, "recovery_id"),
		orDefault(p.VField, "v"),
	}
}

// CSVParser parses requests from CSV files with a header row.
type CSVParser struct {
	PublicKeyCol  string // Column name for the x || y key (default: "public_key")
	AddressCol    string // Column name for the Ethereum address (default: "address")
	MessageCol    string // Column name for a UTF-8 message (default: "message")
	MessageHexCol string // Column name for a hex message (default: "message_hex")
	SignatureCol  string // Column name for the signature (default: "signature")
	RecoveryIDCol string // Column name for the recovery id (default: "recovery_id")
	VCol          string // Column name for a wallet v value (default: "v")
}

// ParseRequests parses requests from a CSV file.
func (p *CSVParser) ParseRequests(csvFile string) ([]*Request, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := []string{
		orDefault(p.PublicKeyCol, "public_key"),
		orDefault(p.AddressCol, "address"),
		orDefault(p.MessageCol, "message"),
		orDefault(p.MessageHexCol, "message_hex"),
		orDefault(p.SignatureCol, "signature"),
		orDefault(p.RecoveryIDCol, "recovery_id"),
		orDefault(p.VCol, "v"),
	}
	indices := make([]int, len(columns))
	for j, name := range columns {
		indices[j] = -1
		for i, col := range header {
			if col == name {
				indices[j] = i
			}
		}
	}

	// signature is the only column every request needs
	if indices[4] == -1 {
		return nil, fmt.Errorf("missing required column: %s", columns[4])
	}

	requests := make([]*Request, 0)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		var raw RequestText
		targets := []*string{&raw.PublicKey, &raw.Address, &raw.Message, &raw.MessageHex, &raw.Signature, &raw.RecoveryID, &raw.V}
		for j, idx := range indices {
			if idx >= 0 && idx < len(record) {
				*targets[j] = record[idx]
			}
		}

		req, err := raw.Build()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// CBORRequest is the CBOR wire form of a Request. Binary fields are carried
// as byte strings.
type CBORRequest struct {
	PublicKey  []byte `cbor:"public_key,omitempty"`
	Address    []byte `cbor:"address,omitempty"`
	Message    []byte `cbor:"message"`
	Signature  []byte `cbor:"signature"`
	RecoveryID uint8  `cbor:"recovery_id"`
}

// CBORParser parses requests from a CBOR array of CBORRequest maps.
type CBORParser struct{}

// ParseRequests parses requests from a CBOR file.
func (p *CBORParser) ParseRequests(cborFile string) ([]*Request, error) {
	data, err := os.ReadFile(cborFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var items []CBORRequest
	if err := cbor.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse CBOR: %w", err)
	}

	requests := make([]*Request, 0, len(items))
	for i, item := range items {
		req, err := item.request()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// EncodeCBORRequests serializes requests in the format CBORParser reads.
func EncodeCBORRequests(requests []*Request) ([]byte, error) {
	items := make([]CBORRequest, 0, len(requests))
	for _, req := range requests {
		item := CBORRequest{
			Message:    req.Message,
			Signature:  req.Signature.Bytes(),
			RecoveryID: uint8(req.RecoveryID),
		}
		if req.PublicKey != (PublicKey{}) {
			item.PublicKey = req.PublicKey[:]
		} else {
			item.Address = req.Address.Bytes()
		}
		items = append(items, item)
	}
	return cbor.Marshal(items)
}

func (c *CBORRequest) request() (*Request, error) {
	req := &Request{Message: c.Message, RecoveryID: RecoveryID(c.RecoveryID)}

	sig, err := ParseSignature(c.Signature)
	if err != nil {
		return nil, err
	}
	req.Signature = sig

	switch {
	case len(c.PublicKey) > 0:
		if req.PublicKey, err = ParsePublicKey(c.PublicKey); err != nil {
			return nil, err
		}
	case len(c.Address) == common.AddressLength:
		req.Address = common.BytesToAddress(c.Address)
	default:
		return nil, fmt.Errorf("%w: need public_key or a 20-byte address", ErrMalformedInput)
	}
	return req, nil
}

// Build validates the text fields and decodes them into a Request. A 65-byte
// signature carries its own v; otherwise RecoveryID or V must be set.
func (raw *RequestText) Build() (*Request, error) {
	req := &Request{}

	switch {
	case raw.MessageHex != "":
		msg, err := hexDecode(raw.MessageHex)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message_hex: %w", err)
		}
		req.Message = msg
	default:
		req.Message = []byte(raw.Message)
	}

	sigBytes, err := hexDecode(raw.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}

	switch len(sigBytes) {
	case CompactSignatureLength:
		req.Signature, req.RecoveryID, err = SplitCompact(sigBytes)
		if err != nil {
			return nil, err
		}
	default:
		if req.Signature, err = ParseSignature(sigBytes); err != nil {
			return nil, err
		}
		if req.RecoveryID, err = raw.recovery(); err != nil {
			return nil, err
		}
	}

	switch {
	case raw.PublicKey != "":
		keyBytes, err := hexDecode(raw.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public_key: %w", err)
		}
		if req.PublicKey, err = ParsePublicKey(keyBytes); err != nil {
			return nil, err
		}
	case raw.Address != "":
		if !common.IsHexAddress(raw.Address) {
			return nil, fmt.Errorf("%w: invalid address %q", ErrMalformedInput, raw.Address)
		}
		req.Address = common.HexToAddress(raw.Address)
	default:
		return nil, fmt.Errorf("%w: missing public_key or address", ErrMalformedInput)
	}

	return req, nil
}

func (raw *RequestText) recovery() (RecoveryID, error) {
	switch {
	case raw.RecoveryID != "":
		id, err := strconv.ParseUint(strings.TrimSpace(raw.RecoveryID), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("failed to parse recovery_id: %w", err)
		}
		return RecoveryID(id), nil
	case raw.V != "":
		v, err := strconv.ParseUint(strings.TrimSpace(raw.V), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse v: %w", err)
		}
		return RecoveryIDFromV(v)
	default:
		return 0, fmt.Errorf("%w: missing recovery_id or v", ErrMalformedInput)
	}
}

// stringValue flattens a decoded JSON value to its text form.
func stringValue(val interface{}) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', 0, 64), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported type: %T", val)
	}
}

// hexDecode decodes a hex string, handling 0x prefix.
func hexDecode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return hex.DecodeString(s)
}

func orDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
