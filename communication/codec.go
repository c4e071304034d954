package communication

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrUnknownKind = errors.New("unknown payload kind")

// CompressThreshold is the encoded payload size above which frames are lz4-compressed. Full snapshots usually
// cross it; everything else stays raw.
const CompressThreshold = 512

type envelope struct {
	Kind       Kind   `msgpack:"k"`
	Compressed bool   `msgpack:"z,omitempty"`
	Payload    []byte `msgpack:"p"`
}

// Encode wraps a payload in an envelope.
func Encode(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("trying to encode nil payload")
	}
	pb, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", p.Kind(), err)
	}

	env := envelope{Kind: p.Kind(), Payload: pb}
	if len(pb) > CompressThreshold {
		compressed, err := compress(pb)
		if err != nil {
			return nil, fmt.Errorf("failed to compress %s payload: %w", p.Kind(), err)
		}
		env.Payload = compressed
		env.Compressed = true
	}

	return msgpack.Marshal(&env)
}

// Decode unwraps an envelope into its concrete payload type.
func Decode(b []byte) (Payload, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("trying to decode envelope with byte size 0")
	}
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Compressed {
		raw, err := decompress(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s payload: %w", env.Kind, err)
		}
		env.Payload = raw
	}

	switch env.Kind {
	case KindJoin:
		return decodePayload[Join](env)
	case KindUpdatePlayer:
		return decodePayload[UpdatePlayer](env)
	case KindChat:
		return decodePayload[Chat](env)
	case KindStartGame:
		return decodePayload[StartGame](env)
	case KindPhaseChange:
		return decodePayload[PhaseChange](env)
	case KindSyncState:
		return decodePayload[SyncState](env)
	case KindSubmitOrders:
		return decodePayload[SubmitOrders](env)
	case KindAnimation:
		return decodePayload[Animation](env)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, env.Kind)
}

func decodePayload[T Payload](env envelope) (Payload, error) {
	var out T
	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("empty payload for kind %s", env.Kind)
	}
	if err := msgpack.Unmarshal(env.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
	}
	return out, nil
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(src))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
