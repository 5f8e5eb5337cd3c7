package auth

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var authLogger = logging.GetZeroLogger("auth::token", nil)

// Payload is the sealed content of a credential token. The room code,
// role and player binding are trusted once the seal verifies.
type Payload struct {
	RoomCode string    `json:"roomCode"`
	Role     game.Role `json:"role"`
	PlayerID string    `json:"playerId"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Issuer seals and opens credential tokens with an AES-GCM key derived
// from a process-wide uuid. Tokens are tamper evident: any bit flip
// fails authentication at open time.
type Issuer struct {
	key uuid.UUID
}

// NewIssuer parses keyStr as a uuid. An empty keyStr generates an
// ephemeral key, which invalidates outstanding tokens on restart.
func NewIssuer(keyStr string) (*Issuer, error) {
	if keyStr == "" {
		authLogger.Warn().Msg("No credential key configured, generating an ephemeral key")
		return &Issuer{key: uuid.New()}, nil
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, errors.Wrap(err, "Credential key must be a valid uuid")
	}
	return &Issuer{key: key}, nil
}

func (i *Issuer) Issue(identity game.Identity, now time.Time) (string, error) {
	payload := Payload{
		RoomCode: identity.RoomCode,
		Role:     identity.Role,
		PlayerID: identity.PlayerID,
		IssuedAt: now,
	}
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "Unable to marshal credential payload")
	}
	sealed, err := encryptWithUUIDKey(data, i.key)
	if err != nil {
		return "", errors.Wrap(err, "Unable to seal credential payload")
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Verify opens a token and returns the identity it binds. Any decode,
// seal or payload failure is reported as a single invalid-credential
// error so callers cannot distinguish tampering modes.
func (i *Issuer) Verify(token string) (*game.Identity, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.New("Invalid credential")
	}
	data, err := decryptWithUUIDKey(sealed, i.key)
	if err != nil {
		return nil, errors.New("Invalid credential")
	}
	var payload Payload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return nil, errors.New("Invalid credential")
	}
	if payload.RoomCode == "" || payload.PlayerID == "" {
		return nil, errors.New("Invalid credential")
	}
	if payload.Role != game.RoleHost && payload.Role != game.RolePlayer {
		return nil, errors.New("Invalid credential")
	}
	return &game.Identity{
		RoomCode: payload.RoomCode,
		Role:     payload.Role,
		PlayerID: payload.PlayerID,
	}, nil
}
