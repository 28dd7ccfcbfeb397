package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"kitchenwise.dev/api/internal/data"
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

// EncryptionTokenMarshaler seals a LastEvaluatedKey under a key derived from
// a server secret and the user id, so a token only opens for its own user.
type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret []byte
}

func NewGCM(secret string) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: []byte(secret),
	}
}

func _encodeNextToken(token []byte) string {
	return base64.URLEncoding.EncodeToString(token)
}

func _convertLastKeyToToken(lastKey map[string]types.AttributeValue) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	token := make(data.NextToken, len(lastKey))
	for key, value := range lastKey {
		innerMap := make(map[string]string, 1)
		switch v := value.(type) {
		case *types.AttributeValueMemberS:
			innerMap["S"] = v.Value
		case *types.AttributeValueMemberN:
			innerMap["N"] = v.Value
		case *types.AttributeValueMemberB:
			innerMap["B"] = base64.StdEncoding.EncodeToString(v.Value)
		default:
			return nil, fmt.Errorf("unsupported key attribute type for %s", key)
		}
		token[key] = innerMap
	}
	return json.Marshal(token)
}

func _decodeNextToken(encToken string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(encToken)
}

func _convertTokenToLastKey(token []byte) (map[string]types.AttributeValue, error) {
	if len(token) == 0 {
		return nil, nil
	}
	var nextToken data.NextToken
	err := json.Unmarshal(token, &nextToken)
	if err != nil {
		return nil, err
	}
	lastKey := make(map[string]types.AttributeValue, len(nextToken))
	for field, innerMap := range nextToken {
		if sv, ok := innerMap["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{
				Value: sv,
			}
		}
		if nv, ok := innerMap["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{
				Value: nv,
			}
		}
		if bv, ok := innerMap["B"]; ok {
			raw, err := base64.StdEncoding.DecodeString(bv)
			if err != nil {
				return nil, err
			}
			lastKey[field] = &types.AttributeValueMemberB{
				Value: raw,
			}
		}
	}
	return lastKey, nil
}

func _hash(secret []byte, userId string) []byte {
	hash := sha256.New()
	hash.Write(secret)
	hash.Write([]byte{0})
	hash.Write([]byte(userId))
	return hash.Sum(nil)
}

func _mode(marshaller *EncryptionTokenMarshaler, userId string) (cipher.AEAD, error) {
	key, err := aes.NewCipher(_hash(marshaller.Secret, userId))
	if err != nil {
		return nil, err
	}
	return marshaller.Mode(key)
}

func (em *EncryptionTokenMarshaler) Marshal(userId string, lastKey map[string]types.AttributeValue) (*string, error) {
	serialized, err := _convertLastKeyToToken(lastKey)
	if err != nil || serialized == nil {
		return nil, err
	}
	aesgcm, err := _mode(em, userId)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := aesgcm.Seal(nil, nonce, serialized, nil)
	payload := map[string]string{
		"ciphertext": hex.EncodeToString(ciphertext),
		"nonce":      hex.EncodeToString(nonce),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(_encodeNextToken(b))
	return &token, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(userId string, token *string) (map[string]types.AttributeValue, error) {
	if token == nil || len(*token) == 0 {
		return nil, nil
	}
	decToken, err := _decodeNextToken(*token)
	if err != nil {
		return nil, err
	}
	var payload map[string]string
	if err := json.Unmarshal(decToken, &payload); err != nil {
		return nil, err
	}
	aesgcm, err := _mode(em, userId)
	if err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(payload["ciphertext"])
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(payload["nonce"])
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return _convertTokenToLastKey(plaintext)
}
