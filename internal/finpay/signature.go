package finpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
)

var errNotObject = errors.New("notification body is not a JSON object")

// Sign computes the hex HMAC-SHA512 of payload with the merchant secret.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalPayload strips the signature field from a raw notification body
// and returns the canonical serialization of what remains, plus the
// signature that was carried. encoding/json marshals object keys sorted,
// which makes the serialization deterministic on both the signing and the
// verifying side.
func CanonicalPayload(rawBody []byte) (payload []byte, signature string, err error) {
	var m map[string]interface{}
	if err := json.Unmarshal(rawBody, &m); err != nil {
		return nil, "", errNotObject
	}

	signature, _ = m["signature"].(string)
	delete(m, "signature")

	payload, err = json.Marshal(m)
	if err != nil {
		return nil, "", err
	}
	return payload, signature, nil
}

// VerifyNotification authenticates an inbound webhook body against the
// secret of the locally configured environment. Nothing from the payload
// selects the key. The comparison is constant-time; a missing or malformed
// signature simply fails verification.
func VerifyNotification(rawBody []byte, secret string) bool {
	payload, signature, err := CanonicalPayload(rawBody)
	if err != nil || signature == "" {
		return false
	}

	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
