package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// NormalizePhoneID rewrites Indonesian local phone numbers ("08...") to the
// +62 international form. Anything not starting with a zero passes through
// unchanged, including numbers that already carry a country code. Unexpected
// formats are not validated here.
func NormalizePhoneID(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return "+62" + strings.TrimLeft(phone, "0")
	}
	return phone
}

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

func StrPtr(s string) *string {
	return &s
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
