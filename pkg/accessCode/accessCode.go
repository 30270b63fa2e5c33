package accessCode

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samborkent/uuidv7"
)

// GenerateCode returns an opaque code carrying the subscriber email, usable
// in confirm and unsubscribe links.
func GenerateCode(email string) string {
	uniqueID := uuidv7.New()

	code := fmt.Sprintf("%s|%s", email, uniqueID.String())

	return base64.URLEncoding.EncodeToString([]byte(code))
}

func Decode(code string) (email, uniqueID string, err error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(code)
	if err != nil {
		return "", "", err
	}
	res := strings.Split(string(decodedBytes), "|")
	if len(res) != 2 {
		return "", "", fmt.Errorf("not correct format")
	}
	return res[0], res[1], nil
}
