package coupang

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// signature holds one signed request's auth material.
type signature struct {
	datetime      string
	authorization string
}

// sign produces the CEA HMAC-SHA256 authorization header for one request.
// The signed message is datetime + method + path + query, with the datetime
// in the gateway's compact yyMMdd'T'HHmmss'Z' form.
func sign(accessKey, secretKey, method, path, query string, now time.Time) signature {
	datetime := now.UTC().Format("060102T150405Z")
	msg := datetime + method + path + query

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(msg))
	sig := hex.EncodeToString(mac.Sum(nil))

	return signature{
		datetime: datetime,
		authorization: fmt.Sprintf(
			"CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s",
			accessKey, datetime, sig,
		),
	}
}
