// Command genkey prints a fresh 64-byte HMAC key for SERVICE_TOKEN_KEY or
// SERVICE_PWD_KEY. Run it twice; the two keys must differ.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

func main() {
	key := make([]byte, 64) // 512 bits for HMAC-SHA-512
	if _, err := rand.Read(key); err != nil {
		log.Fatal("Failed to read random bytes: ", err)
	}

	fmt.Printf("Generated HMAC key:\n%v\n", key)
	fmt.Printf("\nKey b64url encoded:\n%s\n", base64.RawURLEncoding.EncodeToString(key))
}
