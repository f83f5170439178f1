package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference produces a booking reference of the form
// DLX-<base36 unix millis>-<5 random chars>, uppercase. References are
// unique in practice; the create path retries on the rare collision.
func GenerateReference() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	b := make([]byte, 5)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceAlphabet))))
		if err != nil {
			// crypto/rand failure is effectively fatal elsewhere; fall
			// back to a timestamp-derived character rather than panic.
			b[i] = referenceAlphabet[time.Now().UnixNano()%int64(len(referenceAlphabet))]
			continue
		}
		b[i] = referenceAlphabet[idx.Int64()]
	}

	return fmt.Sprintf("DLX-%s-%s", ts, string(b))
}
