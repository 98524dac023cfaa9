// Package id generates the prefixed, human-readable identifiers used for
// every document this system writes: products, sales, invoices and
// transactions. IDs embed a time component so listings sort roughly by
// creation order, but strict ordering is not guaranteed.
package id

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Well-known prefixes.
const (
	Product     = "PROD-"
	Sale        = "SALE-"
	Invoice     = "INV-"
	Transaction = "TXN-"
)

const randomLen = 9

var base36Max = new(big.Int).Exp(big.NewInt(36), big.NewInt(randomLen), nil)

// fallbackSeq feeds the low-entropy suffix used when crypto/rand fails.
// Monotonic per process, so ids stay unique even without randomness.
var fallbackSeq atomic.Uint64

// New returns prefix + base-36 millisecond timestamp + "-" + 9 base-36
// random characters, uppercased. It never fails: if the random source is
// unavailable it degrades to a counter-derived suffix instead of erroring.
func New(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(prefix + ts + "-" + randomSuffix())
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, base36Max)
	if err != nil {
		return fallbackSuffix()
	}
	return pad36(n.Text(36))
}

func fallbackSuffix() string {
	seq := fallbackSeq.Add(1)
	return pad36(strconv.FormatUint(seq, 36))
}

func pad36(s string) string {
	if len(s) >= randomLen {
		return s[len(s)-randomLen:]
	}
	return strings.Repeat("0", randomLen-len(s)) + s
}
